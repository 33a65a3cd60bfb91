package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlmd-go/mlmd"
)

func newPutAttributionCmd() *cobra.Command {
	var contextID, artifactID int64
	cmd := &cobra.Command{
		Use:   "put-attribution",
		Short: "Attribute an Artifact to a Context (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			return store.PutAttribution(cmd.Context(), contextID, artifactID)
		},
	}
	cmd.Flags().Int64Var(&contextID, "context-id", 0, "Context id")
	cmd.Flags().Int64Var(&artifactID, "artifact-id", 0, "Artifact id")
	_ = cmd.MarkFlagRequired("context-id")
	_ = cmd.MarkFlagRequired("artifact-id")
	return cmd
}

func newPutAssociationCmd() *cobra.Command {
	var contextID, executionID int64
	cmd := &cobra.Command{
		Use:   "put-association",
		Short: "Associate an Execution with a Context (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			return store.PutAssociation(cmd.Context(), contextID, executionID)
		},
	}
	cmd.Flags().Int64Var(&contextID, "context-id", 0, "Context id")
	cmd.Flags().Int64Var(&executionID, "execution-id", 0, "Execution id")
	_ = cmd.MarkFlagRequired("context-id")
	_ = cmd.MarkFlagRequired("execution-id")
	return cmd
}

func newPutEventCmd() *cobra.Command {
	var executionID, artifactID int64
	var eventType, path string
	var millis int64

	cmd := &cobra.Command{
		Use:   "put-event",
		Short: "Record an Artifact<->Execution Event with an ordered path",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			req := store.PutEvent(executionID, artifactID)
			if eventType != "" {
				t, err := parseEventType(eventType)
				if err != nil {
					return err
				}
				req = req.WithType(t)
			}
			if millis != 0 {
				req = req.AtMilliseconds(millis)
			}
			steps, err := parseEventPath(path)
			if err != nil {
				return err
			}
			if len(steps) > 0 {
				req = req.WithPath(steps...)
			}

			result, err := req.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().Int64Var(&executionID, "execution-id", 0, "Execution id")
	cmd.Flags().Int64Var(&artifactID, "artifact-id", 0, "Artifact id")
	cmd.Flags().StringVar(&eventType, "type", "", "DECLARED_OUTPUT/DECLARED_INPUT/INPUT/OUTPUT/INTERNAL_INPUT/INTERNAL_OUTPUT")
	cmd.Flags().StringVar(&path, "path", "", "ordered steps, e.g. idx:7,key:k,idx:2")
	cmd.Flags().Int64Var(&millis, "millis", 0, "milliseconds since epoch stored on the event; defaults to 0")
	_ = cmd.MarkFlagRequired("execution-id")
	_ = cmd.MarkFlagRequired("artifact-id")
	return cmd
}

func newGetEventsCmd() *cobra.Command {
	var artifactIDs, executionIDs string
	cmd := &cobra.Command{
		Use:   "get-events",
		Short: "List Events filtered by artifact/execution ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			req := store.GetEvents()
			aIDs, err := parseIDList(artifactIDs)
			if err != nil {
				return err
			}
			if len(aIDs) > 0 {
				req = req.ForArtifacts(aIDs...)
			}
			xIDs, err := parseIDList(executionIDs)
			if err != nil {
				return err
			}
			if len(xIDs) > 0 {
				req = req.ForExecutions(xIDs...)
			}

			result, err := req.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&artifactIDs, "artifact-ids", "", "comma-separated artifact id list")
	cmd.Flags().StringVar(&executionIDs, "execution-ids", "", "comma-separated execution id list")
	return cmd
}

func parseEventType(s string) (mlmd.EventType, error) {
	switch s {
	case "UNKNOWN":
		return mlmd.EventTypeUnknown, nil
	case "DECLARED_OUTPUT":
		return mlmd.EventTypeDeclaredOutput, nil
	case "DECLARED_INPUT":
		return mlmd.EventTypeDeclaredInput, nil
	case "INPUT":
		return mlmd.EventTypeInput, nil
	case "OUTPUT":
		return mlmd.EventTypeOutput, nil
	case "INTERNAL_INPUT":
		return mlmd.EventTypeInternalInput, nil
	case "INTERNAL_OUTPUT":
		return mlmd.EventTypeInternalOutput, nil
	default:
		return 0, fmt.Errorf("mlmdctl: unknown event type %s", s)
	}
}
