package main

import (
	"github.com/spf13/cobra"

	"github.com/mlmd-go/mlmd"
)

func newPostArtifactCmd() *cobra.Command {
	var typeID int64
	var name, uri string
	var properties, customProperties []string

	cmd := &cobra.Command{
		Use:   "post-artifact",
		Short: "Insert a new Artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			req := store.PostArtifact(typeID)
			if name != "" {
				req = req.WithName(name)
			}
			if uri != "" {
				req = req.WithURI(uri)
			}
			if err := applyProperties(req.WithProperty, req.WithCustomProperty, properties, customProperties); err != nil {
				return err
			}
			// Tag the CLI's run correlation id as a custom property.
			req = req.WithCustomProperty("_cli_run_id", mlmd.StringValue(runID))

			result, err := req.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().Int64Var(&typeID, "type-id", 0, "Artifact type id")
	cmd.Flags().StringVar(&name, "name", "", "optional artifact name")
	cmd.Flags().StringVar(&uri, "uri", "", "optional artifact uri")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "name:kind:value, repeatable")
	cmd.Flags().StringArrayVar(&customProperties, "custom-property", nil, "name:kind:value, repeatable")
	_ = cmd.MarkFlagRequired("type-id")
	return cmd
}

// applyProperties parses and applies --property/--custom-property
// flags through the two WithProperty/WithCustomProperty setters every
// Post*/Put* request exposes.
func applyProperties[T any](withProp, withCustom func(string, mlmd.PropertyValue) T, properties, customProperties []string) error {
	for _, spec := range properties {
		n, v, err := parseProperty(spec)
		if err != nil {
			return err
		}
		withProp(n, v)
	}
	for _, spec := range customProperties {
		n, v, err := parseProperty(spec)
		if err != nil {
			return err
		}
		withCustom(n, v)
	}
	return nil
}

func newGetArtifactsCmd() *cobra.Command {
	var typeName, name, uri, ids string
	var contextID int64
	var hasContext bool

	cmd := &cobra.Command{
		Use:   "get-artifacts",
		Short: "List Artifacts matching a filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			req := store.GetArtifacts()
			if typeName != "" {
				req = req.OfType(typeName)
			}
			if name != "" {
				req = req.Named(name)
			}
			if uri != "" {
				req = req.WithURI(uri)
			}
			idList, err := parseIDList(ids)
			if err != nil {
				return err
			}
			if len(idList) > 0 {
				req = req.WithIDs(idList...)
			}
			if hasContext {
				req = req.InContext(contextID)
			}

			result, err := req.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&typeName, "type-name", "", "filter by type name")
	cmd.Flags().StringVar(&name, "name", "", "filter by artifact name")
	cmd.Flags().StringVar(&uri, "uri", "", "filter by uri")
	cmd.Flags().StringVar(&ids, "ids", "", "comma-separated id list")
	cmd.Flags().Int64Var(&contextID, "context-id", 0, "filter by attributed context id")
	cmd.Flags().BoolVar(&hasContext, "has-context", false, "apply --context-id")
	return cmd
}

func newPostExecutionCmd() *cobra.Command {
	var typeID int64
	var name, state string
	var properties, customProperties []string

	cmd := &cobra.Command{
		Use:   "post-execution",
		Short: "Insert a new Execution",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			req := store.PostExecution(typeID)
			if name != "" {
				req = req.WithName(name)
			}
			if state != "" {
				s, err := parseExecutionState(state)
				if err != nil {
					return err
				}
				req = req.WithState(s)
			}
			if err := applyProperties(req.WithProperty, req.WithCustomProperty, properties, customProperties); err != nil {
				return err
			}
			req = req.WithCustomProperty("_cli_run_id", mlmd.StringValue(runID))

			result, err := req.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().Int64Var(&typeID, "type-id", 0, "Execution type id")
	cmd.Flags().StringVar(&name, "name", "", "optional execution name")
	cmd.Flags().StringVar(&state, "state", "", "NEW/RUNNING/COMPLETE/FAILED/CACHED/CANCELED")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "name:kind:value, repeatable")
	cmd.Flags().StringArrayVar(&customProperties, "custom-property", nil, "name:kind:value, repeatable")
	_ = cmd.MarkFlagRequired("type-id")
	return cmd
}

func newPostContextCmd() *cobra.Command {
	var typeID int64
	var name string
	var properties, customProperties []string

	cmd := &cobra.Command{
		Use:   "post-context",
		Short: "Insert a new Context (name is required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			req := store.PostContext(typeID, name)
			if err := applyProperties(req.WithProperty, req.WithCustomProperty, properties, customProperties); err != nil {
				return err
			}
			req = req.WithCustomProperty("_cli_run_id", mlmd.StringValue(runID))

			result, err := req.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().Int64Var(&typeID, "type-id", 0, "Context type id")
	cmd.Flags().StringVar(&name, "name", "", "context name (required)")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "name:kind:value, repeatable")
	cmd.Flags().StringArrayVar(&customProperties, "custom-property", nil, "name:kind:value, repeatable")
	_ = cmd.MarkFlagRequired("type-id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func parseExecutionState(s string) (mlmd.ExecutionState, error) {
	switch s {
	case "UNKNOWN":
		return mlmd.ExecutionStateUnknown, nil
	case "NEW":
		return mlmd.ExecutionStateNew, nil
	case "RUNNING":
		return mlmd.ExecutionStateRunning, nil
	case "COMPLETE":
		return mlmd.ExecutionStateComplete, nil
	case "FAILED":
		return mlmd.ExecutionStateFailed, nil
	case "CACHED":
		return mlmd.ExecutionStateCached, nil
	case "CANCELED":
		return mlmd.ExecutionStateCanceled, nil
	default:
		return 0, errUnknownState(s)
	}
}

type errUnknownState string

func (e errUnknownState) Error() string {
	return "mlmdctl: unknown execution state " + string(e)
}
