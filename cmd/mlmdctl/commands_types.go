package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlmd-go/mlmd"
)

func newPutTypeCmd() *cobra.Command {
	var kind, name string
	var properties []string
	var allowAdd, allowOmit bool

	cmd := &cobra.Command{
		Use:   "put-type",
		Short: "Create or reconcile an Artifact/Execution/Context type",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var req *mlmd.PutTypeRequest
			switch strings.ToLower(kind) {
			case "artifact":
				req = store.PutArtifactType(name)
			case "execution":
				req = store.PutExecutionType(name)
			case "context":
				req = store.PutContextType(name)
			default:
				return fmt.Errorf("mlmdctl: --kind must be artifact/execution/context, got %q", kind)
			}

			for _, spec := range properties {
				propName, propType, err := parseTypeDeclaration(spec)
				if err != nil {
					return err
				}
				req = req.WithProperty(propName, propType)
			}
			if allowAdd {
				req = req.AllowingAddedFields()
			}
			if allowOmit {
				req = req.AllowingOmittedFields()
			}

			result, err := req.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "artifact, execution or context")
	cmd.Flags().StringVar(&name, "name", "", "type name")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "name:TYPE, repeatable")
	cmd.Flags().BoolVar(&allowAdd, "allow-add", false, "allow adding properties to an existing type")
	cmd.Flags().BoolVar(&allowOmit, "allow-omit", false, "allow omitting properties an existing type declares")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
