// Command mlmdctl is a thin demo CLI over the mlmd store. It mirrors a
// cobra root command with persistent flags and one subcommand per
// operation, trimmed to this store's handful of operations.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mlmd-go/mlmd"
)

var (
	cfgPath string
	dbURI   string
	runID   string
)

func main() {
	shutdownTelemetry := initTelemetry()
	defer shutdownTelemetry()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mlmdctl",
		Short:         "mlmdctl manages a metadata store from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&dbURI, "db", "", "database URI, overrides the config file (sqlite:... or mysql:...)")

	root.AddCommand(
		newPutTypeCmd(),
		newPostArtifactCmd(),
		newGetArtifactsCmd(),
		newPostExecutionCmd(),
		newPostContextCmd(),
		newPutAttributionCmd(),
		newPutAssociationCmd(),
		newPutEventCmd(),
		newGetEventsCmd(),
	)
	return root
}

// resolveURI picks --db over the config file's database_uri.
func resolveURI() (string, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return "", err
	}
	if dbURI != "" {
		return dbURI, nil
	}
	return cfg.DatabaseURI, nil
}

// openStore opens the store for one command invocation and mints the
// run correlation id attached to whatever item this invocation writes.
func openStore(cmd *cobra.Command) (*mlmd.Store, error) {
	uri, err := resolveURI()
	if err != nil {
		return nil, err
	}
	runID = uuid.NewString()
	return mlmd.Open(cmd.Context(), uri)
}
