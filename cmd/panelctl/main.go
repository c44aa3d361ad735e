// Command panelctl runs the season rules and calendar helpers offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	applogger "github.com/oxtobyd/panelplanner/pkg/logger"
)

var (
	configPath string
	verbose    bool
	logger     = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "panelctl",
		Short:         "Panel and Carousel planning tools",
		Long:          "Validate season snapshots, compute due dates and manage the planner database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = applogger.NewCLILogger(verbose)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ./config/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(validateCmd(), easterCmd(), dueDatesCmd(), migrateCmd())
	return root
}
