// Command adjudicate resolves scenario files from the command line and
// mints API tokens for the adjudication server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "adjudicate",
		Short: "Diplomacy turn adjudicator",
		Long: `Resolve Diplomacy movement, retreat and adjustment phases on the standard map.

Scenarios are YAML or JSON documents naming the phase, every player's units
and the orders they issued. Logs go to stderr; results go to stdout.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logger.Options{Level: logLevel, Out: cmd.ErrOrStderr()})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error, disabled)")

	root.AddCommand(newResolveCmd(), newMapCmd(), newTokenCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
