// Package cli provides the shotctl command-line interface.
package cli

import (
	"encoding/json"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/shotcall/pkg/logger"
)

// Version is set at build time.
var Version = "0.1.0"

type rootOptions struct {
	logLevel string
	logFile  string
}

// NewRootCmd builds the shotctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "shotctl",
		Short: "Shot selection advisory toolkit",
		Long: `shotctl evaluates basketball shot attempts with the same rule chain as the
advisory server: take-or-pass decisions, defender impact, action
recommendations and film review workbooks.

It also drills a running server with generated shots to check its answers.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env is fine.
			_ = godotenv.Load()
			return logger.Init(
				logger.WithConsole(cmd.ErrOrStderr()),
				logger.WithLevel(opts.logLevel),
				logger.WithFile(opts.logFile),
			)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this file")

	root.AddCommand(newAdviseCmd())
	root.AddCommand(newDefenderCmd())
	root.AddCommand(newReviewCmd())
	root.AddCommand(newDrillCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
