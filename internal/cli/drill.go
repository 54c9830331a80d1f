package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/shotcall/internal/drill"
)

func newDrillCmd() *cobra.Command {
	cfg := drill.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Drill a running server with generated shots",
		Long: `Generate random shots, post them to a running advisory server concurrently
and check every answer: TAKE SHOT iff make probability >= threshold,
confidence equals |p - threshold|, action fields exactly on PASS, and action
confidence within [0.15, 0.95] with a matching level. A review built from the
first shots is then submitted and polled until it completes.

Examples:
  shotctl drill
  shotctl drill --url http://localhost:8080 --shots 5000 --workers 32`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := drill.Run(cmd.Context(), cfg)
			fmt.Fprintf(cmd.OutOrStdout(),
				"submitted=%d succeeded=%d failed=%d takes=%d passes=%d violations=%d review=%s duration=%s\n",
				stats.Submitted, stats.Succeeded, stats.Failed, stats.Takes, stats.Passes,
				stats.Violations, stats.ReviewID, stats.Duration.Round(time.Millisecond))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the service")
	f.IntVar(&cfg.Shots, "shots", cfg.Shots, "number of shots to generate and submit")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of concurrent requests")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.DurationVar(&cfg.PollTimeout, "poll-timeout", cfg.PollTimeout, "how long to wait for the review")
	f.IntVar(&cfg.ReviewShots, "review-shots", cfg.ReviewShots, "shots in the follow-up review (0 skips it)")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed")
	f.StringVar(&cfg.OutputFile, "output", "", "write the generated shots to this JSON file")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every invariant violation")
	return cmd
}
