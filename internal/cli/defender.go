package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/shotcall/internal/domain/defense"
	"github.com/okian/shotcall/internal/domain/types"
)

type defenderOptions struct {
	contest string
	base    float64
	maxFt   int
}

func newDefenderCmd() *cobra.Command {
	o := &defenderOptions{}

	cmd := &cobra.Command{
		Use:   "defender",
		Short: "Print the defender impact table",
		Long: `Print how a closest-defender distance changes a base make probability,
one row per foot from 0 to --max.

Examples:
  shotctl defender
  shotctl defender --contest TIGHT --base 0.45 --max 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDefender(cmd, o)
		},
	}

	cmd.Flags().StringVar(&o.contest, "contest", "OPEN", "contest level applied to every row")
	cmd.Flags().Float64Var(&o.base, "base", 0.40, "base make probability")
	cmd.Flags().IntVar(&o.maxFt, "max", 20, "largest distance in feet")
	return cmd
}

func runDefender(cmd *cobra.Command, o *defenderOptions) error {
	if o.base < 0 || o.base > 1 {
		return fmt.Errorf("--base must be in [0,1], got %v", o.base)
	}
	if o.maxFt < 0 {
		return fmt.Errorf("--max must not be negative, got %d", o.maxFt)
	}

	m := defense.NewModel()
	contest := types.ParseContestLevel(o.contest)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "distance_ft\tdecay\tmultiplier\timpact\tadjusted\tchange_pp\t\n")
	for ft := 0; ft <= o.maxFt; ft++ {
		d := float64(ft)
		a := m.Apply(o.base, &d, contest)
		fmt.Fprintf(tw, "%d\t%.3f\t%.2f\t%.3f\t%.1f%%\t%+.1f\t\n",
			ft,
			a.Impact.DistanceDecay,
			a.Impact.ContestMultiplier,
			a.Impact.ImpactFactor,
			a.AdjustedProbability*100,
			(a.AdjustedProbability-o.base)*100,
		)
	}
	return tw.Flush()
}
