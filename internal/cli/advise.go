package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/okian/shotcall/internal/app"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

type adviseOptions struct {
	req       model.ShotRequest
	defender  float64
	base      float64
	modelFile string
}

func newAdviseCmd() *cobra.Command {
	o := &adviseOptions{}

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Advise on a single shot",
		Long: `Evaluate one shot with the local model and print the advice as JSON.

Examples:
  shotctl advise --zone "Right Corner 3" --shot-type 3PT --distance 23.5 \
    --quarter 2 --secs 14 --defender 2.2 --contest TIGHT --base 0.33
  shotctl advise --zone "Restricted Area" --shot-type 2PT --distance 3 --mode coach`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdvise(cmd, o)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&o.req.ShotDistance, "distance", 0, "shot distance in feet")
	f.Float64Var(&o.req.LocX, "loc-x", 0, "horizontal court position in feet")
	f.Float64Var(&o.req.LocY, "loc-y", 0, "distance from the baseline in feet")
	f.StringVar(&o.req.ShotType, "shot-type", "", "2PT Field Goal or 3PT Field Goal")
	f.StringVar(&o.req.Zone, "zone", "", "court zone, e.g. \"Mid-Range\"")
	f.IntVar(&o.req.Quarter, "quarter", 1, "period (5+ is overtime)")
	f.IntVar(&o.req.MinsLeft, "mins", 0, "minutes left in the period")
	f.IntVar(&o.req.SecsLeft, "secs", 0, "seconds left in the period")
	f.StringVar(&o.req.Position, "position", "", "shooter position (PG, SG, SF, PF, C)")
	f.StringVar(&o.req.ActionType, "action-type", "", "shot action, e.g. \"Jump Shot\"")
	f.Float64Var(&o.defender, "defender", -1, "closest defender distance in feet (omit when unknown)")
	f.StringVar(&o.req.ContestLevel, "contest", "", "TIGHT, CONTESTED, OPEN or WIDE_OPEN")
	f.Float64Var(&o.base, "base", -1, "base make probability; the local model is used when omitted")
	f.StringVar(&o.req.ExplanationMode, "mode", "feedback", "explanation mode (feedback, player, coach)")
	f.StringVar(&o.modelFile, "model-file", "", "YAML coefficient file for the local model")
	_ = cmd.MarkFlagRequired("shot-type")
	_ = cmd.MarkFlagRequired("zone")

	return cmd
}

func runAdvise(cmd *cobra.Command, o *adviseOptions) error {
	req := o.req
	if _, ok := types.ParseShotType(req.ShotType); !ok {
		return fmt.Errorf("--shot-type must be 2PT or 3PT, got %q", req.ShotType)
	}
	if cmd.Flags().Changed("defender") {
		d := o.defender
		req.DefenderDistance = &d
	}
	if cmd.Flags().Changed("base") {
		if o.base < 0 || o.base > 1 {
			return fmt.Errorf("--base must be in [0,1], got %v", o.base)
		}
		b := o.base
		req.BaseProbability = &b
	}

	svc := service.New(service.WithModelFile(o.modelFile))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.modelFile != "" {
		if err := svc.Start(ctx); err != nil {
			return err
		}
		defer svc.Stop()
	}

	advice, err := svc.Evaluate(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), advice)
}
