package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/shotcall/internal/adapters/report"
	service "github.com/okian/shotcall/internal/app"
	"github.com/okian/shotcall/internal/domain/model"
)

type reviewOptions struct {
	out       string
	modelFile string
}

func newReviewCmd() *cobra.Command {
	o := &reviewOptions{}

	cmd := &cobra.Command{
		Use:   "review <file.csv|file.xlsx>",
		Short: "Evaluate a batch of shots and write a review workbook",
		Long: `Read shots from a CSV or XLSX file whose header uses the request field
names, evaluate each one locally and write an XLSX review workbook.
The review summary is printed as JSON.

Examples:
  shotctl review game7.csv
  shotctl review film/q4.xlsx --out q4-review.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, args[0], o)
		},
	}

	cmd.Flags().StringVarP(&o.out, "out", "o", "", "workbook path (default <input>-review.xlsx)")
	cmd.Flags().StringVar(&o.modelFile, "model-file", "", "YAML coefficient file for the local model")
	return cmd
}

func runReview(cmd *cobra.Command, path string, o *reviewOptions) error {
	shots, err := report.ReadShots(path)
	if err != nil {
		return err
	}
	if len(shots) == 0 {
		return fmt.Errorf("%s contains no shots", path)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc := service.New(service.WithModelFile(o.modelFile))
	if o.modelFile != "" {
		if err := svc.Start(ctx); err != nil {
			return err
		}
		defer svc.Stop()
	}

	review := evaluateAll(ctx, svc, reviewID(path), shots)

	out := o.out
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "-review.xlsx"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := report.WriteReview(f, review); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
	return printJSON(cmd.OutOrStdout(), review.Summary)
}

// evaluateAll runs every shot through the service in order. Failed shots are
// recorded on the result instead of aborting the review.
func evaluateAll(ctx context.Context, svc *service.Service, id string, shots []model.ShotRequest) model.Review {
	now := time.Now().UTC()
	results := make([]model.ReviewResult, len(shots))
	for i, shot := range shots {
		results[i] = model.ReviewResult{Index: i}
		advice, err := svc.Evaluate(ctx, shot)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].Advice = &advice
	}
	return model.Review{
		ID:        id,
		Status:    model.ReviewComplete,
		Total:     len(shots),
		CreatedAt: now,
		UpdatedAt: time.Now().UTC(),
		Shots:     shots,
		Results:   results,
		Summary:   model.Summarize(results),
	}
}

func reviewID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
