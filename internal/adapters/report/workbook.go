// Package report exports film reviews to Excel workbooks and reads batch shot
// files for offline review.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

// Sheet names of the review workbook.
const (
	ShotsSheet   = "Shots"
	SummarySheet = "Summary"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var shotColumns = []interface{}{
	"Shot", "Shot Type", "Zone", "Distance (ft)", "Quarter", "Time Left (s)",
	"Defender (ft)", "Contest", "Decision", "Make Probability", "Base Probability",
	"Threshold", "Margin", "Confidence", "Recommended Action", "Action Confidence",
	"Confidence Level", "Error",
}

// WriteReview renders review as an XLSX workbook with one row per shot on the
// Shots sheet and the aggregate figures on the Summary sheet.
func WriteReview(w io.Writer, review model.Review) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ShotsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeShots(f, review, bold); err != nil {
		return err
	}
	if err := writeSummary(f, review, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeShots(f *excelize.File, review model.Review, headerStyle int) error {
	if err := f.SetSheetRow(ShotsSheet, "A1", &shotColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(shotColumns), 1)
	if err := f.SetCellStyle(ShotsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	results := make(map[int]model.ReviewResult, len(review.Results))
	for _, r := range review.Results {
		results[r.Index] = r
	}

	for i, req := range review.Shots {
		row := []interface{}{
			i + 1, req.ShotType, req.Zone, req.ShotDistance, req.Quarter, req.TimeRemaining(),
			optional(req.DefenderDistance), req.ContestLevel,
		}
		if res, ok := results[i]; ok && res.Advice != nil {
			a := res.Advice
			row = append(row,
				string(a.Decision), a.MakeProbability, a.BaseProbability, a.Threshold,
				a.Margin(), a.Confidence, string(a.RecommendedAction), optional(a.ActionConfidence),
				string(a.ConfidenceLevel), "",
			)
		} else {
			errText := "pending"
			if ok {
				errText = res.Error
			}
			row = append(row, "", "", "", "", "", "", "", "", "", errText)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(ShotsSheet, cell, &row); err != nil {
			return fmt.Errorf("write shot %d: %w", i, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, review model.Review, labelStyle int) error {
	s := review.Summary
	rows := [][]interface{}{
		{"Review", review.ID},
		{"Status", string(review.Status)},
		{"Shots", review.Total},
		{"Completed", s.Completed},
		{"Failed", s.Failed},
		{"Take", s.Takes},
		{"Pass", s.Passes},
		{"Average Make Probability", s.AvgMakeProbability},
		{"Average Margin", s.AvgMargin},
		{"Best Shot", shotNumber(s.BestShot)},
		{"Worst Shot", shotNumber(s.WorstShot)},
	}

	actions := make([]string, 0, len(s.Actions))
	for a := range s.Actions {
		actions = append(actions, string(a))
	}
	sort.Strings(actions)
	for _, a := range actions {
		rows = append(rows, []interface{}{"Action: " + a, s.Actions[types.Action(a)]})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(1, len(rows))
	if err := f.SetCellStyle(SummarySheet, "A1", last, labelStyle); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 28)
}

func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func shotNumber(idx *int) interface{} {
	if idx == nil {
		return ""
	}
	return *idx + 1
}
