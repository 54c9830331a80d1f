package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/shotcall/internal/domain/model"
)

var (
	// ErrUnsupportedFile is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFile = errors.New("unsupported shot file")
	// ErrBadRow is returned when a row cannot be parsed.
	ErrBadRow = errors.New("invalid shot row")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
)

// Required columns; the remaining ShotRequest fields are optional.
var requiredColumns = []string{"shot_type", "zone"}

// ReadShots reads a batch of shots from a CSV or XLSX file whose header row
// uses the request field names (shot_distance, loc_x, loc_y, shot_type, zone,
// quarter, mins_left, secs_left, position, action_type, defender_distance,
// contest_level, base_probability).
func ReadShots(path string) ([]model.ShotRequest, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	if err != nil {
		return nil, err
	}
	return ParseShotRows(rows)
}

// ParseShotRows converts a header row plus data rows into shot requests.
func ParseShotRows(rows [][]string) ([]model.ShotRequest, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	out := make([]model.ShotRequest, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		req, err := parseRow(idx, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		out = append(out, req)
	}
	return out, nil
}

func parseRow(idx map[string]int, row []string) (model.ShotRequest, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	req := model.ShotRequest{
		ShotType:        get("shot_type"),
		Zone:            get("zone"),
		Position:        get("position"),
		ActionType:      get("action_type"),
		ContestLevel:    get("contest_level"),
		ExplanationMode: get("explanation_mode"),
		Quarter:         1,
	}

	var err error
	floats := []struct {
		col string
		dst *float64
	}{
		{"shot_distance", &req.ShotDistance},
		{"loc_x", &req.LocX},
		{"loc_y", &req.LocY},
	}
	for _, f := range floats {
		if *f.dst, err = parseFloat(get(f.col)); err != nil {
			return req, fmt.Errorf("%w: %s: %v", ErrBadRow, f.col, err)
		}
	}

	ints := []struct {
		col string
		dst *int
	}{
		{"quarter", &req.Quarter},
		{"mins_left", &req.MinsLeft},
		{"secs_left", &req.SecsLeft},
	}
	for _, f := range ints {
		v := get(f.col)
		if v == "" {
			continue
		}
		fv, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("%w: %s: %v", ErrBadRow, f.col, err)
		}
		*f.dst = int(fv)
	}

	if req.DefenderDistance, err = parseOptional(get("defender_distance")); err != nil {
		return req, fmt.Errorf("%w: defender_distance: %v", ErrBadRow, err)
	}
	if req.BaseProbability, err = parseOptional(get("base_probability")); err != nil {
		return req, fmt.Errorf("%w: base_probability: %v", ErrBadRow, err)
	}
	return req, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptional(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrUnsupportedFile, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}
