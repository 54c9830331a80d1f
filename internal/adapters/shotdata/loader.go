package shotdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Shot chart coordinates are in tenths of feet offset from the rim; these
// constants convert them to feet from the baseline center.
const (
	CoordScale = 9.853054474858238
	YOffset    = 5.8

	XMinFt = -25.0
	XMaxFt = 25.0
	YMinFt = 0.0
	YMaxFt = 50.0
)

const (
	colLocX     = "LOC_X"
	colLocY     = "LOC_Y"
	colMade     = "SHOT_MADE"
	colShotType = "SHOT_TYPE"
	colZone     = "BASIC_ZONE"
)

// Record is one shot chart row converted to feet.
type Record struct {
	X        float64
	Y        float64
	Made     bool
	ShotType string
	Zone     string
}

// ToFeet converts raw chart coordinates to court feet.
func ToFeet(locX, locY float64) (float64, float64) {
	return CoordScale * locX, CoordScale * (locY - YOffset)
}

// OnCourt reports whether a converted point lies inside the half-court window.
func OnCourt(x, y float64) bool {
	return x >= XMinFt && x <= XMaxFt && y >= YMinFt && y <= YMaxFt
}

// dataFiles lists NBA_*.csv files in dir, falling back to any *.csv, plus
// every *.xlsx workbook.
func dataFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataDirNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDataDirNotFound, dir)
	}

	csvFiles, err := filepath.Glob(filepath.Join(dir, "NBA_*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob csv: %w", err)
	}
	if len(csvFiles) == 0 {
		if csvFiles, err = filepath.Glob(filepath.Join(dir, "*.csv")); err != nil {
			return nil, fmt.Errorf("glob csv: %w", err)
		}
	}
	xlsxFiles, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return nil, fmt.Errorf("glob xlsx: %w", err)
	}

	files := append(csvFiles, xlsxFiles...)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no csv or xlsx files in %s", ErrNoData, dir)
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile reads one CSV or XLSX shot chart file.
func ReadFile(ctx context.Context, path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(ctx, path)
	case ".xlsx":
		return readXLSX(ctx, path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %s", ErrBadFile, path)
	}
}

func readCSV(ctx context.Context, path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %v", ErrBadFile, path, err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var out []Record
	for i := 0; ; i++ {
		if i%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadFile, path, err)
		}
		if rec, ok := cols.record(row); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func readXLSX(ctx context.Context, path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrBadFile, path)
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return nil, fmt.Errorf("%w: %s is empty", ErrBadFile, path)
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %v", ErrBadFile, path, err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var out []Record
	for i := 0; rows.Next(); i++ {
		if i%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		row, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadFile, path, err)
		}
		if rec, ok := cols.record(row); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

type columns struct {
	locX, locY, made, shotType, zone int
}

func indexColumns(header []string) (columns, error) {
	c := columns{locX: -1, locY: -1, made: -1, shotType: -1, zone: -1}
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case colLocX:
			c.locX = i
		case colLocY:
			c.locY = i
		case colMade:
			c.made = i
		case colShotType:
			c.shotType = i
		case colZone:
			c.zone = i
		}
	}
	if c.locX < 0 || c.locY < 0 || c.made < 0 {
		return c, fmt.Errorf("%w: need %s, %s and %s", ErrMissingColumns, colLocX, colLocY, colMade)
	}
	return c, nil
}

// record converts a raw row. Rows with missing or unparsable required fields,
// or that fall outside the court window, are dropped.
func (c columns) record(row []string) (Record, bool) {
	locX, ok := parseFloat(cell(row, c.locX))
	if !ok {
		return Record{}, false
	}
	locY, ok := parseFloat(cell(row, c.locY))
	if !ok {
		return Record{}, false
	}
	made, ok := parseBool(cell(row, c.made))
	if !ok {
		return Record{}, false
	}

	x, y := ToFeet(locX, locY)
	if !OnCourt(x, y) {
		return Record{}, false
	}
	return Record{
		X:        x,
		Y:        y,
		Made:     made,
		ShotType: strings.TrimSpace(cell(row, c.shotType)),
		Zone:     strings.TrimSpace(cell(row, c.zone)),
	}, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "1.0", "yes", "made":
		return true, true
	case "false", "0", "0.0", "no", "missed":
		return false, true
	}
	return false, false
}
