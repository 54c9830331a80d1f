package shotdata_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/okian/shotcall/internal/adapters/shotdata"
	"github.com/okian/shotcall/internal/domain/types"
)

const header = "GAME_ID,LOC_X,LOC_Y,SHOT_MADE,SHOT_TYPE,BASIC_ZONE\n"

func writeCSV(t *testing.T, dir, name string, rows ...string) {
	t.Helper()
	body := header + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestCoordinateConversion(t *testing.T) {
	x, y := shotdata.ToFeet(0, shotdata.YOffset)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, y = shotdata.ToFeet(1, shotdata.YOffset+1)
	assert.InDelta(t, 9.853054474858238, x, 1e-12)
	assert.InDelta(t, 9.853054474858238, y, 1e-12)

	assert.True(t, shotdata.OnCourt(-25, 0))
	assert.True(t, shotdata.OnCourt(25, 50))
	assert.False(t, shotdata.OnCourt(25.01, 10))
	assert.False(t, shotdata.OnCourt(0, -0.1))
}

func TestCacheLoadsAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "NBA_2024_Shots.csv",
		"1,0,5.8,True,2PT Field Goal,Restricted Area",
		"1,1,6.8,False,2PT Field Goal,Mid-Range",
		"1,3,5.8,True,3PT Field Goal,Left Corner 3", // x ~ 29.6 ft, off court
		"1,,6.0,True,2PT Field Goal,Mid-Range",      // missing LOC_X
		"1,-2.3,6.0,TRUE,3PT Field Goal,Left Corner 3",
	)
	writeCSV(t, dir, "notes.csv", "1,0,5.8,True,2PT Field Goal,Restricted Area") // ignored: NBA_*.csv present

	c := shotdata.NewCache(dir)
	ctx := context.Background()
	assert.False(t, c.Loaded())

	meta, err := c.Metadata(ctx)
	require.NoError(t, err)
	assert.True(t, c.Loaded())
	assert.Equal(t, 3, meta.Count)
	assert.Equal(t, dir, meta.DataDir)
	assert.Equal(t, []string{"2PT Field Goal", "3PT Field Goal"}, meta.ShotTypes)
	assert.Equal(t, []string{"Left Corner 3", "Mid-Range", "Restricted Area"}, meta.Zones)
	assert.InDelta(t, -2.3*shotdata.CoordScale, meta.XMin, 1e-9)
	assert.InDelta(t, 0.0, meta.YMin, 1e-9)

	all, err := c.Sample(ctx, shotdata.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	made, err := c.Sample(ctx, shotdata.Filter{Made: shotdata.MadeOnly})
	require.NoError(t, err)
	assert.Len(t, made, 2)
	for _, p := range made {
		assert.True(t, p.Made)
	}

	missed, err := c.Sample(ctx, shotdata.Filter{Made: shotdata.MissedOnly, ShotType: shotdata.All})
	require.NoError(t, err)
	require.Len(t, missed, 1)
	assert.InDelta(t, shotdata.CoordScale, missed[0].X, 1e-9)

	corner, err := c.Sample(ctx, shotdata.Filter{Zone: "Left Corner 3"})
	require.NoError(t, err)
	assert.Len(t, corner, 1)

	rates, err := c.ZoneRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rates[types.ZoneRestrictedArea])
	assert.Equal(t, 0.0, rates[types.ZoneMidRange])
}

func TestCacheSampleIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	rows := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, fmt.Sprintf("1,%.2f,%.2f,%t,2PT Field Goal,Mid-Range", float64(i%20)/10-1, 6+float64(i)/20, i%3 == 0))
	}
	writeCSV(t, dir, "NBA_2023_Shots.csv", rows...)

	c := shotdata.NewCache(dir, shotdata.WithSampleLimit(10))
	first, err := c.Sample(context.Background(), shotdata.Filter{})
	require.NoError(t, err)
	second, err := c.Sample(context.Background(), shotdata.Filter{})
	require.NoError(t, err)

	assert.Len(t, first, 10)
	assert.Equal(t, first, second)

	limited, err := c.Sample(context.Background(), shotdata.Filter{Limit: 25})
	require.NoError(t, err)
	assert.Len(t, limited, 25)
}

func TestCacheReadsWorkbooks(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"LOC_X", "LOC_Y", "SHOT_MADE", "BASIC_ZONE"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{0.5, 7, "True", "Mid-Range"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{0, 5.8, "False", "Restricted Area"}))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "shots.xlsx")))
	require.NoError(t, f.Close())

	c := shotdata.NewCache(dir)
	meta, err := c.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Count)
	assert.Empty(t, meta.ShotTypes)
}

func TestCacheFailuresAreNotCached(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "later")
	c := shotdata.NewCache(dir)

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shotdata.ErrDataDirNotFound))

	require.NoError(t, os.MkdirAll(dir, 0o755))
	err = c.Load(context.Background())
	assert.True(t, errors.Is(err, shotdata.ErrNoData))

	writeCSV(t, dir, "season.csv", "1,0,5.8,1,2PT Field Goal,Restricted Area")
	require.NoError(t, c.Load(context.Background()))
	assert.True(t, c.Loaded())
}

func TestCacheMissingColumnsSkipsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NBA_bad.csv"), []byte("X,Y\n1,2\n"), 0o600))

	err := shotdata.NewCache(dir).Load(context.Background())
	assert.True(t, errors.Is(err, shotdata.ErrNoData))

	_, err = shotdata.ReadFile(context.Background(), filepath.Join(dir, "NBA_bad.csv"))
	assert.True(t, errors.Is(err, shotdata.ErrMissingColumns))
}

func TestCacheConcurrentFirstLoad(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "NBA_2022_Shots.csv", "1,0,5.8,True,2PT Field Goal,Restricted Area")
	c := shotdata.NewCache(dir)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Sample(context.Background(), shotdata.Filter{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
