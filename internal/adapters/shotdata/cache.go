// Package shotdata loads historical shot chart files and serves read-only
// samples and aggregates from memory.
package shotdata

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/shotcall/internal/domain/types"
	"github.com/okian/shotcall/pkg/logger"
	"github.com/okian/shotcall/pkg/metrics"
)

const (
	defaultSampleLimit = 15000
	sampleSeed         = 42
	loadKey            = "load"
)

// Filter values.
const (
	All        = "all"
	MadeOnly   = "made"
	MissedOnly = "missed"
)

// Filter selects shots for Sample. Empty or "all" fields match everything.
type Filter struct {
	Limit    int
	Made     string
	ShotType string
	Zone     string
}

// Point is a sampled shot location in feet.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Made bool    `json:"made"`
}

// Metadata describes the loaded dataset.
type Metadata struct {
	Count     int      `json:"count"`
	XMin      float64  `json:"x_min"`
	XMax      float64  `json:"x_max"`
	YMin      float64  `json:"y_min"`
	YMax      float64  `json:"y_max"`
	DataDir   string   `json:"data_dir"`
	ShotTypes []string `json:"shot_types"`
	Zones     []string `json:"zones"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithSampleLimit sets the default sample size.
func WithSampleLimit(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.sampleLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

type dataset struct {
	records []Record
	meta    Metadata
}

// Cache loads the shot chart directory once and keeps it in memory. Concurrent
// first callers share a single load; failed loads are retried on next access.
type Cache struct {
	dir         string
	sampleLimit int
	log         logger.Logger

	group singleflight.Group
	mu    sync.RWMutex
	data  *dataset
}

// NewCache creates a cache over dir. Nothing is read until first use.
func NewCache(dir string, opts ...Option) *Cache {
	c := &Cache{
		dir:         dir,
		sampleLimit: defaultSampleLimit,
		log:         logger.Get().Named("shotdata"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the configured data directory.
func (c *Cache) Dir() string { return c.dir }

// Loaded reports whether the dataset is in memory.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data != nil
}

// Load populates the cache if needed.
func (c *Cache) Load(ctx context.Context) error {
	_, err := c.get(ctx)
	return err
}

func (c *Cache) get(ctx context.Context) (*dataset, error) {
	c.mu.RLock()
	d := c.data
	c.mu.RUnlock()
	if d != nil {
		return d, nil
	}

	ch := c.group.DoChan(loadKey, func() (interface{}, error) {
		c.mu.RLock()
		d := c.data
		c.mu.RUnlock()
		if d != nil {
			return d, nil
		}

		d, err := c.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.data = d
		c.mu.Unlock()
		return d, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dataset), nil
	}
}

func (c *Cache) load(ctx context.Context) (*dataset, error) {
	start := time.Now()
	files, err := dataFiles(c.dir)
	if err != nil {
		return nil, err
	}
	c.log.Info(ctx, "loading shot data", logger.String("dir", c.dir), logger.Int("files", len(files)))

	var records []Record
	for _, f := range files {
		recs, err := ReadFile(ctx, f)
		if err != nil {
			c.log.Warn(ctx, "skipping shot data file", logger.String("file", f), logger.Error(err))
			continue
		}
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: nothing usable in %s", ErrNoData, c.dir)
	}

	d := &dataset{records: records, meta: summarize(records, c.dir)}
	elapsed := time.Since(start)
	metrics.UpdateShotData(len(records), elapsed.Seconds())
	c.log.Info(ctx, "shot data loaded", logger.Int("rows", len(records)), logger.Duration("elapsed", elapsed))
	return d, nil
}

func summarize(records []Record, dir string) Metadata {
	m := Metadata{
		Count:   len(records),
		XMin:    math.Inf(1),
		XMax:    math.Inf(-1),
		YMin:    math.Inf(1),
		YMax:    math.Inf(-1),
		DataDir: dir,
	}
	shotTypes := map[string]struct{}{}
	zones := map[string]struct{}{}
	for _, r := range records {
		m.XMin = math.Min(m.XMin, r.X)
		m.XMax = math.Max(m.XMax, r.X)
		m.YMin = math.Min(m.YMin, r.Y)
		m.YMax = math.Max(m.YMax, r.Y)
		if r.ShotType != "" {
			shotTypes[r.ShotType] = struct{}{}
		}
		if r.Zone != "" {
			zones[r.Zone] = struct{}{}
		}
	}
	m.ShotTypes = sortedKeys(shotTypes)
	m.Zones = sortedKeys(zones)
	return m
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Metadata returns a description of the loaded dataset.
func (c *Cache) Metadata(ctx context.Context) (Metadata, error) {
	d, err := c.get(ctx)
	if err != nil {
		return Metadata{}, err
	}
	m := d.meta
	m.ShotTypes = append([]string(nil), m.ShotTypes...)
	m.Zones = append([]string(nil), m.Zones...)
	return m, nil
}

// Sample returns up to f.Limit matching shots. When more shots match than the
// limit, a fixed-seed sample is drawn so repeated calls return the same points.
func (c *Cache) Sample(ctx context.Context, f Filter) ([]Point, error) {
	d, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit <= 0 {
		limit = c.sampleLimit
	}

	matches := make([]int, 0, len(d.records))
	for i, r := range d.records {
		if matchesFilter(r, f) {
			matches = append(matches, i)
		}
	}

	if len(matches) > limit {
		rng := rand.New(rand.NewPCG(sampleSeed, 0)) //nolint:gosec // deterministic sampling
		for i := 0; i < limit; i++ {
			j := i + rng.IntN(len(matches)-i)
			matches[i], matches[j] = matches[j], matches[i]
		}
		matches = matches[:limit]
		sort.Ints(matches)
	}

	out := make([]Point, len(matches))
	for i, idx := range matches {
		r := d.records[idx]
		out[i] = Point{X: r.X, Y: r.Y, Made: r.Made}
	}
	return out, nil
}

func matchesFilter(r Record, f Filter) bool {
	switch f.Made {
	case MadeOnly:
		if !r.Made {
			return false
		}
	case MissedOnly:
		if r.Made {
			return false
		}
	}
	if f.ShotType != "" && f.ShotType != All && r.ShotType != f.ShotType {
		return false
	}
	if f.Zone != "" && f.Zone != All && r.Zone != f.Zone {
		return false
	}
	return true
}

// ZoneRates returns the empirical make rate for each recognised zone.
func (c *Cache) ZoneRates(ctx context.Context) (map[types.Zone]float64, error) {
	d, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	made := map[types.Zone]int{}
	total := map[types.Zone]int{}
	for _, r := range d.records {
		z, ok := types.ParseZone(r.Zone)
		if !ok {
			continue
		}
		total[z]++
		if r.Made {
			made[z]++
		}
	}
	rates := make(map[types.Zone]float64, len(total))
	for z, n := range total {
		rates[z] = float64(made[z]) / float64(n)
	}
	return rates, nil
}
