package drill

import (
	"math"
	"math/rand/v2"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

type zoneRange struct {
	zone     types.Zone
	shotType types.ShotType
	minFt    float64
	maxFt    float64
}

var zoneRanges = []zoneRange{
	{types.ZoneRestrictedArea, types.TwoPoint, 0, 4},
	{types.ZonePaintNonRA, types.TwoPoint, 5, 14},
	{types.ZoneMidRange, types.TwoPoint, 10, 22},
	{types.ZoneLeftCorner3, types.ThreePoint, 22, 23.5},
	{types.ZoneRightCorner3, types.ThreePoint, 22, 23.5},
	{types.ZoneLeftSide3, types.ThreePoint, 23.75, 27},
	{types.ZoneRightSide3, types.ThreePoint, 23.75, 27},
	{types.ZoneAboveBreak3, types.ThreePoint, 23.75, 30},
}

var (
	positions = []string{"PG", "SG", "SF", "PF", "C"}
	contests  = []types.ContestLevel{
		types.ContestNone, types.ContestTight, types.ContestContested, types.ContestOpen, types.ContestWideOpen,
	}
	modes = []types.ExplanationMode{types.ModeFeedback, types.ModePlayer, types.ModeCoach}
)

// Generator produces plausible random shot requests. It is deterministic for
// a given seed and not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Shots returns n shot requests.
func (g *Generator) Shots(n int) []model.ShotRequest {
	out := make([]model.ShotRequest, n)
	for i := range out {
		out[i] = g.Shot()
	}
	return out
}

// Shot returns one shot request with coordinates consistent with its zone.
func (g *Generator) Shot() model.ShotRequest {
	zr := zoneRanges[g.rng.IntN(len(zoneRanges))]
	dist := round1(zr.minFt + g.rng.Float64()*(zr.maxFt-zr.minFt))

	var x, y float64
	switch zr.zone {
	case types.ZoneLeftCorner3:
		x, y = -22, round1(g.rng.Float64()*8)
	case types.ZoneRightCorner3:
		x, y = 22, round1(g.rng.Float64()*8)
	default:
		angle := g.rng.Float64() * math.Pi
		x, y = round1(dist*math.Cos(angle)), round1(dist*math.Sin(angle))
	}

	req := model.ShotRequest{
		ShotDistance:    dist,
		LocX:            x,
		LocY:            y,
		ShotType:        string(zr.shotType),
		Zone:            string(zr.zone),
		Quarter:         1 + g.rng.IntN(4),
		MinsLeft:        g.rng.IntN(12),
		SecsLeft:        g.rng.IntN(60),
		Position:        positions[g.rng.IntN(len(positions))],
		ContestLevel:    string(contests[g.rng.IntN(len(contests))]),
		ExplanationMode: string(modes[g.rng.IntN(len(modes))]),
	}
	// Some shots come without tracking data or without a supplied base.
	if g.rng.Float64() < 0.8 {
		d := round1(g.rng.Float64() * 20)
		req.DefenderDistance = &d
	}
	if g.rng.Float64() < 0.7 {
		p := math.Round((0.15+g.rng.Float64()*0.6)*1e4) / 1e4
		req.BaseProbability = &p
	}
	return req
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
