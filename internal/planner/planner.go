// Package planner implements the itinerary construction engine: place
// classification, diversity selection, hotspot clustering, route ordering,
// route validation, and itinerary formatting. The engine is synchronous and
// CPU-bound; it operates purely over place lists the caller already resolved.
package planner

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

// Generator builds itineraries from categorized place pools. All randomness
// (shuffles, visit-time draws, top-N picks) flows through the injected
// source, so tests can pin the sequence. A Generator is safe for concurrent
// use; one mutex serializes the random source and the stock-image rotation.
type Generator struct {
	logger *slog.Logger

	mu         sync.Mutex
	rng        *rand.Rand
	imageIndex int
}

// New returns a Generator using the given random source. A nil source is
// replaced with a time-seeded one.
func New(logger *slog.Logger, rng *rand.Rand) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17))
	}
	return &Generator{logger: logger, rng: rng}
}

// randBetween draws an integer in [lo, hi] inclusive. Callers hold g.mu.
func (g *Generator) randBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

// shuffle permutes places in place. Callers hold g.mu.
func (g *Generator) shuffle(places []types.Place) {
	g.rng.Shuffle(len(places), func(i, j int) {
		places[i], places[j] = places[j], places[i]
	})
}

// walkingMinutesBetween is the per-leg walking estimate used when building
// stops. Unknown distances draw a pseudo-random 5-15 minutes rather than
// pretending the places are adjacent.
func (g *Generator) walkingMinutesBetween(a, b types.Place) int {
	if meters, ok := Distance(a, b); ok {
		return WalkingMinutes(meters)
	}
	return g.randBetween(5, 15)
}
