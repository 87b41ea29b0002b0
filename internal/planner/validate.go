package planner

import "github.com/localwander/go-walk-itineraries/internal/types"

const (
	maxTotalWalkMinutes  = 45
	maxSingleWalkMinutes = 25
	minValidatedStops    = 3
)

// ValidRoute checks an ordered place list against the walking-time budget:
// consecutive walking sums to at most 45 minutes, no single leg exceeds
// 25 minutes, and the route has at least 3 places. Legs with unknown
// distance do not count toward the totals; pools are filtered to
// coordinate-bearing places before routes reach this point.
func ValidRoute(places []types.Place) bool {
	if len(places) < minValidatedStops {
		return false
	}
	total := 0
	for i := 1; i < len(places); i++ {
		meters, ok := Distance(places[i-1], places[i])
		if !ok {
			continue
		}
		minutes := WalkingMinutes(meters)
		if minutes > maxSingleWalkMinutes {
			return false
		}
		total += minutes
	}
	return total <= maxTotalWalkMinutes
}

// EstimateDuration sums per-stop visit time and inter-stop walking time in
// minutes. Visit time is a random draw within a category-dependent range,
// so two estimates over the same input differ; that variety is intentional
// and the randomness source is injectable for tests.
func (g *Generator) EstimateDuration(places []types.Place) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.estimateDuration(places)
}

func (g *Generator) estimateDuration(places []types.Place) int {
	total := 0
	for i, place := range places {
		total += g.visitMinutes(Categorize(place))
		if i < len(places)-1 {
			total += g.walkingMinutesBetween(place, places[i+1])
		}
	}
	return total
}

// visitMinutes draws a dwell-time estimate for one stop. Callers hold g.mu.
func (g *Generator) visitMinutes(category Category) int {
	switch category {
	case CategoryRestaurant, CategoryCafe:
		return g.randBetween(30, 45)
	case CategoryMuseum, CategoryGallery:
		return g.randBetween(25, 40)
	case CategoryPark:
		return g.randBetween(20, 35)
	default:
		return g.randBetween(15, 30)
	}
}
