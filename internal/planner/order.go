package planner

import "github.com/localwander/go-walk-itineraries/internal/types"

const (
	walkWeight   = 0.7
	ratingWeight = 0.3

	// Walks at or beyond this many minutes score zero efficiency.
	walkEfficiencyCeiling = 20.0

	ratingBaseline = 3.0
)

// OrderRoute sequences an unordered place set with a greedy nearest-next
// heuristic that balances walking efficiency against place quality. Inputs
// of two or fewer places come back unchanged. The caller decides the
// starting element (rating-sorted or shuffled); from there each step picks
// the remaining candidate maximizing
//
//	0.7*walkEfficiency + 0.3*ratingScore
//
// where a 20-minute walk scores zero efficiency and ratings are centered on
// a 3.0 baseline. Ties keep first-encountered order. Intentionally O(n^2);
// itineraries cap out around seven stops.
func OrderRoute(places []types.Place) []types.Place {
	if len(places) <= 2 {
		return places
	}

	ordered := make([]types.Place, 0, len(places))
	ordered = append(ordered, places[0])
	remaining := make([]types.Place, len(places)-1)
	copy(remaining, places[1:])

	for len(remaining) > 0 {
		current := ordered[len(ordered)-1]
		bestIdx := 0
		bestScore := candidateScore(current, remaining[0])
		for i := 1; i < len(remaining); i++ {
			if score := candidateScore(current, remaining[i]); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		ordered = append(ordered, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return ordered
}

func candidateScore(from, to types.Place) float64 {
	walkEfficiency := 0.0
	if meters, ok := Distance(from, to); ok {
		minutes := float64(WalkingMinutes(meters))
		if minutes < walkEfficiencyCeiling {
			walkEfficiency = (walkEfficiencyCeiling - minutes) / walkEfficiencyCeiling
		}
	}
	ratingScore := (to.RatingOrDefault(ratingBaseline) - ratingBaseline) / 2.0
	return walkWeight*walkEfficiency + ratingWeight*ratingScore
}
