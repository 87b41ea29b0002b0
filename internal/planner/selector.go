package planner

import (
	"log/slog"
	"sort"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

const (
	itinerariesPerRequest = 5

	selectionAttempts      = 5
	selectionAttemptsSmall = 3
	smallPoolThreshold     = 30

	maxPerBroadType = 2
)

var priceTiers = []string{"10-20", "20-50", "50+"}

// PriceRange maps a provider price level onto the user-facing tier labels.
// Level 0 or missing means "Varies", which passes every filter.
func PriceRange(place types.Place) string {
	if place.PriceLevel == nil || *place.PriceLevel == 0 {
		return "Varies"
	}
	switch *place.PriceLevel {
	case 1:
		return "10-20"
	case 2:
		return "20-50"
	default:
		return "50+"
	}
}

// matchesPriceFilter compares tiers by their position in the ordered tier
// list. Unknown filter values pass everything.
func matchesPriceFilter(place types.Place, maxPriceLevel string) bool {
	if maxPriceLevel == "" {
		return true
	}
	tier := PriceRange(place)
	if tier == "Varies" {
		return true
	}
	maxIdx, tierIdx := -1, -1
	for i, t := range priceTiers {
		if t == maxPriceLevel {
			maxIdx = i
		}
		if t == tier {
			tierIdx = i
		}
	}
	if maxIdx < 0 || tierIdx < 0 {
		return true
	}
	return tierIdx <= maxIdx
}

// GenerateItineraries runs the full selection pipeline up to five times with
// fresh random seeds and returns whatever it produced. Repeats are possible
// and acceptable; deduplication is not enforced.
func (g *Generator) GenerateItineraries(byCategory map[string][]types.Place, location string, maxPriceLevel string, maxDistanceMiles float64) []types.Itinerary {
	g.mu.Lock()
	defer g.mu.Unlock()

	itineraries := make([]types.Itinerary, 0, itinerariesPerRequest)
	for i := 0; i < itinerariesPerRequest; i++ {
		if itinerary, ok := g.mixedItinerary(byCategory, location, i, maxPriceLevel, maxDistanceMiles); ok {
			itineraries = append(itineraries, itinerary)
		}
	}
	return itineraries
}

// mixedItinerary selects a bounded, category-diverse subset of the pool and
// routes it. Returns false when the filtered pool cannot support even the
// fallback ladder. Callers hold g.mu.
func (g *Generator) mixedItinerary(byCategory map[string][]types.Place, location string, index int, maxPriceLevel string, maxDistanceMiles float64) (types.Itinerary, bool) {
	pool := filterPool(byCategory, maxPriceLevel, maxDistanceMiles)

	minRequired := minViablePool(len(pool), maxDistanceMiles)
	if len(pool) < minRequired {
		g.logger.Debug("pool below adaptive minimum",
			slog.String("location", location),
			slog.Int("pool", len(pool)),
			slog.Int("min_required", minRequired))
		return types.Itinerary{}, false
	}

	density := AreaDensity(len(pool), maxDistanceMiles)
	g.shuffle(pool)

	// Sparse pools skip full selection and produce a short, focused visit.
	if len(pool) <= 10 && minRequired <= 2 && density != DensityDense {
		selected := pool
		if len(selected) > 2 {
			selected = selected[:2]
		}
		return g.formatItinerary(selected, location, index, true), true
	}

	attempts := selectionAttempts
	if len(pool) < smallPoolThreshold {
		attempts = selectionAttemptsSmall
	}
	targetStops := targetStopCount(density)
	ceiling := MaxItineraryMinutes(density)

	for attempt := 0; attempt < attempts; attempt++ {
		shuffled := make([]types.Place, len(pool))
		copy(shuffled, pool)
		g.shuffle(shuffled)

		selected := pickDiverse(shuffled, targetStops)
		if len(selected) < minRequired {
			continue
		}

		sort.SliceStable(selected, func(i, j int) bool {
			return *selected[i].DistanceMeters < *selected[j].DistanceMeters
		})
		selected = OrderRoute(selected)

		if !ValidRoute(selected) {
			continue
		}

		duration := g.estimateDuration(selected)
		for duration > ceiling && len(selected) > 2 {
			selected = dropWorstStop(selected)
			duration = g.estimateDuration(selected)
		}
		if duration > ceiling {
			continue
		}
		return g.formatItinerary(selected, location, index, false), true
	}

	// Diversity could not be satisfied: fall back to the three highest-rated
	// places regardless of broad type.
	if len(pool) < 3 {
		return types.Itinerary{}, false
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].RatingOrDefault(0) > pool[j].RatingOrDefault(0)
	})
	fallback := make([]types.Place, 3)
	copy(fallback, pool[:3])
	sort.SliceStable(fallback, func(i, j int) bool {
		return *fallback[i].DistanceMeters < *fallback[j].DistanceMeters
	})
	g.logger.Debug("selection fell back to top-rated places", slog.String("location", location))
	return g.formatItinerary(fallback, location, index, false), true
}

// filterPool flattens the categorized pool, keeping only places with known
// coordinates and origin distance inside the radius that also pass the
// price filter. Places without coordinates cannot take part in any
// distance-sensitive step.
func filterPool(byCategory map[string][]types.Place, maxPriceLevel string, maxDistanceMiles float64) []types.Place {
	maxMeters := MilesToMeters(maxDistanceMiles)
	var pool []types.Place
	for _, places := range byCategory {
		for _, place := range places {
			if !place.HasCoordinates() || place.DistanceMeters == nil {
				continue
			}
			if *place.DistanceMeters > maxMeters {
				continue
			}
			if !matchesPriceFilter(place, maxPriceLevel) {
				continue
			}
			pool = append(pool, place)
		}
	}
	return pool
}

// minViablePool adapts the minimum usable pool size to the search radius
// and data sparsity.
func minViablePool(poolSize int, maxDistanceMiles float64) int {
	switch {
	case maxDistanceMiles >= 3.0:
		return 1
	case poolSize < 6:
		return 1
	case poolSize < 10:
		return 2
	default:
		return 3
	}
}

func targetStopCount(density Density) int {
	switch density {
	case DensityDense:
		return 5
	case DensityModerate:
		return 6
	default:
		return 4
	}
}

// pickDiverse takes at most one place per broad type in priority order,
// then fills remaining slots up to target while capping each broad type at
// two places.
func pickDiverse(shuffled []types.Place, target int) []types.Place {
	if target > len(shuffled) {
		target = len(shuffled)
	}
	counts := map[BroadType]int{}
	used := make([]bool, len(shuffled))
	var selected []types.Place

	for _, broad := range broadTypeOrder {
		for i, place := range shuffled {
			if used[i] || counts[broad] > 0 {
				continue
			}
			if BroadTypeOfPlace(place) == broad {
				selected = append(selected, place)
				counts[broad]++
				used[i] = true
				break
			}
		}
	}

	for i, place := range shuffled {
		if len(selected) >= target {
			break
		}
		if used[i] {
			continue
		}
		broad := BroadTypeOfPlace(place)
		if counts[broad] < maxPerBroadType {
			selected = append(selected, place)
			counts[broad]++
			used[i] = true
		}
	}
	return selected
}

// dropWorstStop removes the stop with the lowest rating-minus-walking
// score. The inbound leg is the walking cost attributed to each stop; the
// first stop carries none.
func dropWorstStop(places []types.Place) []types.Place {
	worstIdx := 0
	worstScore := 0.0
	for i, place := range places {
		penalty := 0.0
		if i > 0 {
			if meters, ok := Distance(places[i-1], place); ok {
				penalty = float64(WalkingMinutes(meters)) / walkEfficiencyCeiling
			}
		}
		score := place.RatingOrDefault(ratingBaseline) - penalty
		if i == 0 || score < worstScore {
			worstScore = score
			worstIdx = i
		}
	}
	return append(places[:worstIdx], places[worstIdx+1:]...)
}
