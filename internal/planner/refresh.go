package planner

import (
	"sort"
	"strings"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

// How many of the best-ranked candidates a refresh picks among. Always
// taking the single best place would make repeated refreshes deterministic.
const refreshPickPool = 5

// ReplacementSpot picks one replacement stop of the requested category from
// the resolved pool, skipping already-seen provider ids. The pick is random
// among the five best candidates by rating and distance.
func (g *Generator) ReplacementSpot(byCategory map[string][]types.Place, category string, excludedIDs []string) (types.Stop, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var matches []types.Place
	for _, places := range byCategory {
		for _, place := range places {
			if idExcluded(place.PlaceID, excludedIDs) {
				continue
			}
			if categoryMatches(place, category) {
				matches = append(matches, place)
			}
		}
	}
	return g.pickSpot(matches)
}

// SpotFromCategories picks one replacement stop whose classified category is
// in the allowed set, skipping already-seen provider ids.
func (g *Generator) SpotFromCategories(byCategory map[string][]types.Place, allowed []string, excludedIDs []string) (types.Stop, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, category := range allowed {
		allowedSet[strings.ToLower(category)] = struct{}{}
	}

	var matches []types.Place
	for _, places := range byCategory {
		for _, place := range places {
			if idExcluded(place.PlaceID, excludedIDs) {
				continue
			}
			if _, ok := allowedSet[strings.ToLower(string(Categorize(place)))]; ok {
				matches = append(matches, place)
			}
		}
	}
	return g.pickSpot(matches)
}

// pickSpot ranks by rating then origin distance and draws randomly among
// the top candidates. Callers hold g.mu.
func (g *Generator) pickSpot(matches []types.Place) (types.Stop, bool) {
	if len(matches) == 0 {
		return types.Stop{}, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := matches[i].RatingOrDefault(0), matches[j].RatingOrDefault(0)
		if ri != rj {
			return ri > rj
		}
		di, dj := originDistance(matches[i]), originDistance(matches[j])
		return di < dj
	})

	top := matches
	if len(top) > refreshPickPool {
		top = top[:refreshPickPool]
	}
	place := top[g.rng.IntN(len(top))]

	walking := g.randBetween(5, 15)
	if place.DistanceMeters != nil {
		walking = WalkingMinutes(*place.DistanceMeters)
	}
	return g.stopFromPlace(place, walking), true
}

// categoryMatches mirrors the loose matching refreshes use: a substring
// match either way, or equal broad types when the requested category is
// itself a known taxonomy tag.
func categoryMatches(place types.Place, category string) bool {
	want := strings.ToLower(strings.TrimSpace(category))
	got := strings.ToLower(string(Categorize(place)))
	if strings.Contains(got, want) || strings.Contains(want, got) {
		return true
	}
	tagged := types.Place{Types: []string{want}}
	return BroadTypeOfPlace(tagged) == BroadTypeOfPlace(place) && BroadTypeOfPlace(tagged) != BroadMisc
}

// PresentCategories lists the distinct classified categories in a pool.
func PresentCategories(byCategory map[string][]types.Place) []string {
	seen := map[string]struct{}{}
	var categories []string
	for _, places := range byCategory {
		for _, place := range places {
			category := string(Categorize(place))
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	return categories
}

func originDistance(place types.Place) float64 {
	if place.DistanceMeters == nil {
		return float64(1 << 40)
	}
	return *place.DistanceMeters
}

func idExcluded(id string, excluded []string) bool {
	if id == "" {
		return false
	}
	for _, e := range excluded {
		if e == id {
			return true
		}
	}
	return false
}
