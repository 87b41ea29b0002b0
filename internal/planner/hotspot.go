package planner

import (
	"log/slog"
	"math"
	"sort"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

const (
	customItinerariesMax = 3

	// Grid cells are roughly one to two city blocks.
	gridCellMiles   = 0.08
	degreesPerMile  = 1.0 / 69.0
	gridCellAreaSq  = gridCellMiles * gridCellMiles
	clusterRadiusMi = 0.15

	minClusterSize      = 3
	minPreferenceRatio  = 0.5
	maxHotspotsExplored = 5

	// Consecutive cluster stops should be at least a short stroll apart.
	minLegMeters = 450.0
)

// hotspot is an ephemeral grid cell summarizing place density and
// user-preference ratio. It exists only during cluster discovery.
type hotspot struct {
	centerLat float64
	centerLng float64
	total     int
	preferred int
	score     float64
}

func (h hotspot) preferenceRatio() float64 {
	return float64(h.preferred) / float64(h.total)
}

type clusterCandidate struct {
	place     types.Place
	preferred bool
}

// GenerateFromPreferences builds up to three itineraries anchored on dense
// neighborhoods of the user's preferred place types. When clustering cannot
// produce at least two routes it backfills with a simpler mixed generator,
// and when it produces nothing at all it falls through to an unvalidated
// random pick so a non-empty pool always yields something.
func (g *Generator) GenerateFromPreferences(byCategory map[string][]types.Place, selectedCategories []string, location string, maxDistanceMiles float64) []types.Itinerary {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidates := preferenceCandidates(byCategory, selectedCategories, maxDistanceMiles)
	if len(candidates) < 4 {
		g.logger.Debug("too few candidates for preference clustering",
			slog.String("location", location),
			slog.Int("candidates", len(candidates)))
		return nil
	}

	hotspots := scanHotspots(candidates)
	itineraries := make([]types.Itinerary, 0, customItinerariesMax)

	for i, spot := range hotspots {
		if i >= maxHotspotsExplored || len(itineraries) >= customItinerariesMax {
			break
		}
		cluster := extractCluster(candidates, spot)
		if cluster == nil {
			continue
		}
		members := g.enforceClusterDiversity(cluster)
		if members == nil {
			continue
		}
		route := g.buildClusterRoute(members)
		itineraries = append(itineraries, g.formatItinerary(route, location, len(itineraries), false))
	}

	if len(itineraries) < 2 {
		for idx := len(itineraries); idx < customItinerariesMax; idx++ {
			mixed := g.mixedFallbackPlaces(candidates, idx)
			if len(mixed) == 0 {
				break
			}
			itineraries = append(itineraries, g.formatItinerary(mixed, location, idx, false))
		}
	}

	if len(itineraries) == 0 {
		itineraries = g.bulletproofItineraries(candidates, location)
	}

	if len(itineraries) > customItinerariesMax {
		itineraries = itineraries[:customItinerariesMax]
	}
	return itineraries
}

// preferenceCandidates flattens the pool within the radius and tags each
// place with whether its originating search category matches the user's
// selections.
func preferenceCandidates(byCategory map[string][]types.Place, selected []string, maxDistanceMiles float64) []clusterCandidate {
	maxMeters := MilesToMeters(maxDistanceMiles)
	var candidates []clusterCandidate
	for _, places := range byCategory {
		for _, place := range places {
			if !place.HasCoordinates() || place.DistanceMeters == nil {
				continue
			}
			if *place.DistanceMeters > maxMeters {
				continue
			}
			candidates = append(candidates, clusterCandidate{
				place:     place,
				preferred: MatchesPreference(place, selected),
			})
		}
	}
	return candidates
}

// scanHotspots overlays a uniform grid over the candidates' bounding box
// and keeps cells where user-preferred places reach at least half of the
// cell population, sorted by combined preference/density score.
func scanHotspots(candidates []clusterCandidate) []hotspot {
	cellDegrees := gridCellMiles * degreesPerMile

	minLat, minLng := math.Inf(1), math.Inf(1)
	for _, c := range candidates {
		minLat = math.Min(minLat, *c.place.Latitude)
		minLng = math.Min(minLng, *c.place.Longitude)
	}

	type cellKey struct{ row, col int }
	cells := map[cellKey]*hotspot{}
	for _, c := range candidates {
		key := cellKey{
			row: int((*c.place.Latitude - minLat) / cellDegrees),
			col: int((*c.place.Longitude - minLng) / cellDegrees),
		}
		cell, ok := cells[key]
		if !ok {
			cell = &hotspot{
				centerLat: minLat + (float64(key.row)+0.5)*cellDegrees,
				centerLng: minLng + (float64(key.col)+0.5)*cellDegrees,
			}
			cells[key] = cell
		}
		cell.total++
		if c.preferred {
			cell.preferred++
		}
	}

	var hotspots []hotspot
	for _, cell := range cells {
		if cell.total < 2 {
			continue
		}
		ratio := cell.preferenceRatio()
		if ratio < minPreferenceRatio {
			continue
		}
		densityScore := math.Min(float64(cell.total)/gridCellAreaSq/20.0, 1.0)
		cell.score = 0.7*ratio + 0.3*densityScore
		hotspots = append(hotspots, *cell)
	}
	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].score > hotspots[j].score
	})
	return hotspots
}

// extractCluster gathers every candidate within the walkable cluster radius
// of the hotspot center, gated by minimum size and preference ratio.
func extractCluster(candidates []clusterCandidate, spot hotspot) []clusterCandidate {
	radiusMeters := MilesToMeters(clusterRadiusMi)
	center := placeAt(spot.centerLat, spot.centerLng)

	var cluster []clusterCandidate
	preferred := 0
	for _, c := range candidates {
		meters, ok := Distance(c.place, center)
		if !ok || meters > radiusMeters {
			continue
		}
		cluster = append(cluster, c)
		if c.preferred {
			preferred++
		}
	}
	if len(cluster) < minClusterSize {
		return nil
	}
	if float64(preferred)/float64(len(cluster)) < minPreferenceRatio {
		return nil
	}
	return cluster
}

// enforceClusterDiversity forces representation across broad types: one
// pick per type first (preferring user-preference places, then rating),
// then a fill to a 4-6 place target capped at two per type. Clusters that
// collapse to a single broad type are discarded. Callers hold g.mu.
func (g *Generator) enforceClusterDiversity(cluster []clusterCandidate) []types.Place {
	ranked := make([]clusterCandidate, len(cluster))
	copy(ranked, cluster)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].preferred != ranked[j].preferred {
			return ranked[i].preferred
		}
		return ranked[i].place.RatingOrDefault(0) > ranked[j].place.RatingOrDefault(0)
	})

	target := g.randBetween(4, 6)
	if target > len(ranked) {
		target = len(ranked)
	}

	counts := map[BroadType]int{}
	used := make([]bool, len(ranked))
	var members []types.Place

	for _, broad := range broadTypeOrder {
		for i, c := range ranked {
			if used[i] || counts[broad] > 0 {
				continue
			}
			if BroadTypeOfPlace(c.place) == broad {
				members = append(members, c.place)
				counts[broad]++
				used[i] = true
				break
			}
		}
	}
	for i, c := range ranked {
		if len(members) >= target {
			break
		}
		if used[i] {
			continue
		}
		broad := BroadTypeOfPlace(c.place)
		if counts[broad] < maxPerBroadType {
			members = append(members, c.place)
			counts[broad]++
			used[i] = true
		}
	}

	distinct := 0
	for _, n := range counts {
		if n > 0 {
			distinct++
		}
	}
	if distinct <= 1 {
		return nil
	}
	return members
}

// buildClusterRoute orders cluster members greedy-nearest-neighbor from the
// highest-rated place, targeting a random stop count in [4, min(7, size)]
// and preferring legs of at least 450 meters; when no candidate satisfies
// the floor the closest remaining one is taken so the route never stalls.
// Callers hold g.mu.
func (g *Generator) buildClusterRoute(members []types.Place) []types.Place {
	if len(members) == 0 {
		return nil
	}

	remaining := make([]types.Place, len(members))
	copy(remaining, members)
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].RatingOrDefault(0) > remaining[j].RatingOrDefault(0)
	})

	target := len(remaining)
	if target > 4 {
		upper := target
		if upper > 7 {
			upper = 7
		}
		target = g.randBetween(4, upper)
	}

	route := []types.Place{remaining[0]}
	remaining = remaining[1:]

	for len(route) < target && len(remaining) > 0 {
		current := route[len(route)-1]
		pick := -1
		pickDist := math.Inf(1)

		// Closest candidate that still clears the minimum-leg floor.
		for i, place := range remaining {
			meters, ok := Distance(current, place)
			if !ok {
				continue
			}
			if meters >= minLegMeters && meters < pickDist {
				pick = i
				pickDist = meters
			}
		}
		// Relax the floor rather than abandoning the route.
		if pick < 0 {
			for i, place := range remaining {
				meters, ok := Distance(current, place)
				if !ok {
					continue
				}
				if meters < pickDist {
					pick = i
					pickDist = meters
				}
			}
		}
		if pick < 0 {
			pick = 0
		}
		route = append(route, remaining[pick])
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return route
}

// mixedFallbackPlaces is the simpler generator used when clustering comes
// up short: group by broad type and rotate the selection index across the
// requested itinerary count so successive itineraries differ.
// Callers hold g.mu.
func (g *Generator) mixedFallbackPlaces(candidates []clusterCandidate, index int) []types.Place {
	groups := map[BroadType][]types.Place{}
	for _, c := range candidates {
		broad := BroadTypeOfPlace(c.place)
		groups[broad] = append(groups[broad], c.place)
	}
	for _, places := range groups {
		sort.SliceStable(places, func(i, j int) bool {
			return places[i].RatingOrDefault(0) > places[j].RatingOrDefault(0)
		})
	}

	target := g.randBetween(4, 5)
	var selected []types.Place
	for offset := 0; len(selected) < target; offset++ {
		added := false
		for _, broad := range broadTypeOrder {
			group := groups[broad]
			if len(group) == 0 {
				continue
			}
			pick := (index + offset) % len(group)
			place := group[pick]
			if containsPlace(selected, place) {
				continue
			}
			selected = append(selected, place)
			added = true
			if len(selected) >= target {
				break
			}
		}
		if !added {
			break
		}
	}
	if len(selected) == 0 {
		return nil
	}
	sortByOriginDistance(selected)
	return selected
}

// bulletproofItineraries is the last rung of the fallback ladder: a pure
// random pick with zero validation, guaranteed to produce something as long
// as candidates exist. Callers hold g.mu.
func (g *Generator) bulletproofItineraries(candidates []clusterCandidate, location string) []types.Itinerary {
	if len(candidates) == 0 {
		return nil
	}
	pool := make([]types.Place, 0, len(candidates))
	for _, c := range candidates {
		pool = append(pool, c.place)
	}

	var itineraries []types.Itinerary
	for idx := 0; idx < customItinerariesMax; idx++ {
		g.shuffle(pool)
		take := g.randBetween(3, 5)
		if take > len(pool) {
			take = len(pool)
		}
		picked := make([]types.Place, take)
		copy(picked, pool[:take])
		sortByOriginDistance(picked)
		itineraries = append(itineraries, g.formatItinerary(picked, location, idx, false))
	}
	return itineraries
}

func sortByOriginDistance(places []types.Place) {
	sort.SliceStable(places, func(i, j int) bool {
		di, dj := math.Inf(1), math.Inf(1)
		if places[i].DistanceMeters != nil {
			di = *places[i].DistanceMeters
		}
		if places[j].DistanceMeters != nil {
			dj = *places[j].DistanceMeters
		}
		return di < dj
	})
}

func containsPlace(places []types.Place, place types.Place) bool {
	for _, p := range places {
		if p.PlaceID != "" && p.PlaceID == place.PlaceID {
			return true
		}
		if p.PlaceID == "" && p.Name == place.Name {
			return true
		}
	}
	return false
}

func placeAt(lat, lng float64) types.Place {
	return types.Place{Latitude: &lat, Longitude: &lng}
}
