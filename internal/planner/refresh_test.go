package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

func TestReplacementSpot(t *testing.T) {
	g := testGenerator(t)

	t.Run("picks a spot of the requested category", func(t *testing.T) {
		stop, ok := g.ReplacementSpot(downtownPool(), "Cafe", nil)
		require.True(t, ok)
		assert.NotEmpty(t, stop.Name)
		// Loose matching extends to the food broad type.
		assert.Contains(t, []string{"Cafe", "Bakery", "Restaurant"}, stop.Category)
	})

	t.Run("skips excluded provider ids", func(t *testing.T) {
		pool := map[string][]types.Place{
			"parks near me": {
				poolPlace("Only Park", 40.7128, -74.0060, 200, 4.5, "park"),
			},
		}
		_, ok := g.ReplacementSpot(pool, "Park", []string{"pl-Only Park"})
		assert.False(t, ok)
	})

	t.Run("no match for an unknown category", func(t *testing.T) {
		pool := map[string][]types.Place{
			"parks near me": {
				poolPlace("Only Park", 40.7128, -74.0060, 200, 4.5, "park"),
			},
		}
		_, ok := g.ReplacementSpot(pool, "Aquarium", nil)
		assert.False(t, ok)
	})

	t.Run("repeated refreshes vary within the top candidates", func(t *testing.T) {
		// Statistical property of the top-five draw: over many refreshes
		// more than one distinct spot shows up.
		seen := map[string]struct{}{}
		for i := 0; i < 40; i++ {
			stop, ok := g.ReplacementSpot(downtownPool(), "Restaurant", nil)
			require.True(t, ok)
			seen[stop.Name] = struct{}{}
		}
		assert.Greater(t, len(seen), 1)
	})
}

func TestSpotFromCategories(t *testing.T) {
	g := testGenerator(t)

	t.Run("respects the allowed set", func(t *testing.T) {
		stop, ok := g.SpotFromCategories(downtownPool(), []string{"Park"}, nil)
		require.True(t, ok)
		assert.Equal(t, "Park", stop.Category)
	})

	t.Run("case-insensitive matching", func(t *testing.T) {
		stop, ok := g.SpotFromCategories(downtownPool(), []string{"park"}, nil)
		require.True(t, ok)
		assert.Equal(t, "Park", stop.Category)
	})

	t.Run("empty allowed set finds nothing", func(t *testing.T) {
		_, ok := g.SpotFromCategories(downtownPool(), nil, nil)
		assert.False(t, ok)
	})
}

func TestPresentCategories(t *testing.T) {
	categories := PresentCategories(downtownPool())
	assert.Contains(t, categories, "Restaurant")
	assert.Contains(t, categories, "Cafe")
	assert.Contains(t, categories, "Park")
	assert.Contains(t, categories, "Museum")
	assert.IsIncreasing(t, categories)

	assert.Empty(t, PresentCategories(nil))
}

func TestCategoryMatches(t *testing.T) {
	cafe := types.Place{Types: []string{"cafe"}}
	park := types.Place{Types: []string{"park"}}

	assert.True(t, categoryMatches(cafe, "Cafe"))
	assert.True(t, categoryMatches(cafe, "cafe"))
	// Bakery and Cafe share the food broad type.
	assert.True(t, categoryMatches(cafe, "bakery"))
	assert.False(t, categoryMatches(park, "Cafe"))
}
