package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

func TestDescribePlace(t *testing.T) {
	rating := 4.6
	price := 2

	t.Run("editorial summary wins over review", func(t *testing.T) {
		place := types.Place{
			EditorialSummary: "A neighborhood institution",
			LatestReview:     "Great coffee",
		}
		description := describePlace(place)
		assert.Contains(t, description, "A neighborhood institution")
		assert.NotContains(t, description, "Visitor says")
	})

	t.Run("review snippet used when no summary", func(t *testing.T) {
		place := types.Place{LatestReview: "Great coffee"}
		assert.Contains(t, describePlace(place), "Visitor says: Great coffee")
	})

	t.Run("rating and price annotations", func(t *testing.T) {
		place := types.Place{
			EditorialSummary: "Worth a stop",
			Rating:           &rating,
			UserRatingsTotal: 321,
			PriceLevel:       &price,
		}
		description := describePlace(place)
		assert.Contains(t, description, "Rated 4.6/5 (321 reviews)")
		assert.Contains(t, description, "Price level: $$")
	})

	t.Run("bare place gets a category fallback", func(t *testing.T) {
		place := types.Place{Types: []string{"cafe"}}
		assert.Equal(t, "A local cafe worth exploring.", describePlace(place))
	})
}

func TestStopFromPlace(t *testing.T) {
	g := testGenerator(t)

	t.Run("fields carried over", func(t *testing.T) {
		place := types.Place{
			Name:     "Slow Roast",
			Types:    []string{"cafe"},
			PhotoURL: "https://example.com/photo.jpg",
		}
		stop := g.StopFromPlace(place, 8)
		assert.True(t, strings.HasPrefix(stop.ID, "stop-"))
		assert.Equal(t, "Slow Roast", stop.Name)
		assert.Equal(t, "Cafe", stop.Category)
		assert.Equal(t, 8, stop.WalkingTimeMinutes)
		assert.Equal(t, "https://example.com/photo.jpg", stop.ImageURL)
	})

	t.Run("missing photo rotates through stock images", func(t *testing.T) {
		first := g.StopFromPlace(types.Place{Name: "A"}, 0)
		second := g.StopFromPlace(types.Place{Name: "B"}, 0)
		assert.Contains(t, first.ImageURL, "unsplash")
		assert.Contains(t, second.ImageURL, "unsplash")
		assert.NotEqual(t, first.ImageURL, second.ImageURL)
	})

	t.Run("nameless place labeled as a local spot", func(t *testing.T) {
		stop := g.StopFromPlace(types.Place{}, 0)
		assert.Equal(t, "Local Spot", stop.Name)
	})
}
