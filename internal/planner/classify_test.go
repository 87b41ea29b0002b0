package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want Category
	}{
		{"restaurant tag", []string{"restaurant", "point_of_interest"}, CategoryRestaurant},
		{"first matching tag wins", []string{"cafe", "restaurant"}, CategoryCafe},
		{"unknown tags skipped", []string{"establishment", "museum"}, CategoryMuseum},
		{"zoo is an attraction", []string{"zoo"}, CategoryAttraction},
		{"church is a landmark", []string{"church"}, CategoryLandmark},
		{"no match falls back to local spot", []string{"point_of_interest", "establishment"}, CategoryLocalSpot},
		{"empty tag list falls back to local spot", nil, CategoryLocalSpot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(types.Place{Types: tt.tags}))
		})
	}
}

func TestBroadTypeOf(t *testing.T) {
	assert.Equal(t, BroadFood, BroadTypeOf(CategoryRestaurant))
	assert.Equal(t, BroadFood, BroadTypeOf(CategoryBakery))
	assert.Equal(t, BroadNature, BroadTypeOf(CategoryPark))
	assert.Equal(t, BroadCulture, BroadTypeOf(CategoryMuseum))
	assert.Equal(t, BroadCulture, BroadTypeOf(CategoryLibrary))
	assert.Equal(t, BroadShopping, BroadTypeOf(CategoryBookstore))
	assert.Equal(t, BroadMisc, BroadTypeOf(CategoryLocalSpot))
	assert.Equal(t, BroadMisc, BroadTypeOf(Category("Nonsense")))
}

func TestCategoryForQuery(t *testing.T) {
	assert.Equal(t, CategoryCafe, CategoryForQuery("cafes and bakeries near me"))
	assert.Equal(t, CategoryCafe, CategoryForQuery("  Cafes and Bakeries Near Me  "))
	assert.Equal(t, CategoryPark, CategoryForQuery("parks near me"))
	assert.Equal(t, CategoryRestaurant, CategoryForQuery("delis near me"))
	assert.Equal(t, CategoryLocalSpot, CategoryForQuery("laundromats near me"))
}

func TestMatchesPreference(t *testing.T) {
	cafe := types.Place{SearchCategory: "cafes and bakeries near me"}

	assert.True(t, MatchesPreference(cafe, []string{"Cafe"}))
	assert.True(t, MatchesPreference(cafe, []string{"Park", "cafe"}))
	assert.True(t, MatchesPreference(cafe, []string{" CAFE "}))
	assert.False(t, MatchesPreference(cafe, []string{"Park", "Museum"}))
	assert.False(t, MatchesPreference(cafe, nil))
}
