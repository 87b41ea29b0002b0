package planner

import (
	"strings"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

// Category is the semantic bucket a place lands in after classification.
type Category string

const (
	CategoryRestaurant Category = "Restaurant"
	CategoryCafe       Category = "Cafe"
	CategoryBakery     Category = "Bakery"
	CategoryPark       Category = "Park"
	CategoryAttraction Category = "Attraction"
	CategoryMuseum     Category = "Museum"
	CategoryGallery    Category = "Gallery"
	CategoryShopping   Category = "Shopping"
	CategoryShop       Category = "Shop"
	CategoryBookstore  Category = "Bookstore"
	CategoryLibrary    Category = "Library"
	CategoryLandmark   Category = "Landmark"
	CategoryLocalSpot  Category = "Local Spot"
)

// BroadType is the coarse grouping used to enforce itinerary diversity.
type BroadType string

const (
	BroadFood     BroadType = "food"
	BroadNature   BroadType = "nature"
	BroadCulture  BroadType = "culture"
	BroadShopping BroadType = "shopping"
	BroadMisc     BroadType = "misc"
)

// broadTypeOrder is the priority order used when force-filling one place
// per broad type.
var broadTypeOrder = []BroadType{BroadNature, BroadCulture, BroadFood, BroadShopping, BroadMisc}

// tagCategories maps provider taxonomy tags to categories. The place's own
// tag list order decides which row wins: the first tag present in this table
// determines the category.
var tagCategories = map[string]Category{
	"restaurant":         CategoryRestaurant,
	"food":               CategoryRestaurant,
	"meal_takeaway":      CategoryRestaurant,
	"cafe":               CategoryCafe,
	"bakery":             CategoryBakery,
	"park":               CategoryPark,
	"tourist_attraction": CategoryAttraction,
	"amusement_park":     CategoryAttraction,
	"zoo":                CategoryAttraction,
	"museum":             CategoryMuseum,
	"art_gallery":        CategoryGallery,
	"shopping_mall":      CategoryShopping,
	"store":              CategoryShop,
	"clothing_store":     CategoryShop,
	"book_store":         CategoryBookstore,
	"library":            CategoryLibrary,
	"church":             CategoryLandmark,
	"synagogue":          CategoryLandmark,
	"mosque":             CategoryLandmark,
}

// broadTypes coarsens categories for diversity enforcement. This table is
// owned here; no other component redefines its own copy.
var broadTypes = map[Category]BroadType{
	CategoryRestaurant: BroadFood,
	CategoryCafe:       BroadFood,
	CategoryBakery:     BroadFood,
	CategoryPark:       BroadNature,
	CategoryAttraction: BroadCulture,
	CategoryMuseum:     BroadCulture,
	CategoryGallery:    BroadCulture,
	CategoryShopping:   BroadShopping,
	CategoryShop:       BroadShopping,
	CategoryBookstore:  BroadShopping,
	CategoryLibrary:    BroadCulture,
	CategoryLandmark:   BroadCulture,
	CategoryLocalSpot:  BroadMisc,
}

// queryCategories maps search-collaborator category queries to the category
// a user selection refers to, e.g. "cafes and bakeries near me" -> Cafe.
var queryCategories = map[string]Category{
	"restaurants near me":             CategoryRestaurant,
	"cafes and bakeries near me":      CategoryCafe,
	"parks near me":                   CategoryPark,
	"delis near me":                   CategoryRestaurant,
	"thrift stores near me":           CategoryShop,
	"tourist attractions near me":     CategoryAttraction,
	"museums near me":                 CategoryMuseum,
	"galleries near me":               CategoryGallery,
	"markets near me":                 CategoryShopping,
}

// Categorize maps a raw place record to a semantic category. It is a total
// function: a missing or unmatched tag list yields CategoryLocalSpot.
func Categorize(place types.Place) Category {
	for _, tag := range place.Types {
		if category, ok := tagCategories[tag]; ok {
			return category
		}
	}
	return CategoryLocalSpot
}

// BroadTypeOf coarsens a category; categories absent from the table default
// to misc.
func BroadTypeOf(category Category) BroadType {
	if broad, ok := broadTypes[category]; ok {
		return broad
	}
	return BroadMisc
}

// BroadTypeOfPlace is shorthand for BroadTypeOf(Categorize(place)).
func BroadTypeOfPlace(place types.Place) BroadType {
	return BroadTypeOf(Categorize(place))
}

// CategoryForQuery resolves a search-category query to the category it
// represents. Unknown queries fall back to CategoryLocalSpot.
func CategoryForQuery(query string) Category {
	if category, ok := queryCategories[strings.ToLower(strings.TrimSpace(query))]; ok {
		return category
	}
	return CategoryLocalSpot
}

// MatchesPreference reports whether a place's originating search category
// refers to one of the user's selected categories. Selections are matched
// case-insensitively against the category name.
func MatchesPreference(place types.Place, selected []string) bool {
	category := CategoryForQuery(place.SearchCategory)
	for _, want := range selected {
		if strings.EqualFold(strings.TrimSpace(want), string(category)) {
			return true
		}
	}
	return false
}
