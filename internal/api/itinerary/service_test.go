package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/localwander/go-walk-itineraries/internal/exclusion"
	"github.com/localwander/go-walk-itineraries/internal/places"
	"github.com/localwander/go-walk-itineraries/internal/planner"
	"github.com/localwander/go-walk-itineraries/internal/types"
)

// MockSearchClient is a mock implementation of places.SearchClient
type MockSearchClient struct {
	mock.Mock
}

func (m *MockSearchClient) SearchAllCategories(ctx context.Context, location string, radiusMiles float64) (*types.SearchResults, error) {
	args := m.Called(ctx, location, radiusMiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SearchResults), args.Error(1)
}

// MockExtractor is a mock implementation of intent.Extractor
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractIntent(ctx context.Context, text string) (*types.TripIntent, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripIntent), args.Error(1)
}

func setupServiceTest(search places.SearchClient) (*ServiceImpl, *places.ResultCache) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cache := places.NewResultCache(time.Minute, time.Minute)
	generator := planner.New(logger, rand.New(rand.NewPCG(11, 29)))
	exclusions := exclusion.NewManager(logger)
	service := NewServiceImpl(search, cache, generator, exclusions, nil, nil, SearchDefaults{}, logger)
	return service, cache
}

func fptr(v float64) *float64 { return &v }

func searchPlace(name string, lat, lng, distMeters, rating float64, searchCategory string, tags ...string) types.Place {
	return types.Place{
		PlaceID:        "pl-" + name,
		Name:           name,
		Latitude:       &lat,
		Longitude:      &lng,
		DistanceMeters: &distMeters,
		Rating:         &rating,
		Types:          tags,
		SearchCategory: searchCategory,
	}
}

// villageResults is a compact, diverse neighborhood pool.
func villageResults() *types.SearchResults {
	const lat, lng = 40.7336, -74.0027
	return &types.SearchResults{
		Metadata: types.SearchMetadata{
			OriginAddress:     "Greenwich Village, New York, NY",
			OriginLatitude:    lat,
			OriginLongitude:   lng,
			SearchRadiusMiles: 2.5,
		},
		ByCategory: map[string][]types.Place{
			"restaurants near me": {
				searchPlace("Corner Bistro", lat+0.0004, lng, 150, 4.6, "restaurants near me", "restaurant"),
				searchPlace("Night Deli", lat+0.0008, lng+0.0006, 260, 4.5, "restaurants near me", "restaurant"),
				searchPlace("Noodle Bar", lat-0.0005, lng-0.0004, 340, 4.7, "restaurants near me", "restaurant"),
			},
			"cafes and bakeries near me": {
				searchPlace("Slow Roast", lat+0.0002, lng+0.0004, 190, 4.8, "cafes and bakeries near me", "cafe"),
				searchPlace("Flour & Co", lat-0.0006, lng+0.0003, 410, 4.5, "cafes and bakeries near me", "bakery"),
			},
			"parks near me": {
				searchPlace("Pocket Park", lat+0.0007, lng-0.0005, 380, 4.4, "parks near me", "park"),
				searchPlace("River Green", lat-0.0004, lng-0.0007, 520, 4.6, "parks near me", "park"),
			},
			"museums near me": {
				searchPlace("City Annex", lat+0.0009, lng+0.0002, 600, 4.7, "museums near me", "museum"),
				searchPlace("Print Gallery", lat-0.0008, lng+0.0005, 450, 4.5, "museums near me", "art_gallery"),
			},
			"thrift stores near me": {
				searchPlace("Second Story", lat+0.0005, lng+0.0007, 300, 4.4, "thrift stores near me", "store"),
				searchPlace("Vinyl Attic", lat-0.0002, lng+0.0008, 700, 4.6, "thrift stores near me", "book_store"),
			},
		},
	}
}

func TestServiceImpl_GenerateItineraries(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)
		mockSearch.On("SearchAllCategories", mock.Anything, "Greenwich Village", 2.5).
			Return(villageResults(), nil).Once()

		resp, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{Location: "Greenwich Village"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Itineraries)
		require.Len(t, resp.Sources, 1)
		assert.Equal(t, "https://maps.google.com", resp.Sources[0].Web["uri"])
		mockSearch.AssertExpectations(t)
	})

	t.Run("second request is served from cache", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)
		mockSearch.On("SearchAllCategories", mock.Anything, "Greenwich Village", 2.5).
			Return(villageResults(), nil).Once()

		_, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{Location: "Greenwich Village"})
		require.NoError(t, err)
		_, err = service.GenerateItineraries(ctx, types.ItinerariesRequest{Location: "Greenwich Village"})
		require.NoError(t, err)
		mockSearch.AssertNumberOfCalls(t, "SearchAllCategories", 1)
	})

	t.Run("missing location", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)

		_, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{})
		assert.ErrorIs(t, err, ErrLocationRequired)
	})

	t.Run("free-text query without an extractor", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)

		_, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{Query: "a cheap afternoon in Chelsea"})
		assert.ErrorIs(t, err, ErrIntentUnavailable)
	})

	t.Run("free-text query resolved through the extractor", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)
		mockExtractor := &MockExtractor{}
		service.intents = mockExtractor

		mockExtractor.On("ExtractIntent", mock.Anything, "a cheap afternoon in Chelsea").
			Return(&types.TripIntent{Location: "Chelsea", MaxPriceLevel: "10-20"}, nil).Once()
		mockSearch.On("SearchAllCategories", mock.Anything, "Chelsea", 2.5).
			Return(villageResults(), nil).Once()

		resp, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{Query: "a cheap afternoon in Chelsea"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Itineraries)
		mockExtractor.AssertExpectations(t)
		mockSearch.AssertExpectations(t)
	})

	t.Run("wider radius widens the search", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)
		mockSearch.On("SearchAllCategories", mock.Anything, "Greenwich Village", 4.0).
			Return(villageResults(), nil).Once()

		_, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{
			Location:         "Greenwich Village",
			MaxDistanceMiles: fptr(4.0),
		})
		require.NoError(t, err)
		mockSearch.AssertExpectations(t)
	})

	t.Run("configured radii reach the search client", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)
		service.defaults = SearchDefaults{ItineraryRadiusMiles: 1.0, SearchRadiusMiles: 4.5}.withFallbacks()
		mockSearch.On("SearchAllCategories", mock.Anything, "Greenwich Village", 4.5).
			Return(villageResults(), nil).Once()

		_, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{Location: "Greenwich Village"})
		require.NoError(t, err)
		mockSearch.AssertExpectations(t)
	})

	t.Run("zero defaults fall back to the built-ins", func(t *testing.T) {
		defaults := SearchDefaults{}.withFallbacks()
		assert.Equal(t, defaultItineraryRadiusMiles, defaults.ItineraryRadiusMiles)
		assert.Equal(t, defaultSearchRadiusMiles, defaults.SearchRadiusMiles)
	})

	t.Run("search failure propagates", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)
		mockSearch.On("SearchAllCategories", mock.Anything, "Greenwich Village", 2.5).
			Return(nil, errors.New("upstream down")).Once()

		_, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{Location: "Greenwich Village"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "searching places")
	})

	t.Run("empty results mean insufficient places", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)
		mockSearch.On("SearchAllCategories", mock.Anything, "Gowanus", 2.5).
			Return(&types.SearchResults{ByCategory: map[string][]types.Place{}}, nil).Once()

		_, err := service.GenerateItineraries(ctx, types.ItinerariesRequest{Location: "Gowanus"})
		assert.ErrorIs(t, err, ErrInsufficientPlaces)
	})
}

func TestServiceImpl_GenerateCustomItineraries(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)
		mockSearch.On("SearchAllCategories", mock.Anything, "Greenwich Village", 2.5).
			Return(villageResults(), nil).Once()

		resp, err := service.GenerateCustomItineraries(ctx, types.CustomItinerariesRequest{
			Location:   "Greenwich Village",
			Categories: []string{"Cafe", "Park"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Itineraries)
		assert.LessOrEqual(t, len(resp.Itineraries), 3)
		mockSearch.AssertExpectations(t)
	})

	t.Run("missing location", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)

		_, err := service.GenerateCustomItineraries(ctx, types.CustomItinerariesRequest{Categories: []string{"Cafe"}})
		assert.ErrorIs(t, err, ErrLocationRequired)
	})
}

func TestServiceImpl_RefreshSpot(t *testing.T) {
	ctx := context.Background()

	t.Run("no cached results", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)

		_, err := service.RefreshSpot(ctx, types.RefreshSpotRequest{Location: "Greenwich Village", Category: "Cafe"})
		assert.ErrorIs(t, err, ErrNoCachedResults)
	})

	t.Run("replacement from cached results", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, cache := setupServiceTest(mockSearch)
		cache.Set("Greenwich Village", 2.5, villageResults())

		stop, err := service.RefreshSpot(ctx, types.RefreshSpotRequest{Location: "Greenwich Village", Category: "Park"})
		require.NoError(t, err)
		assert.Equal(t, "Park", stop.Category)
		assert.NotEmpty(t, stop.Name)
	})

	t.Run("no alternative left", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, cache := setupServiceTest(mockSearch)
		cache.Set("Greenwich Village", 2.5, villageResults())

		_, err := service.RefreshSpot(ctx, types.RefreshSpotRequest{
			Location:    "Greenwich Village",
			Category:    "Park",
			ExcludedIDs: []string{"pl-Pocket Park", "pl-River Green"},
		})
		assert.ErrorIs(t, err, ErrNoAlternativeFound)
	})
}

func TestServiceImpl_RefreshCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("no cached results", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, _ := setupServiceTest(mockSearch)

		_, err := service.RefreshCategory(ctx, types.RefreshCategoryRequest{Location: "Greenwich Village", CurrentCategory: "Cafe"})
		assert.ErrorIs(t, err, ErrNoCachedResults)
	})

	t.Run("replacement comes from a different category", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, cache := setupServiceTest(mockSearch)
		cache.Set("Greenwich Village", 2.5, villageResults())

		stop, err := service.RefreshCategory(ctx, types.RefreshCategoryRequest{
			Location:        "Greenwich Village",
			CurrentCategory: "Cafe",
		})
		require.NoError(t, err)
		assert.NotEqual(t, "Cafe", stop.Category)

		// The dismissed category goes on cooldown.
		_, err = service.RefreshCategory(ctx, types.RefreshCategoryRequest{
			Location:        "Greenwich Village",
			CurrentCategory: stop.Category,
		})
		require.NoError(t, err)
	})

	t.Run("all categories on cooldown", func(t *testing.T) {
		mockSearch := &MockSearchClient{}
		service, cache := setupServiceTest(mockSearch)
		results := &types.SearchResults{
			ByCategory: map[string][]types.Place{
				"cafes and bakeries near me": {
					searchPlace("Slow Roast", 40.7336, -74.0027, 190, 4.8, "cafes and bakeries near me", "cafe"),
				},
			},
		}
		cache.Set("Greenwich Village", 2.5, results)

		_, err := service.RefreshCategory(ctx, types.RefreshCategoryRequest{
			Location:        "Greenwich Village",
			CurrentCategory: "Cafe",
		})
		assert.ErrorIs(t, err, ErrAllCategoriesExcluded)
	})
}
