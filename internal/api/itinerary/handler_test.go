package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GenerateItineraries(ctx context.Context, req types.ItinerariesRequest) (*types.ItinerariesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ItinerariesResponse), args.Error(1)
}

func (m *MockService) GenerateCustomItineraries(ctx context.Context, req types.CustomItinerariesRequest) (*types.ItinerariesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ItinerariesResponse), args.Error(1)
}

func (m *MockService) RefreshSpot(ctx context.Context, req types.RefreshSpotRequest) (*types.Stop, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Stop), args.Error(1)
}

func (m *MockService) RefreshCategory(ctx context.Context, req types.RefreshCategoryRequest) (*types.Stop, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Stop), args.Error(1)
}

func setupHandlerTest() (*Handler, *MockService) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	service := &MockService{}
	return NewHandler(service, logger), service
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandler_Generate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, service := setupHandlerTest()
		service.On("GenerateItineraries", mock.Anything, mock.Anything).
			Return(&types.ItinerariesResponse{
				Itineraries: []types.Itinerary{{ID: "itinerary-1", Title: "Best of SoHo"}},
			}, nil).Once()

		rec := postJSON(t, h.Generate, "/api/v1/itineraries", types.ItinerariesRequest{Location: "SoHo"})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp types.ItinerariesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Itineraries, 1)
		assert.Equal(t, "Best of SoHo", resp.Itineraries[0].Title)
		service.AssertExpectations(t)
	})

	t.Run("missing location and query", func(t *testing.T) {
		h, service := setupHandlerTest()

		rec := postJSON(t, h.Generate, "/api/v1/itineraries", types.ItinerariesRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "GenerateItineraries")
	})

	t.Run("malformed body", func(t *testing.T) {
		h, _ := setupHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		h.Generate(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("insufficient places maps to not found", func(t *testing.T) {
		h, service := setupHandlerTest()
		service.On("GenerateItineraries", mock.Anything, mock.Anything).
			Return(nil, ErrInsufficientPlaces).Once()

		rec := postJSON(t, h.Generate, "/api/v1/itineraries", types.ItinerariesRequest{Location: "Nowhere"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Nowhere")
	})

	t.Run("unexpected error maps to internal server error", func(t *testing.T) {
		h, service := setupHandlerTest()
		service.On("GenerateItineraries", mock.Anything, mock.Anything).
			Return(nil, assert.AnError).Once()

		rec := postJSON(t, h.Generate, "/api/v1/itineraries", types.ItinerariesRequest{Location: "SoHo"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_GenerateCustom(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, service := setupHandlerTest()
		service.On("GenerateCustomItineraries", mock.Anything, mock.MatchedBy(func(req types.CustomItinerariesRequest) bool {
			return req.Location == "SoHo" && len(req.Categories) == 2
		})).Return(&types.ItinerariesResponse{
			Itineraries: []types.Itinerary{{ID: "itinerary-1"}},
		}, nil).Once()

		rec := postJSON(t, h.GenerateCustom, "/api/v1/itineraries/custom", types.CustomItinerariesRequest{
			Location:   "SoHo",
			Categories: []string{"Cafe", "Park"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("missing categories", func(t *testing.T) {
		h, service := setupHandlerTest()

		rec := postJSON(t, h.GenerateCustom, "/api/v1/itineraries/custom", types.CustomItinerariesRequest{Location: "SoHo"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "GenerateCustomItineraries")
	})
}

func TestHandler_RefreshSpot(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, service := setupHandlerTest()
		service.On("RefreshSpot", mock.Anything, mock.Anything).
			Return(&types.Stop{ID: "stop-1", Name: "Slow Roast", Category: "Cafe"}, nil).Once()

		rec := postJSON(t, h.RefreshSpot, "/api/v1/itineraries/refresh-spot", types.RefreshSpotRequest{
			Location: "SoHo",
			Category: "Cafe",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var stop types.Stop
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stop))
		assert.Equal(t, "Slow Roast", stop.Name)
	})

	t.Run("no cached results maps to not found", func(t *testing.T) {
		h, service := setupHandlerTest()
		service.On("RefreshSpot", mock.Anything, mock.Anything).
			Return(nil, ErrNoCachedResults).Once()

		rec := postJSON(t, h.RefreshSpot, "/api/v1/itineraries/refresh-spot", types.RefreshSpotRequest{
			Location: "SoHo",
			Category: "Cafe",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		h, service := setupHandlerTest()

		rec := postJSON(t, h.RefreshSpot, "/api/v1/itineraries/refresh-spot", types.RefreshSpotRequest{Location: "SoHo"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "RefreshSpot")
	})
}

func TestHandler_RefreshCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, service := setupHandlerTest()
		service.On("RefreshCategory", mock.Anything, mock.Anything).
			Return(&types.Stop{ID: "stop-1", Name: "Pocket Park", Category: "Park"}, nil).Once()

		rec := postJSON(t, h.RefreshCategory, "/api/v1/itineraries/refresh-category", types.RefreshCategoryRequest{
			Location:        "SoHo",
			CurrentCategory: "Cafe",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("all categories excluded maps to not found", func(t *testing.T) {
		h, service := setupHandlerTest()
		service.On("RefreshCategory", mock.Anything, mock.Anything).
			Return(nil, ErrAllCategoriesExcluded).Once()

		rec := postJSON(t, h.RefreshCategory, "/api/v1/itineraries/refresh-category", types.RefreshCategoryRequest{
			Location:        "SoHo",
			CurrentCategory: "Cafe",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "recently used")
	})

	t.Run("short location", func(t *testing.T) {
		h, service := setupHandlerTest()

		rec := postJSON(t, h.RefreshCategory, "/api/v1/itineraries/refresh-category", types.RefreshCategoryRequest{
			Location:        "x",
			CurrentCategory: "Cafe",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "RefreshCategory")
	})
}
