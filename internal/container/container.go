package container

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/localwander/go-walk-itineraries/app/observability/metrics"
	"github.com/localwander/go-walk-itineraries/config"
	"github.com/localwander/go-walk-itineraries/internal/api/itinerary"
	"github.com/localwander/go-walk-itineraries/internal/exclusion"
	"github.com/localwander/go-walk-itineraries/internal/intent"
	"github.com/localwander/go-walk-itineraries/internal/places"
	"github.com/localwander/go-walk-itineraries/internal/planner"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Cache            *places.ResultCache
	ItineraryHandler *itinerary.Handler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if mapsKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is not set")
	}
	searchClient := places.NewGoogleClient(mapsKey, cfg.Search.MinRating, logger)

	cache := places.NewResultCache(cfg.Search.CacheTTL, 2*cfg.Search.CacheTTL)

	// Intent extraction is optional. Without a Gemini key the service still
	// works for requests that carry an explicit location.
	var extractor intent.Extractor
	if geminiKey := os.Getenv("GOOGLE_GEMINI_API_KEY"); geminiKey != "" {
		gemini, err := intent.NewGeminiExtractor(ctx, geminiKey, logger)
		if err != nil {
			logger.Warn("Failed to initialize intent extractor, free-text queries disabled", slog.Any("error", err))
		} else {
			extractor = gemini
		}
	} else {
		logger.Info("GOOGLE_GEMINI_API_KEY not set, free-text queries disabled")
	}

	generator := planner.New(logger, nil)
	exclusions := exclusion.NewManager(logger)

	searchDefaults := itinerary.SearchDefaults{
		ItineraryRadiusMiles: cfg.Search.ItineraryRadiusMiles,
		SearchRadiusMiles:    cfg.Search.DefaultRadiusMiles,
	}
	itineraryService := itinerary.NewServiceImpl(searchClient, cache, generator, exclusions, extractor, metrics.Get(), searchDefaults, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Cache:            cache,
		ItineraryHandler: itineraryHandler,
	}, nil
}
