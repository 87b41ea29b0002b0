package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/localwander/go-walk-itineraries/app/observability/metrics"
	"github.com/localwander/go-walk-itineraries/internal/exclusion"
	"github.com/localwander/go-walk-itineraries/internal/intent"
	"github.com/localwander/go-walk-itineraries/internal/places"
	"github.com/localwander/go-walk-itineraries/internal/planner"
	"github.com/localwander/go-walk-itineraries/internal/types"
)

const (
	defaultItineraryRadiusMiles = 1.5
	defaultSearchRadiusMiles    = 2.5
)

// Expected, recoverable outcomes. "Not enough places nearby" is common and
// is signaled by error value, never by panic.
var (
	ErrLocationRequired      = errors.New("location is required")
	ErrInsufficientPlaces    = errors.New("not enough places to build an itinerary")
	ErrNoCachedResults       = errors.New("no cached search results for location")
	ErrNoAlternativeFound    = errors.New("no alternative spot found")
	ErrAllCategoriesExcluded = errors.New("all categories are on cooldown")
	ErrIntentUnavailable     = errors.New("intent extraction is not configured")
)

var _ Service = (*ServiceImpl)(nil)

// SearchDefaults carries the radius tunables from configuration. Zero or
// negative values fall back to the built-in defaults.
type SearchDefaults struct {
	ItineraryRadiusMiles float64
	SearchRadiusMiles    float64
}

func (d SearchDefaults) withFallbacks() SearchDefaults {
	if d.ItineraryRadiusMiles <= 0 {
		d.ItineraryRadiusMiles = defaultItineraryRadiusMiles
	}
	if d.SearchRadiusMiles <= 0 {
		d.SearchRadiusMiles = defaultSearchRadiusMiles
	}
	return d
}

// Service is the business-logic contract for itinerary operations.
type Service interface {
	GenerateItineraries(ctx context.Context, req types.ItinerariesRequest) (*types.ItinerariesResponse, error)
	GenerateCustomItineraries(ctx context.Context, req types.CustomItinerariesRequest) (*types.ItinerariesResponse, error)
	RefreshSpot(ctx context.Context, req types.RefreshSpotRequest) (*types.Stop, error)
	RefreshCategory(ctx context.Context, req types.RefreshCategoryRequest) (*types.Stop, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	search     places.SearchClient
	cache      *places.ResultCache
	generator  *planner.Generator
	exclusions *exclusion.Manager
	intents    intent.Extractor // nil when no LLM key is configured
	metrics    *metrics.AppMetrics
	defaults   SearchDefaults
}

func NewServiceImpl(search places.SearchClient, cache *places.ResultCache, generator *planner.Generator, exclusions *exclusion.Manager, intents intent.Extractor, appMetrics *metrics.AppMetrics, defaults SearchDefaults, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		search:     search,
		cache:      cache,
		generator:  generator,
		exclusions: exclusions,
		intents:    intents,
		metrics:    appMetrics,
		defaults:   defaults.withFallbacks(),
	}
}

func (s *ServiceImpl) GenerateItineraries(ctx context.Context, req types.ItinerariesRequest) (*types.ItinerariesResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItineraries", trace.WithAttributes(
		attribute.String("location", req.Location),
	))
	defer span.End()
	start := time.Now()

	location := strings.TrimSpace(req.Location)
	if location == "" && strings.TrimSpace(req.Query) != "" {
		extracted, err := s.extractIntent(ctx, req.Query)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		location = extracted.Location
		if req.MaxPriceLevel == "" {
			req.MaxPriceLevel = extracted.MaxPriceLevel
		}
		if req.MaxDistanceMiles == nil {
			req.MaxDistanceMiles = extracted.MaxDistanceMiles
		}
	}
	if location == "" {
		return nil, ErrLocationRequired
	}

	radius := s.defaults.ItineraryRadiusMiles
	if req.MaxDistanceMiles != nil && *req.MaxDistanceMiles > 0 {
		radius = *req.MaxDistanceMiles
	}

	results, err := s.searchResults(ctx, location, radius)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	itineraries := s.generator.GenerateItineraries(results.ByCategory, location, req.MaxPriceLevel, radius)
	if len(itineraries) == 0 {
		s.logger.InfoContext(ctx, "no itineraries produced",
			slog.String("location", location),
			slog.Float64("radius_miles", radius),
			slog.Int("pool", results.TotalPlaces()))
		span.SetStatus(codes.Ok, "No itineraries produced")
		return nil, ErrInsufficientPlaces
	}

	if s.metrics != nil {
		s.metrics.ItinerariesGeneratedTotal.Add(ctx, int64(len(itineraries)))
		s.metrics.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	span.SetAttributes(attribute.Int("itineraries.count", len(itineraries)))
	span.SetStatus(codes.Ok, "Itineraries generated")

	return &types.ItinerariesResponse{
		Itineraries: itineraries,
		Sources:     searchSources(),
	}, nil
}

func (s *ServiceImpl) GenerateCustomItineraries(ctx context.Context, req types.CustomItinerariesRequest) (*types.ItinerariesResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateCustomItineraries", trace.WithAttributes(
		attribute.String("location", req.Location),
		attribute.Int("categories.count", len(req.Categories)),
	))
	defer span.End()
	start := time.Now()

	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}

	radius := s.defaults.ItineraryRadiusMiles
	if req.MaxDistanceMiles != nil && *req.MaxDistanceMiles > 0 {
		radius = *req.MaxDistanceMiles
	}

	results, err := s.searchResults(ctx, location, radius)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	itineraries := s.generator.GenerateFromPreferences(results.ByCategory, req.Categories, location, radius)
	if len(itineraries) == 0 {
		span.SetStatus(codes.Ok, "No custom itineraries produced")
		return nil, ErrInsufficientPlaces
	}

	if s.metrics != nil {
		s.metrics.ItinerariesGeneratedTotal.Add(ctx, int64(len(itineraries)))
		s.metrics.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	span.SetAttributes(attribute.Int("itineraries.count", len(itineraries)))
	span.SetStatus(codes.Ok, "Custom itineraries generated")

	return &types.ItinerariesResponse{
		Itineraries: itineraries,
		Sources:     searchSources(),
	}, nil
}

func (s *ServiceImpl) RefreshSpot(ctx context.Context, req types.RefreshSpotRequest) (*types.Stop, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "RefreshSpot", trace.WithAttributes(
		attribute.String("location", req.Location),
		attribute.String("category", req.Category),
	))
	defer span.End()

	results, found := s.cache.GetAnyRadius(req.Location)
	if !found {
		return nil, ErrNoCachedResults
	}

	stop, ok := s.generator.ReplacementSpot(results.ByCategory, req.Category, req.ExcludedIDs)
	if !ok {
		s.logger.InfoContext(ctx, "no replacement spot available",
			slog.String("location", req.Location),
			slog.String("category", req.Category))
		return nil, ErrNoAlternativeFound
	}

	if s.metrics != nil {
		s.metrics.SpotRefreshesTotal.Add(ctx, 1)
	}
	span.SetStatus(codes.Ok, "Spot refreshed")
	return &stop, nil
}

func (s *ServiceImpl) RefreshCategory(ctx context.Context, req types.RefreshCategoryRequest) (*types.Stop, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "RefreshCategory", trace.WithAttributes(
		attribute.String("location", req.Location),
		attribute.String("current_category", req.CurrentCategory),
	))
	defer span.End()

	results, found := s.cache.GetAnyRadius(req.Location)
	if !found {
		return nil, ErrNoCachedResults
	}

	s.exclusions.Exclude(req.Location, req.CurrentCategory)

	available := s.exclusions.AvailableCategories(req.Location, planner.PresentCategories(results.ByCategory))
	filtered := available[:0]
	for _, category := range available {
		if !strings.EqualFold(category, req.CurrentCategory) {
			filtered = append(filtered, category)
		}
	}
	if len(filtered) == 0 {
		return nil, ErrAllCategoriesExcluded
	}

	stop, ok := s.generator.SpotFromCategories(results.ByCategory, filtered, req.ExcludedSpotIDs)
	if !ok {
		return nil, ErrNoAlternativeFound
	}

	s.exclusions.AdvanceTurn(req.Location)

	if s.metrics != nil {
		s.metrics.SpotRefreshesTotal.Add(ctx, 1)
	}
	span.SetAttributes(attribute.String("stop.category", stop.Category))
	span.SetStatus(codes.Ok, "Category refreshed")
	return &stop, nil
}

// searchResults returns cached results for the location or resolves them
// through the search collaborator. Searches go out at least as wide as the
// default discovery radius so itinerary-radius filters have material to
// work with.
func (s *ServiceImpl) searchResults(ctx context.Context, location string, itineraryRadiusMiles float64) (*types.SearchResults, error) {
	searchRadius := s.defaults.SearchRadiusMiles
	if itineraryRadiusMiles > searchRadius {
		searchRadius = itineraryRadiusMiles
	}

	if cached, found := s.cache.Get(location, searchRadius); found {
		s.logger.DebugContext(ctx, "using cached search results", slog.String("location", location))
		return cached, nil
	}

	start := time.Now()
	results, err := s.search.SearchAllCategories(ctx, location, searchRadius)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PlaceSearchErrorsTotal.Add(ctx, 1)
		}
		return nil, fmt.Errorf("searching places for %q: %w", location, err)
	}
	if s.metrics != nil {
		s.metrics.PlaceSearchDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}

	s.cache.Set(location, searchRadius, results)
	return results, nil
}

func (s *ServiceImpl) extractIntent(ctx context.Context, query string) (*types.TripIntent, error) {
	if s.intents == nil {
		return nil, ErrIntentUnavailable
	}
	extracted, err := s.intents.ExtractIntent(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("extracting intent: %w", err)
	}
	return extracted, nil
}

func searchSources() []types.GroundingChunk {
	return []types.GroundingChunk{{
		Web: map[string]string{
			"uri":   "https://maps.google.com",
			"title": "Google Places & Maps",
		},
	}}
}
