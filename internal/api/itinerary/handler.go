package itinerary

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/localwander/go-walk-itineraries/internal/api"
	"github.com/localwander/go-walk-itineraries/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Generate handles POST /api/v1/itineraries.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Generate", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Generate"))

	var req types.ItinerariesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Location) == "" && strings.TrimSpace(req.Query) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location or query is required")
		return
	}
	if len(strings.TrimSpace(req.Location)) == 1 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location must be at least 2 characters long")
		return
	}

	resp, err := h.service.GenerateItineraries(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, err, noItinerariesMessage(req))
		return
	}

	l.InfoContext(ctx, "Itineraries generated",
		slog.String("location", req.Location),
		slog.Int("count", len(resp.Itineraries)))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GenerateCustom handles POST /api/v1/itineraries/custom.
func (h *Handler) GenerateCustom(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateCustom", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/custom"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateCustom"))

	var req types.CustomItinerariesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location is required")
		return
	}
	if len(req.Categories) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "At least one category is required")
		return
	}

	resp, err := h.service.GenerateCustomItineraries(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, err,
			fmt.Sprintf("Could not find enough places matching your preferences near '%s'. Try different categories or a wider area.", req.Location))
		return
	}

	l.InfoContext(ctx, "Custom itineraries generated",
		slog.String("location", req.Location),
		slog.Int("count", len(resp.Itineraries)))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// RefreshSpot handles POST /api/v1/itineraries/refresh-spot.
func (h *Handler) RefreshSpot(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "RefreshSpot", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/refresh-spot"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RefreshSpot"))

	var req types.RefreshSpotRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Location) == "" || strings.TrimSpace(req.Category) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location and category are required")
		return
	}

	stop, err := h.service.RefreshSpot(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, err,
			fmt.Sprintf("Could not find an alternative %s spot for %s.", req.Category, req.Location))
		return
	}

	l.InfoContext(ctx, "Spot refreshed", slog.String("name", stop.Name))
	api.WriteJSONResponse(w, r, http.StatusOK, stop)
}

// RefreshCategory handles POST /api/v1/itineraries/refresh-category.
func (h *Handler) RefreshCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "RefreshCategory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/refresh-category"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RefreshCategory"))

	var req types.RefreshCategoryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(strings.TrimSpace(req.Location)) < 2 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location must be at least 2 characters long")
		return
	}
	if strings.TrimSpace(req.CurrentCategory) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Current category is required")
		return
	}

	stop, err := h.service.RefreshCategory(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, err,
			fmt.Sprintf("Could not find a spot from a different category for %s.", req.Location))
		return
	}

	l.InfoContext(ctx, "Category refreshed",
		slog.String("name", stop.Name),
		slog.String("category", stop.Category))
	api.WriteJSONResponse(w, r, http.StatusOK, stop)
}

// writeServiceError maps expected service outcomes onto HTTP statuses. The
// ordinary "not enough places nearby" case is a 404 with guidance, not a
// server error.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, ErrLocationRequired):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location is required")
	case errors.Is(err, ErrIntentUnavailable):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Free-text queries are not supported on this deployment; supply a location")
	case errors.Is(err, ErrInsufficientPlaces), errors.Is(err, ErrNoAlternativeFound):
		api.ErrorResponse(w, r, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, ErrNoCachedResults):
		api.ErrorResponse(w, r, http.StatusNotFound, "No cached results for this location. Search for itineraries first.")
	case errors.Is(err, ErrAllCategoriesExcluded):
		api.ErrorResponse(w, r, http.StatusNotFound, "No alternative categories available. All categories have been recently used.")
	default:
		h.logger.ErrorContext(r.Context(), "Service call failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred while generating itineraries. Please try again.")
	}
}

func noItinerariesMessage(req types.ItinerariesRequest) string {
	msg := fmt.Sprintf("Could not find enough places to create itineraries for '%s'", req.Location)
	if req.MaxPriceLevel != "" {
		msg += fmt.Sprintf(" within $%s price range", req.MaxPriceLevel)
	}
	if req.MaxDistanceMiles != nil {
		msg += fmt.Sprintf(" within %.1f miles", *req.MaxDistanceMiles)
	}
	return msg + ". Try adjusting your filters or a different area."
}
