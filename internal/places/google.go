package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/localwander/go-walk-itineraries/internal/planner"
	"github.com/localwander/go-walk-itineraries/internal/types"
)

const (
	geocodeBaseURL      = "https://maps.googleapis.com/maps/api/geocode/json"
	nearbySearchBaseURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	placeDetailsBaseURL = "https://maps.googleapis.com/maps/api/place/details/json"
	placePhotoBaseURL   = "https://maps.googleapis.com/maps/api/place/photo"

	detailFields = "place_id,name,geometry,formatted_address,rating,user_ratings_total,price_level,types,opening_hours,reviews,photos,formatted_phone_number,website,editorial_summary"

	// Only highly-rated places make it into itineraries.
	defaultMinRating = 4.4
	placesPerQuery   = 10
	reviewSnippetMax = 200

	// Concurrent category lookups against the rate-limited provider.
	searchFanOut = 3
)

var _ SearchClient = (*GoogleClient)(nil)

// GoogleClient is the Google Maps-backed search collaborator. Category
// queries fan out in parallel; each query geocodes once, lists nearby
// places, and hydrates the top results with place details.
type GoogleClient struct {
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	minRating  float64
}

// NewGoogleClient builds the client with the configured rating floor; a
// zero or negative floor falls back to the built-in default.
func NewGoogleClient(apiKey string, minRating float64, logger *slog.Logger) *GoogleClient {
	if minRating <= 0 {
		minRating = defaultMinRating
	}
	return &GoogleClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		minRating:  minRating,
	}
}

// SearchAllCategories resolves every default category query around the
// location and returns the categorized pool, each place annotated with its
// straight-line distance from the search origin.
func (c *GoogleClient) SearchAllCategories(ctx context.Context, location string, radiusMiles float64) (*types.SearchResults, error) {
	originLat, originLng, err := c.Geocode(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", location, err)
	}

	byCategory := make(map[string][]types.Place, len(DefaultCategoryQueries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(searchFanOut)
	for _, query := range DefaultCategoryQueries {
		g.Go(func() error {
			found, err := c.searchCategory(gctx, query, originLat, originLng, radiusMiles)
			if err != nil {
				// One failed category should not sink the whole search.
				c.logger.WarnContext(gctx, "category search failed",
					slog.String("query", query), slog.Any("error", err))
				return nil
			}
			mu.Lock()
			byCategory[query] = found
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := &types.SearchResults{
		Metadata: types.SearchMetadata{
			OriginAddress:     location,
			OriginLatitude:    originLat,
			OriginLongitude:   originLng,
			SearchRadiusMiles: radiusMiles,
			CategoriesQueried: len(DefaultCategoryQueries),
			Timestamp:         time.Now().UTC().Format(time.RFC3339),
		},
		ByCategory: byCategory,
	}
	results.Metadata.TotalPlacesFound = results.TotalPlaces()
	return results, nil
}

// Geocode resolves an address to coordinates.
func (c *GoogleClient) Geocode(ctx context.Context, address string) (lat, lng float64, err error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	var resp geocodeResponse
	if err := c.getJSON(ctx, geocodeBaseURL, params, &resp); err != nil {
		return 0, 0, err
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return 0, 0, fmt.Errorf("geocoding status %s: %s", resp.Status, resp.ErrorMessage)
	}
	loc := resp.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

func (c *GoogleClient) searchCategory(ctx context.Context, query string, originLat, originLng, radiusMiles float64) ([]types.Place, error) {
	placeType := string(planner.CategoryForQuery(query))

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", originLat, originLng))
	params.Set("type", providerType(placeType))
	params.Set("rankby", "distance")
	params.Set("key", c.apiKey)

	var resp nearbyResponse
	if err := c.getJSON(ctx, nearbySearchBaseURL, params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("nearby search status %s", resp.Status)
	}

	var ids []string
	for _, result := range resp.Results {
		if result.Rating != nil && *result.Rating >= c.minRating {
			ids = append(ids, result.PlaceID)
		}
		if len(ids) >= placesPerQuery {
			break
		}
	}

	maxMeters := planner.MilesToMeters(radiusMiles)
	var found []types.Place
	for _, id := range ids {
		detail, err := c.placeDetails(ctx, id)
		if err != nil {
			c.logger.DebugContext(ctx, "place details failed",
				slog.String("place_id", id), slog.Any("error", err))
			continue
		}
		place := c.formatPlace(detail, query, originLat, originLng)
		if place.DistanceMeters == nil || *place.DistanceMeters > maxMeters {
			continue
		}
		found = append(found, place)
	}

	sort.SliceStable(found, func(i, j int) bool {
		ri, rj := found[i].RatingOrDefault(0), found[j].RatingOrDefault(0)
		if ri != rj {
			return ri > rj
		}
		return *found[i].DistanceMeters < *found[j].DistanceMeters
	})
	return found, nil
}

func (c *GoogleClient) placeDetails(ctx context.Context, placeID string) (*placeDetail, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)
	params.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.getJSON(ctx, placeDetailsBaseURL, params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("place details status %s", resp.Status)
	}
	return &resp.Result, nil
}

// formatPlace flattens a provider detail record into the planner's place
// shape. Origin distance is the haversine straight-line distance; routed
// road distance is out of scope here.
func (c *GoogleClient) formatPlace(detail *placeDetail, query string, originLat, originLng float64) types.Place {
	lat := detail.Geometry.Location.Lat
	lng := detail.Geometry.Location.Lng

	place := types.Place{
		PlaceID:          detail.PlaceID,
		Name:             detail.Name,
		Latitude:         &lat,
		Longitude:        &lng,
		Address:          detail.FormattedAddress,
		Rating:           detail.Rating,
		PriceLevel:       detail.PriceLevel,
		Types:            detail.Types,
		PhoneNumber:      detail.FormattedPhoneNumber,
		Website:          detail.Website,
		EditorialSummary: detail.EditorialSummary.Overview,
		SearchCategory:   query,
	}
	if detail.UserRatingsTotal != nil {
		place.UserRatingsTotal = *detail.UserRatingsTotal
	}

	origin := types.Place{Latitude: &originLat, Longitude: &originLng}
	if meters, ok := planner.Distance(origin, place); ok {
		place.DistanceMeters = &meters
	}

	if hours := detail.OpeningHours; hours != nil && len(hours.WeekdayText) > 0 {
		place.OpeningHours = parseWeekdayText(hours.WeekdayText)
	}
	if len(detail.Photos) > 0 && detail.Photos[0].PhotoReference != "" {
		place.PhotoURL = fmt.Sprintf("%s?maxwidth=400&photoreference=%s&key=%s",
			placePhotoBaseURL, detail.Photos[0].PhotoReference, c.apiKey)
	}
	if len(detail.Reviews) > 0 {
		place.LatestReview = reviewSnippet(detail.Reviews[0].Text)
	}
	return place
}

// reviewSnippet shortens a review to at most reviewSnippetMax bytes without
// cutting through a multi-byte rune.
func reviewSnippet(text string) string {
	if len(text) <= reviewSnippetMax {
		return text
	}
	cut := reviewSnippetMax
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func (c *GoogleClient) getJSON(ctx context.Context, baseURL string, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, baseURL)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// providerType maps a classified category back to the provider taxonomy tag
// used for nearby searches.
func providerType(category string) string {
	switch category {
	case "Restaurant":
		return "restaurant"
	case "Cafe":
		return "cafe"
	case "Park":
		return "park"
	case "Attraction":
		return "tourist_attraction"
	case "Museum":
		return "museum"
	case "Gallery":
		return "art_gallery"
	case "Shopping":
		return "store"
	case "Shop":
		return "store"
	default:
		return "point_of_interest"
	}
}

func parseWeekdayText(lines []string) map[string]string {
	hours := make(map[string]string, len(lines))
	for _, line := range lines {
		if day, open, ok := strings.Cut(line, ": "); ok {
			hours[day] = open
		}
	}
	return hours
}
