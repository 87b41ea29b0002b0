package types

// Place is a point-of-interest candidate returned by the place search
// collaborator. Provider ids may be absent or duplicated, so PlaceID is
// never treated as a primary key. Latitude/Longitude are pointers because
// records lacking either must be excluded from distance-based logic rather
// than treated as adjacent to the origin.
type Place struct {
	PlaceID          string            `json:"place_id,omitempty"`
	Name             string            `json:"name"`
	Latitude         *float64          `json:"latitude,omitempty"`
	Longitude        *float64          `json:"longitude,omitempty"`
	Address          string            `json:"address,omitempty"`
	DistanceMeters   *float64          `json:"distance_meters,omitempty"`
	Rating           *float64          `json:"rating,omitempty"`
	UserRatingsTotal int               `json:"user_ratings_total,omitempty"`
	PriceLevel       *int              `json:"price_level,omitempty"`
	Types            []string          `json:"types,omitempty"`
	OpeningHours     map[string]string `json:"opening_hours,omitempty"`
	PhoneNumber      string            `json:"phone_number,omitempty"`
	Website          string            `json:"website,omitempty"`
	PhotoURL         string            `json:"photo_url,omitempty"`
	LatestReview     string            `json:"latest_review,omitempty"`
	EditorialSummary string            `json:"editorial_summary,omitempty"`

	// SearchCategory is the category query that produced this place,
	// e.g. "cafes and bakeries near me".
	SearchCategory string `json:"search_category,omitempty"`
}

// HasCoordinates reports whether the place can participate in distance
// computations.
func (p *Place) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// RatingOrDefault returns the provider rating, or baseline when the
// provider supplied none.
func (p *Place) RatingOrDefault(baseline float64) float64 {
	if p.Rating == nil {
		return baseline
	}
	return *p.Rating
}

// Stop is a Place promoted into an itinerary position.
type Stop struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Category           string `json:"category"`
	WalkingTimeMinutes int    `json:"walking_time_minutes"`
	Description        string `json:"description,omitempty"`
	ImageURL           string `json:"image_url"`
}

// Itinerary is an ordered sequence of Stops representing one walkable route.
type Itinerary struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	Stops           []Stop `json:"stops"`
}

// SearchMetadata describes one search-collaborator run.
type SearchMetadata struct {
	OriginAddress     string  `json:"origin_address"`
	OriginLatitude    float64 `json:"origin_latitude"`
	OriginLongitude   float64 `json:"origin_longitude"`
	SearchRadiusMiles float64 `json:"search_radius_miles"`
	CategoriesQueried int     `json:"categories_queried"`
	TotalPlacesFound  int     `json:"total_places_found"`
	Timestamp         string  `json:"timestamp"`
}

// SearchResults is the resolved category-query -> places mapping the core
// consumes. The core never calls the search collaborator directly.
type SearchResults struct {
	Metadata   SearchMetadata     `json:"search_metadata"`
	ByCategory map[string][]Place `json:"results_by_category"`
}

// TotalPlaces counts places across all category buckets.
func (s *SearchResults) TotalPlaces() int {
	n := 0
	for _, places := range s.ByCategory {
		n += len(places)
	}
	return n
}

// GroundingChunk points at a data source used to build the response.
type GroundingChunk struct {
	Web map[string]string `json:"web"`
}
