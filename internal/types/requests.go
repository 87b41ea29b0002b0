package types

// ItinerariesRequest asks for up to five mixed itineraries around a location.
// Query is free text handed to the intent extractor when Location is empty.
type ItinerariesRequest struct {
	Location         string   `json:"location"`
	Query            string   `json:"query,omitempty"`
	MaxPriceLevel    string   `json:"max_price_level,omitempty"`
	MaxDistanceMiles *float64 `json:"max_distance_miles,omitempty"`
}

// CustomItinerariesRequest asks for preference-driven itineraries built by
// the hotspot clustering engine.
type CustomItinerariesRequest struct {
	Location         string   `json:"location"`
	Categories       []string `json:"categories"`
	MaxDistanceMiles *float64 `json:"max_distance_miles,omitempty"`
}

// ItinerariesResponse carries generated itineraries plus source attributions.
type ItinerariesResponse struct {
	Itineraries []Itinerary      `json:"itineraries"`
	Sources     []GroundingChunk `json:"sources"`
}

// RefreshSpotRequest asks for one replacement stop of the same category.
type RefreshSpotRequest struct {
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	ExcludedIDs []string `json:"excluded_ids,omitempty"`
}

// RefreshCategoryRequest asks for one replacement stop from a different,
// non-cooldown category.
type RefreshCategoryRequest struct {
	Location        string   `json:"location"`
	CurrentCategory string   `json:"current_category"`
	ExcludedSpotIDs []string `json:"excluded_spot_ids,omitempty"`
}

// TripIntent is what the intent extractor distills from free text.
type TripIntent struct {
	Location         string   `json:"location"`
	Categories       []string `json:"categories,omitempty"`
	MaxPriceLevel    string   `json:"max_price_level,omitempty"`
	MaxDistanceMiles *float64 `json:"max_distance_miles,omitempty"`
}
