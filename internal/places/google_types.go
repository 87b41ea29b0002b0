package places

// Wire shapes for the Google Maps Web Service responses this client reads.

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
}

type nearbyResponse struct {
	Status  string         `json:"status"`
	Results []nearbyResult `json:"results"`
}

type nearbyResult struct {
	PlaceID string   `json:"place_id"`
	Name    string   `json:"name"`
	Rating  *float64 `json:"rating,omitempty"`
	Types   []string `json:"types,omitempty"`
}

type detailsResponse struct {
	Status string      `json:"status"`
	Result placeDetail `json:"result"`
}

type placeDetail struct {
	PlaceID              string            `json:"place_id"`
	Name                 string            `json:"name"`
	Geometry             geometry          `json:"geometry"`
	FormattedAddress     string            `json:"formatted_address,omitempty"`
	Rating               *float64          `json:"rating,omitempty"`
	UserRatingsTotal     *int              `json:"user_ratings_total,omitempty"`
	PriceLevel           *int              `json:"price_level,omitempty"`
	Types                []string          `json:"types,omitempty"`
	OpeningHours         *openingHours     `json:"opening_hours,omitempty"`
	Reviews              []review          `json:"reviews,omitempty"`
	Photos               []photo           `json:"photos,omitempty"`
	FormattedPhoneNumber string            `json:"formatted_phone_number,omitempty"`
	Website              string            `json:"website,omitempty"`
	EditorialSummary     editorialSummary  `json:"editorial_summary,omitempty"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type openingHours struct {
	WeekdayText []string `json:"weekday_text,omitempty"`
}

type review struct {
	Text   string   `json:"text"`
	Rating *float64 `json:"rating,omitempty"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

type editorialSummary struct {
	Overview string `json:"overview,omitempty"`
}
