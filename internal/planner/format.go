package planner

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

// Rotating fallbacks for places the provider returned no photo for.
var stockImages = []string{
	"https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?q=80&w=1470&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1541167760496-1628856ab772?q=80&w=1637&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1472851294608-062f824d29cc?q=80&w=1470&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1521791136064-7986c2920216?q=80&w=1469&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1477959858617-67f85cf4f1df?q=80&w=1544&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1441974231531-c6227db76b6e?q=80&w=1471&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1550399105-c4db5fb85c18?q=80&w=1471&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1555939594-58d7cb561ad1?q=80&w=1374&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1533109721025-d1ae7de64092?q=80&w=1374&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1506126613408-4e64f3835bde?q=80&w=1470&auto=format&fit=crop",
}

var standardTitles = []string{
	"Best of %s",
	"Explore %s Like a Local",
	"%s Highlights",
	"Discover %s",
	"Mixed Adventure in %s",
}

var microTitles = []string{
	"Hidden Gem in %s",
	"Local Favorite in %s",
	"Must-Visit Spot in %s",
	"Discover %s",
	"Local Experience in %s",
}

// StopFromPlace builds a Stop record from a place. The description is
// synthesized in priority order: editorial summary, then the latest review
// snippet, then a plain category fallback; rating and price annotations are
// appended when present.
func (g *Generator) StopFromPlace(place types.Place, walkingMinutes int) types.Stop {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopFromPlace(place, walkingMinutes)
}

func (g *Generator) stopFromPlace(place types.Place, walkingMinutes int) types.Stop {
	imageURL := place.PhotoURL
	if imageURL == "" {
		imageURL = g.nextStockImage()
	}

	name := place.Name
	if name == "" {
		name = string(CategoryLocalSpot)
	}

	return types.Stop{
		ID:                 fmt.Sprintf("stop-%s", uuid.New()),
		Name:               name,
		Category:           string(Categorize(place)),
		WalkingTimeMinutes: walkingMinutes,
		Description:        describePlace(place),
		ImageURL:           imageURL,
	}
}

// nextStockImage rotates through the fallback images. Callers hold g.mu.
func (g *Generator) nextStockImage() string {
	image := stockImages[g.imageIndex%len(stockImages)]
	g.imageIndex++
	return image
}

func describePlace(place types.Place) string {
	var parts []string

	if place.EditorialSummary != "" {
		parts = append(parts, place.EditorialSummary)
	} else if place.LatestReview != "" {
		parts = append(parts, fmt.Sprintf("Visitor says: %s", place.LatestReview))
	}

	if place.Rating != nil {
		rating := fmt.Sprintf("Rated %.1f/5", *place.Rating)
		if place.UserRatingsTotal > 0 {
			rating += fmt.Sprintf(" (%d reviews)", place.UserRatingsTotal)
		}
		parts = append(parts, rating)
	}

	if place.PriceLevel != nil && *place.PriceLevel > 0 {
		parts = append(parts, fmt.Sprintf("Price level: %s", strings.Repeat("$", *place.PriceLevel)))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("A local %s worth exploring.", strings.ToLower(string(Categorize(place))))
	}
	return strings.Join(parts, ". ")
}

// formatItinerary turns an ordered, validated place list into a user-facing
// itinerary. Walking time for position i>0 derives from the haversine
// distance between consecutive stops; position 0 always walks 0 minutes.
// Micro itineraries get longer visit windows and their own title list.
// Callers hold g.mu.
func (g *Generator) formatItinerary(places []types.Place, location string, index int, micro bool) types.Itinerary {
	stops := make([]types.Stop, 0, len(places))
	totalDuration := 0

	for i, place := range places {
		walking := 0
		if i > 0 {
			walking = g.walkingMinutesBetween(places[i-1], place)
		}
		stops = append(stops, g.stopFromPlace(place, walking))

		visit := g.randBetween(20, 45)
		if micro {
			visit = g.randBetween(45, 90)
		}
		totalDuration += walking + visit
	}

	titles := standardTitles
	description := fmt.Sprintf("A perfect mix of local experiences in %s.", location)
	if micro {
		titles = microTitles
		description = fmt.Sprintf("A curated local experience in %s. Perfect for a focused visit.", location)
	}

	return types.Itinerary{
		ID:              fmt.Sprintf("itinerary-%s", uuid.New()),
		Title:           fmt.Sprintf(titles[index%len(titles)], location),
		Description:     description,
		DurationMinutes: totalDuration,
		Stops:           stops,
	}
}
