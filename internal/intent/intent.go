// Package intent turns free-text trip requests into structured search
// parameters using an external LLM. It is a peripheral collaborator: the
// planner never depends on it, and the service runs fine without it when no
// API key is configured.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

const defaultModel = "gemini-2.0-flash"

const extractionPrompt = `Extract trip planning intent from the user's message.
Respond with ONLY a JSON object, no prose, with these fields:
  "location": string, the neighborhood or address the user wants to explore (required)
  "categories": array of strings among ["Restaurant","Cafe","Bakery","Park","Attraction","Museum","Gallery","Shopping","Shop","Bookstore","Library","Landmark"], only if the user expressed preferences
  "max_price_level": one of "10-20", "20-50", "50+" if the user mentioned a budget, else omit
  "max_distance_miles": number if the user mentioned how far they want to walk, else omit

User message: %q`

// Extractor distills a TripIntent from free text.
type Extractor interface {
	ExtractIntent(ctx context.Context, text string) (*types.TripIntent, error)
}

var _ Extractor = (*GeminiExtractor)(nil)

// GeminiExtractor implements Extractor against the Gemini API.
type GeminiExtractor struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewGeminiExtractor(ctx context.Context, apiKey string, logger *slog.Logger) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiExtractor{client: client, model: defaultModel, logger: logger}, nil
}

func (e *GeminiExtractor) ExtractIntent(ctx context.Context, text string) (*types.TripIntent, error) {
	prompt := fmt.Sprintf(extractionPrompt, text)
	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generating intent: %w", err)
	}

	intent, err := parseIntentJSON(result.Text())
	if err != nil {
		e.logger.WarnContext(ctx, "intent response did not parse",
			slog.String("response", result.Text()), slog.Any("error", err))
		return nil, err
	}
	if intent.Location == "" {
		return nil, fmt.Errorf("no location in extracted intent")
	}
	return intent, nil
}

// parseIntentJSON tolerates the model wrapping its JSON in markdown fences.
func parseIntentJSON(text string) (*types.TripIntent, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var intent types.TripIntent
	if err := json.Unmarshal([]byte(cleaned), &intent); err != nil {
		return nil, fmt.Errorf("unmarshaling intent: %w", err)
	}
	return &intent, nil
}
