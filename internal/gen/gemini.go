package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"swiftsell/internal/config"
	"swiftsell/internal/listing"
	"swiftsell/internal/logging"
)

// GeminiClient implements Client against the Gemini API. Description uses
// strict structured output; pricing uses the Google Search tool so the
// estimate comes back with grounding citations.
type GeminiClient struct {
	client      *genai.Client
	chatModel   string
	searchModel string
}

// NewGeminiClient creates a client from the configured credential and models.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	if cfg.Credentials.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	timeout := 2 * time.Minute
	if d, err := time.ParseDuration(cfg.Gen.Timeout); err == nil && d > 0 {
		timeout = d
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.Credentials.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		chatModel:   cfg.Gen.ChatModel,
		searchModel: cfg.Gen.SearchModel,
	}, nil
}

func imageParts(images []Image) []*genai.Part {
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	return parts
}

// Describe requests a strict {title, description} object for the item.
func (g *GeminiClient) Describe(ctx context.Context, images []Image) (Description, error) {
	start := time.Now()
	parts := append(imageParts(images), genai.NewPartFromText(describePrompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.chatModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":       {Type: genai.TypeString, Description: "Catchy product title, under 80 characters."},
				"description": {Type: genai.TypeString, Description: "Detailed and persuasive product description."},
			},
			Required: []string{"title", "description"},
		},
		Temperature: genai.Ptr[float32](0.3),
		TopP:        genai.Ptr[float32](0.8),
		TopK:        genai.Ptr[float32](40),
	})
	if err != nil {
		logging.GenError("Describe failed after %v: %v", time.Since(start), err)
		return Description{}, fmt.Errorf("description request failed: %w", err)
	}

	desc, err := parseDescription(resp.Text())
	if err != nil {
		return Description{}, err
	}
	logging.Gen("Describe completed in %v title_len=%d", time.Since(start), len(desc.Title))
	return desc, nil
}

// parseDescription parses the backend's structured output. Unparseable output
// is a MalformedResponse surfaced to the caller, never retried here.
func parseDescription(text string) (Description, error) {
	var desc Description
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &desc); err != nil {
		logging.GenError("Describe returned unparseable JSON: %v", err)
		return Description{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return desc, nil
}

// EstimatePrice requests a bare decimal price with web grounding. Price text
// that fails to reduce to a number degrades to 0 rather than failing.
func (g *GeminiClient) EstimatePrice(ctx context.Context, images []Image) (float64, []listing.Source, error) {
	start := time.Now()
	parts := append(imageParts(images), genai.NewPartFromText(pricePrompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.searchModel, contents, &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature: genai.Ptr[float32](0.2),
		TopP:        genai.Ptr[float32](0.7),
		TopK:        genai.Ptr[float32](30),
	})
	if err != nil {
		logging.GenError("EstimatePrice failed after %v: %v", time.Since(start), err)
		return 0, nil, fmt.Errorf("price request failed: %w", err)
	}

	price := SanitizePrice(resp.Text())
	sources := groundingSources(resp)
	logging.Gen("EstimatePrice completed in %v price=%.2f sources=%d", time.Since(start), price, len(sources))
	return price, sources, nil
}

// groundingSources extracts title+URI citation pairs from the response.
func groundingSources(resp *genai.GenerateContentResponse) []listing.Source {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}
	var sources []listing.Source
	for _, chunk := range gm.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		sources = append(sources, listing.Source{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return sources
}
