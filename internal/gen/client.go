// Package gen is the content generation client: it turns captured item
// photos into a listing draft (title, description, price, grounding sources)
// by calling a generative backend. All backend specifics stay behind the
// Client interface; when no API key is configured a deterministic mock takes
// its place so the rest of the application stays exercisable offline.
package gen

import (
	"context"
	"errors"

	"swiftsell/internal/config"
	"swiftsell/internal/listing"
	"swiftsell/internal/logging"
)

var (
	// ErrNoImages is returned when analysis is requested with no images.
	ErrNoImages = errors.New("no images provided for analysis")

	// ErrMalformedResponse is returned when the backend's description output
	// cannot be parsed as the expected {title, description} object. Surfaced
	// to the caller rather than retried silently.
	ErrMalformedResponse = errors.New("the AI returned an invalid format for the item description")
)

// Image is one captured photo, ready to send inline.
type Image struct {
	Data     []byte
	MIMEType string
}

// Description is the text half of a listing draft.
type Description struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Client isolates the generative backend behind two operations.
type Client interface {
	// Describe generates a product title (soft cap ~80 characters) and a
	// persuasive description for the item in the images.
	Describe(ctx context.Context, images []Image) (Description, error)

	// EstimatePrice returns a secondhand market price for the item, with any
	// grounding citations the backend produced. A price the backend failed to
	// express numerically is reported as 0, never as an error.
	EstimatePrice(ctx context.Context, images []Image) (float64, []listing.Source, error)
}

// NewClient returns the live backend client, or the deterministic mock when
// no API key is configured. The mock fallback is a first-class contract, not
// a debugging aid: the whole workflow must run without live network access.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	if cfg.Credentials.GeminiAPIKey == "" {
		logging.Gen("No backend credential configured; using mock content client")
		return NewMockClient(), nil
	}
	return NewGeminiClient(ctx, cfg)
}
