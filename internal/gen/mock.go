package gen

import (
	"context"

	"swiftsell/internal/listing"
)

// MockClient returns fixed placeholder content. Substituted whenever no
// backend credential is configured so the capture-to-listing flow works in
// demos and tests without network access.
type MockClient struct{}

// NewMockClient returns the deterministic placeholder client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// MockTitle is the placeholder listing title, fixed so tests and demo flows
// can assert on it.
const MockTitle = "Premium Quality Item - Great Condition"

const mockDescription = "This is a high-quality item in excellent condition. " +
	"Perfect for collectors or everyday use. Features include durable construction, " +
	"attractive design, and great functionality. Don't miss this opportunity to own " +
	"this fantastic piece!"

// Describe returns the canned title and description.
func (m *MockClient) Describe(ctx context.Context, images []Image) (Description, error) {
	return Description{
		Title:       MockTitle,
		Description: mockDescription,
	}, nil
}

// EstimatePrice returns the canned price with two fixed placeholder sources.
func (m *MockClient) EstimatePrice(ctx context.Context, images []Image) (float64, []listing.Source, error) {
	return 25.00, []listing.Source{
		{Title: "Similar Item on eBay", URI: "https://ebay.com/example"},
		{Title: "Amazon Listing", URI: "https://amazon.com/example"},
	}, nil
}
