package gen

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"swiftsell/internal/listing"
)

func TestSanitizePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"25.99", 25.99},
		{"$25.99", 25.99},
		{"around $30", 30},
		{"USD 1,250.50", 1250.50},
		{"twenty", 0},
		{"", 0},
		{"1.2.3", 0},
		{"-15", 15},
	}
	for _, tc := range cases {
		if got := SanitizePrice(tc.in); got != tc.want {
			t.Errorf("SanitizePrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDescription(t *testing.T) {
	desc, err := parseDescription(`  {"title": "Vintage Lamp", "description": "Brass, works."}  `)
	if err != nil {
		t.Fatalf("parseDescription: %v", err)
	}
	if desc.Title != "Vintage Lamp" || desc.Description != "Brass, works." {
		t.Errorf("unexpected description: %+v", desc)
	}
}

func TestParseDescriptionMalformed(t *testing.T) {
	for _, in := range []string{"", "not json", `["array"]`} {
		if _, err := parseDescription(in); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("parseDescription(%q) error = %v, want ErrMalformedResponse", in, err)
		}
	}
}

func TestAnalyzeImagesEmpty(t *testing.T) {
	_, err := AnalyzeImages(context.Background(), NewMockClient(), nil)
	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("error = %v, want ErrNoImages", err)
	}
}

func TestAnalyzeImagesMockBundle(t *testing.T) {
	images := []Image{{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"}}
	result, err := AnalyzeImages(context.Background(), NewMockClient(), images)
	if err != nil {
		t.Fatalf("AnalyzeImages: %v", err)
	}

	if result.Item.Title != MockTitle {
		t.Errorf("title = %q, want %q", result.Item.Title, MockTitle)
	}
	if result.Item.Price != 25.00 {
		t.Errorf("price = %v, want 25.00", result.Item.Price)
	}
	if result.Item.Description == "" {
		t.Error("description is empty")
	}

	wantSources := []listing.Source{
		{Title: "Similar Item on eBay", URI: "https://ebay.com/example"},
		{Title: "Amazon Listing", URI: "https://amazon.com/example"},
	}
	if diff := cmp.Diff(wantSources, result.Sources); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

type failingClient struct {
	describeErr error
	priceErr    error
}

func (f failingClient) Describe(ctx context.Context, images []Image) (Description, error) {
	return Description{Title: "ok"}, f.describeErr
}

func (f failingClient) EstimatePrice(ctx context.Context, images []Image) (float64, []listing.Source, error) {
	return 10, nil, f.priceErr
}

func TestAnalyzeImagesPropagatesFailure(t *testing.T) {
	boom := errors.New("backend unavailable")
	images := []Image{{Data: []byte{1}, MIMEType: "image/png"}}

	for name, c := range map[string]Client{
		"describe": failingClient{describeErr: boom},
		"price":    failingClient{priceErr: boom},
	} {
		if _, err := AnalyzeImages(context.Background(), c, images); !errors.Is(err, boom) {
			t.Errorf("%s failure: error = %v, want wrapped backend error", name, err)
		}
	}
}
