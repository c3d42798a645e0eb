package gen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"swiftsell/internal/listing"
	"swiftsell/internal/logging"
)

// Result is the merged output of one analysis: the listing draft plus the
// grounding citations behind its price.
type Result struct {
	Item    listing.ItemData
	Sources []listing.Source
}

// AnalyzeImages composes Describe and EstimatePrice over the same image set.
// The two calls are independent; both must complete before returning. Fails
// immediately with ErrNoImages on an empty image list.
func AnalyzeImages(ctx context.Context, c Client, images []Image) (Result, error) {
	if len(images) == 0 {
		return Result{}, ErrNoImages
	}

	var (
		desc    Description
		price   float64
		sources []listing.Source
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		desc, err = c.Describe(ctx, images)
		return err
	})
	g.Go(func() error {
		var err error
		price, sources, err = c.EstimatePrice(ctx, images)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	logging.Gen("Analysis complete: title=%q price=%.2f sources=%d", desc.Title, price, len(sources))
	return Result{
		Item: listing.ItemData{
			Title:       desc.Title,
			Description: desc.Description,
			Price:       price,
		},
		Sources: sources,
	}, nil
}
