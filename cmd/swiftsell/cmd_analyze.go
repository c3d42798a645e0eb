package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"swiftsell/internal/gen"
	"swiftsell/internal/listing"
	"swiftsell/internal/marketplace"
	"swiftsell/internal/workflow"
)

var (
	analyzeTitle       string
	analyzeDescription string
	analyzePrice       string
	analyzePlatforms   []string
)

// maxImages mirrors the capture limit of the mobile app.
const maxImages = 3

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image]...",
	Short: "Draft a listing from item photos",
	Long: `Sends up to three item photos for analysis and prints the drafted
listing: title, description, and a market-grounded price with its sources.

Pass --platforms to approve the draft (optionally edited via --title,
--description, --price) and publish it in one step:

  swiftsell analyze front.jpg back.jpg --platforms ebay,mercari`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("at least one image is required")
		}
		if len(args) > maxImages {
			return fmt.Errorf("at most %d images are supported, got %d", maxImages, len(args))
		}
		return nil
	},
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	images, err := loadImages(args)
	if err != nil {
		return err
	}

	client, err := gen.NewClient(cmd.Context(), a.cfg)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	delay := 2 * time.Second
	if d, err := time.ParseDuration(a.cfg.Listing.SimulatedDelay); err == nil {
		delay = d
	}
	machine := workflow.NewMachine(client, workflow.NewSimulatedSubmitter(delay))

	fmt.Println("Analyzing photos...")
	if err := machine.Analyze(cmd.Context(), images); err != nil {
		return err
	}

	snap := machine.Snapshot()
	printDraft(snap)

	if len(analyzePlatforms) == 0 {
		return nil
	}

	edited := applyEdits(snap.Item)
	if err := machine.Approve(edited); err != nil {
		return err
	}

	platforms := make([]marketplace.ID, 0, len(analyzePlatforms))
	for _, p := range analyzePlatforms {
		id := marketplace.ID(strings.ToLower(strings.TrimSpace(p)))
		if _, ok := a.registry.Lookup(id); !ok {
			return fmt.Errorf("unknown platform %q (see 'swiftsell platforms')", p)
		}
		platforms = append(platforms, id)
	}

	fmt.Printf("Listing on %d platform(s)...\n", len(platforms))
	if err := machine.List(cmd.Context(), platforms); err != nil {
		return err
	}
	for _, p := range machine.Snapshot().Listed {
		fmt.Printf("  listed on %s\n", p)
	}
	fmt.Println("Done.")
	return nil
}

func loadImages(paths []string) ([]gen.Image, error) {
	images := make([]gen.Image, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", p, err)
		}
		images = append(images, gen.Image{Data: data, MIMEType: mimeForPath(p)})
	}
	return images, nil
}

func mimeForPath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func applyEdits(item listing.ItemData) listing.ItemData {
	if analyzeTitle != "" {
		item.Title = analyzeTitle
	}
	if analyzeDescription != "" {
		item.Description = analyzeDescription
	}
	if analyzePrice != "" {
		item.Price = listing.ParsePrice(analyzePrice)
	}
	return item
}

func printDraft(snap workflow.Snapshot) {
	fmt.Println()
	fmt.Printf("Title:       %s\n", snap.Item.Title)
	fmt.Printf("Price:       $%.2f\n", snap.Item.Price)
	fmt.Printf("Description: %s\n", snap.Item.Description)
	if len(snap.Sources) > 0 {
		fmt.Println("Price sources:")
		for _, s := range snap.Sources {
			fmt.Printf("  - %s (%s)\n", s.Title, s.URI)
		}
	}
	fmt.Println()
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "Override the drafted title before listing")
	analyzeCmd.Flags().StringVar(&analyzeDescription, "description", "", "Override the drafted description before listing")
	analyzeCmd.Flags().StringVar(&analyzePrice, "price", "", "Override the drafted price before listing")
	analyzeCmd.Flags().StringSliceVar(&analyzePlatforms, "platforms", nil, "Approve and list on these platforms (comma-separated)")
	rootCmd.AddCommand(analyzeCmd)
}
