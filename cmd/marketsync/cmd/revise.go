package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gradyserv/marketsync/internal/config"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

func reviseCommand() *cobra.Command {
	var (
		listingID      string
		price          float64
		quantity       int
		sourceSKU      string
		offerID        string
		variationName  string
		variationValue string
	)

	cmd := &cobra.Command{
		Use:   "revise",
		Short: "Revise a single listing and exit",
		Example: `  # Quantity only
  marketsync revise --listing 254123456789 --quantity 12

  # Price and quantity for a SKU-tracked listing
  marketsync revise --listing 254123456789 --price 19.99 --quantity 12 --sku AMZ-B07XYZ

  # A single variation
  marketsync revise --listing 254123456789 --quantity 4 \
    --variation-name Size --variation-value Large`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listingID == "" {
				return fmt.Errorf("--listing is required")
			}

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			logger := newCLILogger(cfg.Logging.Level)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			app, err := buildApp(ctx, cfg)
			cancel()
			if err != nil {
				return err
			}
			defer app.close()

			req := domain.RevisionRequest{
				ParentListingID: listingID,
				Quantity:        quantity,
				SourceSKU:       sourceSKU,
				OfferID:         offerID,
				VariationName:   variationName,
				VariationValue:  variationValue,
			}
			if cmd.Flags().Changed("price") {
				req.Price = &price
			}

			strategy, err := app.engine.ReviseOne(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("revising listing %s: %w", listingID, err)
			}

			logger.Info("revision complete",
				"listing_id", listingID,
				"strategy", strategy,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&listingID, "listing", "", "eBay item ID to revise")
	cmd.Flags().Float64Var(&price, "price", 0, "new fixed price; omit to leave unchanged")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new available quantity")
	cmd.Flags().StringVar(&sourceSKU, "sku", "", "seller SKU for SKU-tracked listings")
	cmd.Flags().StringVar(&offerID, "offer", "", "Inventory API offer to mirror the quantity into")
	cmd.Flags().StringVar(&variationName, "variation-name", "", "variation axis name")
	cmd.Flags().StringVar(&variationValue, "variation-value", "", "variation axis value")

	return cmd
}

func init() {
	rootCmd.AddCommand(reviseCommand())
}
