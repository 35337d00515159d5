package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/gradyserv/marketsync/internal/api/client"
)

func reviseCmd() *cobra.Command {
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
		Short: "Revise a single listing through the server",
		Example: `  msync revise --listing 254123456789 --quantity 12
  msync revise --listing 254123456789 --price 19.99 --quantity 12 --sku AMZ-B07XYZ`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listingID == "" {
				return fmt.Errorf("--listing is required")
			}

			req := apiclient.ReviseRequest{
				ListingID:      listingID,
				Quantity:       quantity,
				SourceSKU:      sourceSKU,
				OfferID:        offerID,
				VariationName:  variationName,
				VariationValue: variationValue,
			}
			if cmd.Flags().Changed("price") {
				req.Price = &price
			}

			c := newClient()
			r, err := c.Revise(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(r)
			}
			fmt.Printf("Revised %s via %s: %s\n", listingID, r.Strategy, r.Status)
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
