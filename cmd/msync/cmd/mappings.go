package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/gradyserv/marketsync/pkg/types"
)

func mappingsCmd() *cobra.Command {
	mappingsRoot := &cobra.Command{
		Use:   "mappings",
		Short: "Manage SKU-to-listing mappings",
		Long: "Manage the mappings that tie a source marketplace SKU to an eBay\n" +
			"listing (optionally one variation of it) for scheduled price and\n" +
			"quantity sync.",
	}

	mappingsRoot.AddCommand(
		mappingListCmd(),
		mappingGetCmd(),
		mappingCreateCmd(),
		mappingEnableCmd(),
		mappingDisableCmd(),
		mappingDeleteCmd(),
	)

	return mappingsRoot
}

func mappingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all mappings",
		Example: `  msync mappings list
  msync mappings list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			mappings, err := c.ListMappings(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(mappings)
			}
			if len(mappings) == 0 {
				fmt.Println("No mappings found.")
				return nil
			}
			return printMappingTable(mappings)
		},
	}
}

func mappingGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show mapping details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			m, err := c.GetMapping(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(m)
			}
			return printMappingDetail(m)
		},
	}
}

func mappingCreateCmd() *cobra.Command {
	var (
		sourceSKU      string
		listingID      string
		offerID        string
		variationName  string
		variationValue string
		syncPrice      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new mapping",
		Example: `  # Quantity-only sync for a simple listing
  msync mappings create --sku AMZ-B07XYZ --listing 254123456789

  # Price and quantity sync for one variation
  msync mappings create --sku AMZ-B07XYZ-L --listing 254123456789 \
    --variation-name Size --variation-value Large --sync-price`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if sourceSKU == "" || listingID == "" {
				return fmt.Errorf("--sku and --listing are required")
			}
			m := &domain.SyncMapping{
				SourceSKU:      sourceSKU,
				ListingID:      listingID,
				OfferID:        offerID,
				VariationName:  variationName,
				VariationValue: variationValue,
				SyncPrice:      syncPrice,
				Enabled:        true,
			}
			c := newClient()
			created, err := c.CreateMapping(context.Background(), m)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Println("Created mapping", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceSKU, "sku", "", "source marketplace SKU")
	cmd.Flags().StringVar(&listingID, "listing", "", "eBay item ID")
	cmd.Flags().StringVar(&offerID, "offer", "", "Inventory API offer ID")
	cmd.Flags().StringVar(&variationName, "variation-name", "", "variation axis name")
	cmd.Flags().StringVar(&variationValue, "variation-value", "", "variation axis value")
	cmd.Flags().BoolVar(&syncPrice, "sync-price", false, "also sync the price")

	return cmd
}

func mappingEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable a mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.SetMappingEnabled(context.Background(), args[0], true); err != nil {
				return err
			}
			fmt.Println("Enabled mapping", args[0])
			return nil
		},
	}
}

func mappingDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable a mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.SetMappingEnabled(context.Background(), args[0], false); err != nil {
				return err
			}
			fmt.Println("Disabled mapping", args[0])
			return nil
		},
	}
}

func mappingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteMapping(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted mapping", args[0])
			return nil
		},
	}
}
