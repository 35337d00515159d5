package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/gradyserv/marketsync/internal/api/client"
)

func revisionsCmd() *cobra.Command {
	var (
		listingID string
		sourceSKU string
		status    string
		limit     int
		offset    int
		stats     bool
	)

	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "Show revision history",
		Example: `  msync revisions
  msync revisions --listing 254123456789 --status failed
  msync revisions --stats`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()

			if stats {
				counts, err := c.RevisionStats(context.Background())
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(counts)
				}
				tw := newTabWriter(os.Stdout)
				for status, n := range counts {
					tw.writef("%s:\t%d\n", status, n)
				}
				return tw.finish()
			}

			page, err := c.ListRevisions(context.Background(), apiclient.RevisionFilter{
				ListingID: listingID,
				SourceSKU: sourceSKU,
				Status:    status,
				Limit:     limit,
				Offset:    offset,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(page)
			}
			if len(page.Revisions) == 0 {
				fmt.Println("No revisions found.")
				return nil
			}
			if err := printRevisionTable(page.Revisions); err != nil {
				return err
			}
			fmt.Printf("Showing %d of %d revisions\n", len(page.Revisions), page.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&listingID, "listing", "", "filter by eBay item ID")
	cmd.Flags().StringVar(&sourceSKU, "sku", "", "filter by source SKU")
	cmd.Flags().StringVar(&status, "status", "", "filter by outcome (succeeded, failed, offer_sync_failed)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.Flags().BoolVar(&stats, "stats", false, "show counts by outcome instead of history")

	return cmd
}
