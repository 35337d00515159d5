package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apiclient "github.com/gradyserv/marketsync/internal/api/client"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printMappingTable(mappings []domain.SyncMapping) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSKU\tLISTING\tVARIATION\tPRICE\tENABLED\tLAST SYNC\n")
	for i := range mappings {
		m := &mappings[i]
		variation := "-"
		if m.VariationName != "" {
			variation = m.VariationName + "=" + m.VariationValue
		}
		lastSync := "never"
		if m.LastSyncedAt != nil {
			lastSync = m.LastSyncedAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("%s\t%s\t%s\t%s\t%v\t%v\t%s\n",
			m.ID,
			m.SourceSKU,
			m.ListingID,
			variation,
			m.SyncPrice,
			m.Enabled,
			lastSync,
		)
	}
	return tw.finish()
}

func printMappingDetail(m *domain.SyncMapping) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", m.ID)
	tw.writef("Source SKU:\t%s\n", m.SourceSKU)
	tw.writef("Listing:\t%s\n", m.ListingID)
	tw.writef("Offer:\t%s\n", m.OfferID)
	if m.VariationName != "" {
		tw.writef("Variation:\t%s=%s\n", m.VariationName, m.VariationValue)
	}
	tw.writef("Sync Price:\t%v\n", m.SyncPrice)
	tw.writef("Enabled:\t%v\n", m.Enabled)
	if m.LastSyncedAt != nil {
		tw.writef("Last Sync:\t%s\n", m.LastSyncedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.finish()
}

func printRevisionTable(revisions []domain.RevisionRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("LISTING\tSKU\tQTY\tPRICE\tSTRATEGY\tSTATUS\tWHEN\tERROR\n")
	for i := range revisions {
		r := &revisions[i]
		price := "-"
		if r.Price != nil {
			price = fmt.Sprintf("$%.2f", *r.Price)
		}
		tw.writef("%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ListingID,
			r.SourceSKU,
			r.Quantity,
			price,
			r.Strategy,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func printQuota(q *apiclient.QuotaStatus) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Daily Limit:\t%d\n", q.DailyLimit)
	tw.writef("Daily Used:\t%d\n", q.DailyUsed)
	tw.writef("Remaining:\t%d\n", q.Remaining)
	tw.writef("Resets At:\t%s\n", q.ResetAt.Format("2006-01-02 15:04:05 MST"))
	tw.writef("Queue Depth:\t%d\n", q.QueueDepth)
	tw.writef("Cached Items:\t%d\n", q.CachedItems)
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
