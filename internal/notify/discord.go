package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gradyserv/marketsync/internal/metrics"
	domain "github.com/gradyserv/marketsync/pkg/types"
)

const (
	colorRed    = 0xE74C3C // hard failures
	colorOrange = 0xE67E22 // offer sync failures
	colorGreen  = 0x2ECC71 // clean sync pass
	colorYellow = 0xF1C40F // sync pass with failures
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendFailure sends one failed revision as a Discord embed.
func (d *DiscordNotifier) SendFailure(ctx context.Context, failure *FailurePayload) error {
	embed := discordEmbed{
		Title:       fmt.Sprintf("Revision failed: listing %s", failure.ListingID),
		Color:       failureColor(failure),
		Description: failure.ErrorText,
		Fields: []discordEmbedField{
			{Name: "SKU", Value: orDash(failure.SourceSKU), Inline: true},
			{Name: "Strategy", Value: string(failure.Strategy), Inline: true},
			{Name: "Quantity", Value: fmt.Sprintf("%d", failure.Quantity), Inline: true},
		},
	}
	if failure.Price != nil {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name: "Price", Value: fmt.Sprintf("%.2f", *failure.Price), Inline: true,
		})
	}

	return d.post(ctx, discordWebhookPayload{Embeds: []discordEmbed{embed}})
}

// SendSyncSummary reports the outcome of a sync pass.
func (d *DiscordNotifier) SendSyncSummary(ctx context.Context, summary SyncSummary) error {
	color := colorGreen
	if summary.Failed > 0 {
		color = colorYellow
	}

	embed := discordEmbed{
		Title: "Sync pass complete",
		Color: color,
		Fields: []discordEmbedField{
			{Name: "Mappings", Value: fmt.Sprintf("%d", summary.Total), Inline: true},
			{Name: "Succeeded", Value: fmt.Sprintf("%d", summary.Succeeded), Inline: true},
			{Name: "Failed", Value: fmt.Sprintf("%d", summary.Failed), Inline: true},
			{Name: "Duration", Value: summary.Duration, Inline: true},
		},
	}

	return d.post(ctx, discordWebhookPayload{Embeds: []discordEmbed{embed}})
}

func failureColor(failure *FailurePayload) int {
	if failure.Status == domain.RevisionOfferSyncFailed {
		return colorOrange
	}
	return colorRed
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.NotificationFailuresTotal.Inc()
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
