package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/bluberry/internal/metrics"
)

const (
	colorGreen = 0x2ECC71 // closed
	colorRed   = 0xE74C3C // open
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
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendBreakerEvent sends a breaker state change as a Discord embed.
func (d *DiscordNotifier) SendBreakerEvent(ctx context.Context, event *BreakerEvent) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(event)},
	}
	return d.post(ctx, payload)
}

func buildEmbed(event *BreakerEvent) discordEmbed {
	embed := discordEmbed{
		Fields: []discordEmbedField{
			{Name: "Service", Value: event.Service, Inline: true},
			{Name: "Failures", Value: fmt.Sprintf("%d", event.FailureCount), Inline: true},
		},
	}

	if event.Open {
		embed.Title = fmt.Sprintf("Circuit open: %s", event.Service)
		embed.Color = colorRed
		embed.Description = "Estimates are skipping this service and using the next stage of the cascade."
	} else {
		embed.Title = fmt.Sprintf("Circuit closed: %s", event.Service)
		embed.Color = colorGreen
		embed.Description = "The service is back in the estimation cascade."
	}

	if !event.LastFailureAt.IsZero() {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:   "Last failure",
			Value:  event.LastFailureAt.UTC().Format(time.RFC3339),
			Inline: true,
		})
	}
	if !event.At.IsZero() {
		embed.Timestamp = event.At.UTC().Format(time.RFC3339)
	}

	return embed
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
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
