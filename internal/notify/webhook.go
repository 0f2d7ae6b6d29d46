// Package notify pushes JSON events (daily summaries, low-stock alerts)
// to an operator-configured webhook. Notifications are best-effort: a
// delivery failure is logged by the caller and never blocks a sale.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Notifier is the outbound alert contract used by the scheduler.
type Notifier interface {
	Send(ctx context.Context, event string, payload any) error
}

// Webhook is a resty-backed Notifier posting to a single URL.
type Webhook struct {
	httpClient *resty.Client
	url        string
}

var _ Notifier = (*Webhook)(nil)

func NewWebhook(url string) *Webhook {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &Webhook{httpClient: client, url: url}
}

func (w *Webhook) Send(ctx context.Context, event string, payload any) error {
	body := map[string]any{
		"event":   event,
		"payload": payload,
		"sent_at": time.Now().Format(time.RFC3339),
	}

	resp, err := w.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("send webhook %s: %w", event, err)
	}
	if resp.IsError() {
		return fmt.Errorf("send webhook %s: status %d", event, resp.StatusCode())
	}
	return nil
}
