// Package notification posts operational alerts to a JSON webhook.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Alert is the webhook payload.
type Alert struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	DealID  uint           `json:"dealId,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	SentAt  time.Time      `json:"sentAt"`
}

const (
	KindSyncFailure   = "payment_split_sync_failure"
	KindMissingSplits = "missing_commission_splits"
)

// Notifier is anything that can deliver an alert.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// Webhook posts alerts to URL. An empty URL makes it a no-op.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (w *Webhook) Notify(ctx context.Context, a Alert) error {
	if w == nil || w.URL == "" {
		return nil
	}
	if a.SentAt.IsZero() {
		a.SentAt = time.Now().UTC()
	}
	body, err := json.Marshal(a)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		log.Printf("[notification] webhook error: %v", err)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

// Nop discards every alert.
type Nop struct{}

func (Nop) Notify(context.Context, Alert) error { return nil }
