package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookPostsJSON(t *testing.T) {
	var got Alert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).Notify(context.Background(), Alert{Kind: KindSyncFailure, Message: "2 ops failed", DealID: 7})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got.Kind != KindSyncFailure || got.DealID != 7 || got.SentAt.IsZero() {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestWebhookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	if err := NewWebhook(srv.URL).Notify(context.Background(), Alert{}); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestEmptyURLIsNoop(t *testing.T) {
	if err := NewWebhook("").Notify(context.Background(), Alert{}); err != nil {
		t.Fatalf("expected nil got %v", err)
	}
}
