package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
)

func TestPostJSONRetriesRateLimit(t *testing.T) {
	var count int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request: %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if atomic.AddInt32(&count, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := New(2*time.Second, 1)
	var out map[string]any
	if err := client.PostJSON(context.Background(), srv.URL, map[string]string{"a": "b"}, &out); err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}
	if out["ok"] != true {
		t.Fatalf("unexpected response: %#v", out)
	}
	if atomic.LoadInt32(&count) != 2 {
		t.Fatalf("expected 2 requests, got %d", count)
	}
}

func TestPostJSONDecodesServerErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","error":{"message":"Server error"}}`))
	}))
	defer srv.Close()

	var out struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := New(time.Second, 0).PostJSON(context.Background(), srv.URL, nil, &out); err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}
	if out.Error.Message != "Server error" {
		t.Fatalf("unexpected body: %#v", out)
	}
}

func TestPostJSONUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := New(time.Second, 2).PostJSON(context.Background(), srv.URL, nil, nil)
	if err == nil || !clierr.Is(err, clierr.CodeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
