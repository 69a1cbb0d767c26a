package channel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/aquafit/pixreminder/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestResolveRecipientFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/contacts/5511999990000" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(resolveResponse{Phone: "5511999990000", JID: "5511999990000@c.us"})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	jid, err := client.ResolveRecipient(context.Background(), "5511999990000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jid != "5511999990000@c.us" {
		t.Fatalf("unexpected recipient %q", jid)
	}
}

func TestResolveRecipientNotOnChannel(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "empty jid",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(resolveResponse{Phone: "551100"})
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client, err := NewHTTPClient(server.URL, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}
			if _, err := client.ResolveRecipient(context.Background(), "551100"); !errors.Is(err, domainErrors.ErrUnreachableRecipient) {
				t.Fatalf("expected unreachable recipient error, got %v", err)
			}
		})
	}
}

func TestResolveRecipientRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.ResolveRecipient(context.Background(), "551100")
	var rateErr RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected rate limited error, got %v", err)
	}
	if rateErr.RetryAfter != 7*time.Second {
		t.Fatalf("expected retry after 7s, got %v", rateErr.RetryAfter)
	}
}

func TestSendSuccessAndFailure(t *testing.T) {
	var gotBody sendRequest
	var gotIdempotencyKey string
	status := http.StatusCreated
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/messages" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		gotIdempotencyKey = r.Header.Get("Idempotency-Key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(status)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Send(context.Background(), "551100@c.us", "oi"); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if gotBody.Recipient != "551100@c.us" || gotBody.Text != "oi" {
		t.Fatalf("unexpected request body %+v", gotBody)
	}
	if gotIdempotencyKey == "" {
		t.Fatal("expected idempotency key header to be set")
	}

	status = http.StatusInternalServerError
	if err := client.Send(context.Background(), "551100@c.us", "oi"); err == nil {
		t.Fatal("expected error for gateway failure")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 5*time.Second {
		t.Fatalf("expected default 5s, got %v", got)
	}
	if got := parseRetryAfter("12"); got != 12*time.Second {
		t.Fatalf("expected 12s, got %v", got)
	}
	if got := parseRetryAfter("garbage"); got != 5*time.Second {
		t.Fatalf("expected fallback 5s, got %v", got)
	}
}
