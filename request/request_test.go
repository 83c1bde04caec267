package request_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/driftwoodlabs/awaitkit/request"
)

func TestInvoke_PostWithHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Echo-Method", r.Method)
		w.Header().Set("X-Echo-Content-Type", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, "got:%s", body)
	}))
	defer srv.Close()

	resp, err := request.Invoke(context.Background(), request.Request{
		Method: http.MethodPost,
		URL:    srv.URL + "/orders",
		Body:   []byte(`{"id":"ORDER#1"}`),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	if resp.Headers.Get("X-Echo-Method") != http.MethodPost {
		t.Errorf("expected POST to be sent, got %q", resp.Headers.Get("X-Echo-Method"))
	}
	if resp.Headers.Get("X-Echo-Content-Type") != "application/json" {
		t.Error("expected Content-Type header to be forwarded")
	}
	if string(resp.Body) != `got:{"id":"ORDER#1"}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestInvoke_DefaultsToGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Method)
	}))
	defer srv.Close()

	resp, err := request.Invoke(context.Background(), request.Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Body) != http.MethodGet {
		t.Errorf("expected GET, got %q", resp.Body)
	}
}

func TestInvoke_ErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	resp, err := request.Invoke(context.Background(), request.Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 surfaced in response, got %d", resp.StatusCode)
	}
}

func TestInvoke_TimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := request.Invoke(context.Background(), request.Request{
		URL:     srv.URL,
		Timeout: 30 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("timeout did not bound the call")
	}
}

func TestInvoke_MissingURL(t *testing.T) {
	_, err := request.Invoke(context.Background(), request.Request{})
	if !errors.Is(err, request.ErrMissingURL) {
		t.Fatalf("expected ErrMissingURL, got %v", err)
	}
}
