package rpc

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testTransport(maxRetries uint64) *retryTransport {
	return &retryTransport{
		base:       http.DefaultTransport,
		maxRetries: maxRetries,
		initial:    2 * time.Millisecond,
		cap:        10 * time.Millisecond,
	}
}

func TestRetryTransport_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			http.Error(w, "backend unavailable", http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	client := &http.Client{Transport: testTransport(5)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("unexpected body %q", body)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryTransport_ReplaysRequestBody(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"method":"eth_chainId"}` {
			t.Errorf("attempt %d got body %q", atomic.LoadInt32(&calls)+1, body)
		}
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	client := &http.Client{Transport: testTransport(3)}
	resp, err := client.Post(server.URL, "application/json", strings.NewReader(`{"method":"eth_chainId"}`))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	resp.Body.Close()

	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestRetryTransport_Exhaustion(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "backend unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := &http.Client{Transport: testTransport(2)}
	_, err := client.Get(server.URL) //nolint:bodyclose // no response on failure
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts (initial + 2 retries), got %d", calls)
	}
}

func TestRetryTransport_PassesThroughClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := &http.Client{Transport: testTransport(5)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("4xx should pass through, got %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt for a 4xx, got %d", calls)
	}
}
