package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Call(t *testing.T) {
	var gotMethod string
	var gotParams map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/call" {
			t.Errorf("path = %q, want /call", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}

		var req callRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotMethod = req.Method
		gotParams = req.Params

		json.NewEncoder(w).Encode(Response{OK: true, Result: map[string]any{"count": 3}})
	}))
	defer server.Close()

	registry := NewRegistry()
	registry.Register("gmail", server.URL)
	client := NewClient(registry, testLogger())

	resp, err := client.Call(context.Background(), "gmail", "gmail.unread", map[string]any{"limit": float64(5)})
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}

	if gotMethod != "gmail.unread" {
		t.Errorf("method = %q", gotMethod)
	}
	if gotParams["limit"] != float64(5) {
		t.Errorf("params limit = %#v", gotParams["limit"])
	}
	if !resp.OK {
		t.Error("OK should be true")
	}
	result, ok := resp.Result.(map[string]any)
	if !ok || result["count"] != float64(3) {
		t.Errorf("Result = %#v", resp.Result)
	}
}

func TestClient_Call_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{OK: false, Error: &CallError{Message: "mailbox locked"}})
	}))
	defer server.Close()

	registry := NewRegistry()
	registry.Register("gmail", server.URL)
	client := NewClient(registry, testLogger())

	resp, err := client.Call(context.Background(), "gmail", "gmail.unread", nil)
	if err != nil {
		t.Fatalf("логическая ошибка сервиса — не транспортная: %v", err)
	}
	if resp.OK {
		t.Error("OK should be false")
	}
	if resp.Error == nil || resp.Error.Message != "mailbox locked" {
		t.Errorf("Error = %+v", resp.Error)
	}
}

func TestClient_Call_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal failure", http.StatusInternalServerError)
	}))
	defer server.Close()

	registry := NewRegistry()
	registry.Register("browser", server.URL)
	client := NewClient(registry, testLogger())

	_, err := client.Call(context.Background(), "browser", "browser.open", nil)
	if !errors.Is(err, ErrCallFailed) {
		t.Errorf("error should wrap ErrCallFailed: %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should mention status: %v", err)
	}
}

func TestClient_Call_UnknownService(t *testing.T) {
	client := NewClient(NewRegistry(), testLogger())

	_, err := client.Call(context.Background(), "ghost", "ghost.m", nil)
	if !errors.Is(err, ErrUnknownService) {
		t.Errorf("error should wrap ErrUnknownService: %v", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name the service: %v", err)
	}
}

func TestRegistryFromEnv(t *testing.T) {
	t.Setenv("SERVICES", "gmail=http://localhost:7701/, browser=http://localhost:7702,bad-entry,=empty")

	r := RegistryFromEnv()

	endpoint, ok := r.Endpoint("gmail")
	if !ok || endpoint != "http://localhost:7701" {
		t.Errorf("gmail endpoint = %q, %v", endpoint, ok)
	}
	if _, ok := r.Endpoint("browser"); !ok {
		t.Error("browser should be registered")
	}
	if len(r.Services()) != 2 {
		t.Errorf("Services = %v", r.Services())
	}
}
