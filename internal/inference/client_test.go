package inference

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerate(t *testing.T) {
	var gotReq GenerateRequest
	var gotAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode([]GenerateResult{{GeneratedText: "a helpful answer"}})
	}))
	defer ts.Close()

	c := NewClient("hf-token", ts.URL, testLogger())

	got, err := c.Generate(context.Background(), "some prompt", "corr-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "a helpful answer" {
		t.Errorf("expected generated text, got %q", got)
	}
	if gotAuth != "Bearer hf-token" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}

	wantReq := GenerateRequest{
		Inputs: "some prompt",
		Parameters: Parameters{
			MaxLength:   150,
			Temperature: 0.7,
		},
		Options: Options{WaitForModel: true},
	}
	if diff := cmp.Diff(wantReq, gotReq); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Model microsoft/DialoGPT-large is currently loading"}`, http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient("hf-token", ts.URL, testLogger())

	if _, err := c.Generate(context.Background(), "some prompt", "corr-1"); err == nil {
		t.Fatal("expected error on 503 response")
	}
}

func TestGenerateEmptyResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]GenerateResult{})
	}))
	defer ts.Close()

	c := NewClient("hf-token", ts.URL, testLogger())

	if _, err := c.Generate(context.Background(), "some prompt", "corr-1"); err == nil {
		t.Fatal("expected error on empty result list")
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_text": "not a list"}`))
	}))
	defer ts.Close()

	c := NewClient("hf-token", ts.URL, testLogger())

	if _, err := c.Generate(context.Background(), "some prompt", "corr-1"); err == nil {
		t.Fatal("expected error on non-list response")
	}
}
