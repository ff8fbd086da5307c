package grok

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sseServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, frame := range frames {
			fmt.Fprintf(w, "data: %s\n\n", frame)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestStreamDecodesDeltas(t *testing.T) {
	srv := sseServer(t, []string{
		`{"choices":[{"delta":{"content":"## Hi"}}]}`,
		`{"choices":[{"delta":{"content":"\n\nthis is "}}]}`,
		`{"choices":[{"delta":{"content":"*nice*"}}]}`,
	})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "grok-test")
	var chunks []string
	err := c.Stream(context.Background(), GenerateMessages("write", "My note", "- intro"), func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(chunks, ""); got != "## Hi\n\nthis is *nice*" {
		t.Errorf("unexpected assembled stream: %q", got)
	}
	if len(chunks) != 3 {
		t.Errorf("expected 3 chunks in arrival order, got %d", len(chunks))
	}
}

func TestStreamCallbackErrorStopsReading(t *testing.T) {
	srv := sseServer(t, []string{
		`{"choices":[{"delta":{"content":"one"}}]}`,
		`{"choices":[{"delta":{"content":"two"}}]}`,
	})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	wantErr := fmt.Errorf("stop")
	var seen int
	err := c.Stream(context.Background(), SummarizeMessages("x"), func(string) error {
		seen++
		return wantErr
	})
	if err != wantErr {
		t.Errorf("expected callback error, got %v", err)
	}
	if seen != 1 {
		t.Errorf("reading continued after callback error: %d chunks", seen)
	}
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "A short summary."}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	got, err := c.Complete(context.Background(), SummarizeMessages("long text"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "A short summary." {
		t.Errorf("unexpected completion: %q", got)
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key", "")
	_, err := c.Complete(context.Background(), SummarizeMessages("x"))
	if err == nil || !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("expected api error message, got %v", err)
	}
}
