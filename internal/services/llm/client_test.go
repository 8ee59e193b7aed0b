package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type genreReply struct {
	Family     string  `json:"family"`
	Confidence float64 `json:"confidence"`
}

func choiceServer(t *testing.T, choice func(call int) map[string]any) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		payload := map[string]any{"choices": []any{choice(calls)}}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func quietClient(url string, opts ...Option) *Client {
	base := []Option{WithRetryBackoff(0, 0), WithSleeper(func(time.Duration) {})}
	return NewClient(Config{APIKey: "test", BaseURL: url, Model: "demo-model"}, append(base, opts...)...)
}

func TestClientHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain", `{"ok":true}`},
		{"code fence", "```json\n{\"ok\":true}\n```"},
		{"prose", "Sure! {\"ok\":true} hope that helps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := choiceServer(t, func(int) map[string]any {
				return map[string]any{"message": map[string]any{"content": tt.content}}
			})
			if err := quietClient(server.URL).HealthCheck(context.Background()); err != nil {
				t.Fatalf("HealthCheck returned error: %v", err)
			}
		})
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{Model: "demo"})
	if _, err := client.CompleteJSON(context.Background(), "sys", "user"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if client.cfg.BaseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %q", client.cfg.BaseURL)
	}
}

func TestCompleteIntoAlternatePayloadShapes(t *testing.T) {
	tests := []struct {
		name   string
		choice map[string]any
	}{
		{"message", map[string]any{"message": map[string]any{"content": `{"family":"House","confidence":0.8}`}}},
		{"delta", map[string]any{"delta": map[string]any{"content": `{"family":"House","confidence":0.8}`}}},
		{"legacy text", map[string]any{"finish_reason": "stop", "text": `{"family":"House","confidence":0.8}`}},
		{"tool call", map[string]any{
			"finish_reason": "tool_calls",
			"message": map[string]any{
				"content": "",
				"tool_calls": []any{map[string]any{
					"type":     "function",
					"function": map[string]any{"name": "classify", "arguments": `{"family":"House","confidence":0.8}`},
				}},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := choiceServer(t, func(int) map[string]any { return tt.choice })
			var reply genreReply
			if err := quietClient(server.URL).CompleteInto(context.Background(), "sys", "user", &reply); err != nil {
				t.Fatalf("CompleteInto returned error: %v", err)
			}
			if reply.Family != "House" || reply.Confidence != 0.8 {
				t.Fatalf("unexpected reply %+v", reply)
			}
		})
	}
}

func TestClientEmptyContentHasSnippet(t *testing.T) {
	server, calls := choiceServer(t, func(int) map[string]any {
		return map[string]any{"finish_reason": "stop", "message": map[string]any{"content": ""}}
	})
	_, err := quietClient(server.URL, WithRetryMaxAttempts(2)).CompleteJSON(context.Background(), "sys", "user")
	if err == nil {
		t.Fatal("expected completion to fail")
	}
	if !strings.Contains(err.Error(), "empty content") || !strings.Contains(err.Error(), "response_snippet=") {
		t.Fatalf("expected empty-content error to include snippet, got %v", err)
	}
	if *calls != 2 {
		t.Fatalf("expected 2 calls, got %d", *calls)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": `{"family":"Techno","confidence":0.9}`}}},
		})
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	var reply genreReply
	if err := client.CompleteInto(context.Background(), "sys", "user", &reply); err != nil {
		t.Fatalf("CompleteInto returned error: %v", err)
	}
	if reply.Family != "Techno" {
		t.Fatalf("expected Techno, got %q", reply.Family)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	if _, err := quietClient(server.URL).CompleteJSON(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestBackoffDelayDoublesAndCaps(t *testing.T) {
	client := NewClient(Config{}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, expected := range want {
		if got := client.backoffDelay(i + 1); got != expected {
			t.Fatalf("attempt %d delay = %v, want %v", i+1, got, expected)
		}
	}
}

func TestDecodeLLMJSONRejectsGarbage(t *testing.T) {
	var out genreReply
	if err := DecodeLLMJSON("", &out); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if err := DecodeLLMJSON("no json here", &out); err == nil {
		t.Fatal("expected error for prose payload")
	}
	if err := DecodeLLMJSON("[{\"family\":\"x\"}]", &[]genreReply{}); err != nil {
		t.Fatalf("array payload: %v", err)
	}
}
