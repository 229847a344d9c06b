// ABOUTME: Tests for the Ollama chat client against a fake HTTP server
// ABOUTME: Covers replies, retries, timeouts, and model listing
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/snessa7/god-cli/internal/config"
)

func testConfig(url string) *ClientConfig {
	return &ClientConfig{
		BaseURL:      url,
		Temperature:  0.7,
		MaxTokens:    128,
		ChatTimeout:  2 * time.Second,
		ProbeTimeout: time.Second,
		MaxRetries:   2,
		RetryDelay:   time.Millisecond,
	}
}

func chatHandler(t *testing.T, calls *int32, failFirst int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s, want /v1/chat/completions", r.URL.Path)
		}
		if n <= failFirst {
			http.Error(w, `{"error":{"message":"busy"}}`, http.StatusServiceUnavailable)
			return
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   req.Model,
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": "echo: " + req.Messages[1].Content}, "finish_reason": "stop"}},
			"usage":   map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}
}

func TestNewOllamaClientRequiresURL(t *testing.T) {
	if _, err := NewOllamaClient(&ClientConfig{}); err == nil {
		t.Error("NewOllamaClient() should fail without a base url")
	}
}

func TestChat(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(chatHandler(t, &calls, 0))
	defer srv.Close()

	client, err := NewOllamaClient(testConfig(srv.URL + "/"))
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}

	reply, tokens, err := client.Chat(context.Background(), "gemma3:1b", "be brief", "hi")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != "echo: hi" || tokens != 15 {
		t.Errorf("Chat() = %q, %d", reply, tokens)
	}
}

func TestChatRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(chatHandler(t, &calls, 2))
	defer srv.Close()

	client, err := NewOllamaClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}
	if _, _, err := client.Chat(context.Background(), "m", "s", "hi"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("server saw %d calls, want 3", n)
	}
}

func TestChatGivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(chatHandler(t, &calls, 100))
	defer srv.Close()

	client, err := NewOllamaClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}
	_, _, err = client.Chat(context.Background(), "m", "s", "hi")
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("Chat() error = %v, want failure after 3 attempts", err)
	}
}

func TestChatTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.ChatTimeout = 50 * time.Millisecond
	cfg.MaxRetries = 0
	client, err := NewOllamaClient(cfg)
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}

	start := time.Now()
	if _, _, err := client.Chat(context.Background(), "m", "s", "hi"); err == nil {
		t.Error("Chat() should time out")
	}
	if time.Since(start) > time.Second {
		t.Error("Chat() should respect the chat timeout")
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gemma3:1b","object":"model"},{"id":"llama3.2","object":"model"}]}`))
	}))
	defer srv.Close()

	client, err := NewOllamaClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}
	names, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(names) != 2 || names[0] != "gemma3:1b" {
		t.Errorf("ListModels() = %v", names)
	}
	if err := client.Probe(context.Background()); err != nil {
		t.Errorf("Probe() error = %v", err)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := config.Default()
	cc := ConfigFrom(cfg)
	if cc.BaseURL != cfg.OllamaURL || cc.ChatTimeout != 60*time.Second || cc.ProbeTimeout != 5*time.Second {
		t.Errorf("ConfigFrom() = %+v", cc)
	}
}
