package mistral

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stayscout/listingrag/internal/llm"
)

func TestNew_SetsDefaults(t *testing.T) {
	client := New("test-key", "", "", "")

	if client.apiKey != "test-key" {
		t.Errorf("expected apiKey 'test-key', got %q", client.apiKey)
	}
	if client.model != defaultModel {
		t.Errorf("expected default model %q, got %q", defaultModel, client.model)
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("expected default baseURL %q, got %q", defaultBaseURL, client.baseURL)
	}
	if client.embedModel != defaultEmbedModel {
		t.Errorf("expected default embed model %q, got %q", defaultEmbedModel, client.embedModel)
	}
}

func TestName(t *testing.T) {
	if New("key", "", "", "").Name() != "mistral" {
		t.Error("expected provider name 'mistral'")
	}
}

func TestComplete_RequestShape(t *testing.T) {
	var capturedAuth string
	var capturedBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &capturedBody)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "the answer"}, "finish_reason": "stop"},
			},
			"model": "mistral-large-latest",
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 8},
		})
	}))
	defer server.Close()

	client := New("secret", "mistral-large-latest", server.URL, "")
	resp, err := client.Complete(context.Background(), &llm.Prompt{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "is parking available?"}},
	}, &llm.RequestOptions{
		MaxTokens:   llm.IntPtr(50),
		Temperature: llm.Float64Ptr(0.2),
		TopP:        llm.Float64Ptr(0.2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if capturedAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", capturedAuth)
	}
	if capturedBody["model"] != "mistral-large-latest" {
		t.Errorf("unexpected model in request: %v", capturedBody["model"])
	}
	if capturedBody["max_tokens"] != float64(50) {
		t.Errorf("expected max_tokens 50, got %v", capturedBody["max_tokens"])
	}
	if capturedBody["temperature"] != 0.2 || capturedBody["top_p"] != 0.2 {
		t.Errorf("decoding params not forwarded: %v", capturedBody)
	}

	if resp.Content != "the answer" {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 8 {
		t.Errorf("usage not parsed: %+v", resp)
	}
	if resp.StopReason != "stop" {
		t.Errorf("unexpected stop reason: %q", resp.StopReason)
	}
}

func TestComplete_SystemPromptFirst(t *testing.T) {
	var capturedBody struct {
		Messages []map[string]string `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &capturedBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer server.Close()

	client := New("key", "", server.URL, "")
	_, err := client.Complete(context.Background(), &llm.Prompt{
		SystemPrompt: "answer concisely",
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(capturedBody.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(capturedBody.Messages))
	}
	if capturedBody.Messages[0]["role"] != "system" {
		t.Errorf("expected system message first, got %v", capturedBody.Messages[0])
	}
}

func TestComplete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New("bad-key", "", server.URL, "")
	_, err := client.Complete(context.Background(), &llm.Prompt{}, nil)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry status: %v", err)
	}
}

func TestEmbed_OrderPreserving(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)

		if body.Model != defaultEmbedModel {
			t.Errorf("unexpected embed model: %q", body.Model)
		}

		out := make([]map[string]any, len(body.Input))
		for i := range body.Input {
			out[i] = map[string]any{"embedding": []float32{float32(i), float32(i)}, "index": i}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": out})
	}))
	defer server.Close()

	client := New("key", "", server.URL, "")
	vectors, err := client.Embed(context.Background(), []string{"first", "second", "third"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	for i, v := range vectors {
		if v[0] != float32(i) {
			t.Errorf("vector %d out of order: %v", i, v)
		}
	}
}
