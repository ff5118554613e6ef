package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ssmithers/aidebate/internal/core"
)

func TestLMStudioComplete(t *testing.T) {
	messages := []core.Message{
		{Role: core.RoleSystem, Content: "You are the affirmative team."},
		{Role: core.RoleUser, Content: "Deliver the 1AC."},
	}

	t.Run("Success", func(t *testing.T) {
		var gotReq chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/chat/completions" {
				t.Errorf("path: got %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": "Contention one: solvency."}},
				},
				"usage": map[string]int{"prompt_tokens": 120, "completion_tokens": 45},
			})
		}))
		defer server.Close()

		b := NewLMStudioBackend(server.URL, 0)
		result, err := b.Complete(context.Background(), "glm-4.7-flash", messages, 0.3, 2048)
		if err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		if result.Content != "Contention one: solvency." {
			t.Errorf("content: got %q", result.Content)
		}
		if result.InputTokens != 120 || result.OutputTokens != 45 {
			t.Errorf("tokens: got %d/%d", result.InputTokens, result.OutputTokens)
		}
		if gotReq.Model != "glm-4.7-flash" {
			t.Errorf("request model: got %s", gotReq.Model)
		}
		if gotReq.MaxTokens != 2048 {
			t.Errorf("request max tokens: got %d", gotReq.MaxTokens)
		}
		if len(gotReq.Messages) != 2 {
			t.Errorf("request messages: got %d", len(gotReq.Messages))
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		b := NewLMStudioBackend(server.URL, 0)
		if _, err := b.Complete(context.Background(), "glm-4.7-flash", messages, 0.3, 2048); err == nil {
			t.Fatal("expected error on 503")
		}
	})

	t.Run("NoChoices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}))
		defer server.Close()

		b := NewLMStudioBackend(server.URL, 0)
		if _, err := b.Complete(context.Background(), "glm-4.7-flash", messages, 0.3, 2048); err == nil {
			t.Fatal("expected error on empty choices")
		}
	})

	t.Run("ServerDown", func(t *testing.T) {
		b := NewLMStudioBackend("http://127.0.0.1:1", 0)
		if _, err := b.Complete(context.Background(), "glm-4.7-flash", messages, 0.3, 2048); err == nil {
			t.Fatal("expected connection error")
		}
	})
}

func TestDetectLoadedModel(t *testing.T) {
	t.Run("KnownModel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/models" {
				t.Errorf("path: got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{{"id": "zai-org/glm-4.7-flash"}},
			})
		}))
		defer server.Close()

		det, err := DetectLoadedModel(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if det.ModelID != "zai-org/glm-4.7-flash" {
			t.Errorf("model id: got %s", det.ModelID)
		}
		if det.Name != "GLM-4.7-Flash 30B" {
			t.Errorf("name: got %s, want friendly name", det.Name)
		}
	})

	t.Run("UnknownModelKeepsID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{{"id": "some/obscure-model"}},
			})
		}))
		defer server.Close()

		det, err := DetectLoadedModel(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if det.Name != "some/obscure-model" {
			t.Errorf("name: got %s, want raw id", det.Name)
		}
	})

	t.Run("NothingLoaded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
		}))
		defer server.Close()

		if _, err := DetectLoadedModel(context.Background(), server.URL); err == nil {
			t.Fatal("expected error with no models loaded")
		}
	})

	t.Run("ServerDown", func(t *testing.T) {
		if _, err := DetectLoadedModel(context.Background(), "http://127.0.0.1:1"); err == nil {
			t.Fatal("expected connection error")
		}
	})
}
