package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"archtutor_backend/internal/config"
	"archtutor_backend/internal/model"
	"archtutor_backend/internal/util"
)

func TestStripJSONFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"word":"CACHE"}`, `{"word":"CACHE"}`},
		{"```json\n{\"word\":\"CACHE\"}\n```", `{"word":"CACHE"}`},
		{"```\n{\"word\":\"CACHE\"}\n```", `{"word":"CACHE"}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripJSONFences(tc.in); got != tc.want {
			t.Errorf("stripJSONFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestHangmanWordParsesFencedJSON(t *testing.T) {
	srv := completionServer(t, "```json\n{\"word\":\"CACHE\",\"clue\":\"fast memory\",\"argument\":\"keeps data close\"}\n```")
	defer srv.Close()

	ai := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test"})
	content, err := ai.HangmanWord(context.Background(), "memory", model.DifficultyEasy)
	if err != nil {
		t.Fatalf("HangmanWord: %v", err)
	}
	if content.Word != "CACHE" || content.Clue != "fast memory" {
		t.Errorf("content = %+v", content)
	}
}

func TestGenerationErrorIsTyped(t *testing.T) {
	srv := completionServer(t, "this is not json at all")
	defer srv.Close()

	ai := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test"})
	if _, err := ai.WordleWord(context.Background(), "", model.DifficultyEasy); !errors.Is(err, util.ErrContentGeneration) {
		t.Errorf("err = %v, want ErrContentGeneration", err)
	}
}

func TestGradeAssembly(t *testing.T) {
	srv := completionServer(t, `{"score": 85, "feedback": "well spotted"}`)
	defer srv.Close()

	ai := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test"})
	score, feedback, err := ai.GradeAssembly(context.Background(), "div cx", "dx not cleared", "dx must be zeroed")
	if err != nil {
		t.Fatalf("GradeAssembly: %v", err)
	}
	if score != 85 || feedback != "well spotted" {
		t.Errorf("score=%v feedback=%q", score, feedback)
	}
}

func TestChatReplyStreamParsesSSE(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"hello "}}]}` + "\n\n"))
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"world"}}]}` + "\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	ai := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	chunks, errChan := ai.ChatReplyStream(context.Background(), "hi", "", nil)

	var full string
	for c := range chunks {
		full += c
	}
	if err := <-errChan; err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if full != "hello world" {
		t.Errorf("streamed = %q, want %q", full, "hello world")
	}
}
