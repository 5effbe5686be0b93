package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"ai-interview-service/internal/domain"
)

// chatStub serves a canned assistant message in the chat-completions shape.
func chatStub(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) == 0 {
			t.Errorf("request carried no messages")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		if status >= 400 {
			resp = map[string]any{"error": map[string]any{"message": content}}
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(baseURL string) *Client {
	return New(Config{BaseURL: baseURL, APIKey: "test-key"}, zerolog.Nop())
}

func TestScoreAnswerParsesFencedJSON(t *testing.T) {
	srv := chatStub(t, http.StatusOK, "```json\n{\"score\": 7.5, \"feedback\": \"good coverage\"}\n```")
	defer srv.Close()

	result, err := newTestClient(srv.URL).ScoreAnswer(context.Background(), "Explain useState.", "It holds component state.")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Score != 7.5 || result.Feedback != "good coverage" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestScoreAnswerRejectsOutOfRange(t *testing.T) {
	srv := chatStub(t, http.StatusOK, `{"score": 11, "feedback": "too generous"}`)
	defer srv.Close()

	_, err := newTestClient(srv.URL).ScoreAnswer(context.Background(), "q", "a")
	if !errors.Is(err, domain.ErrScoreOutOfRange) {
		t.Fatalf("expected ErrScoreOutOfRange, got %v", err)
	}
}

func TestScoreAnswerSurfacesAPIError(t *testing.T) {
	srv := chatStub(t, http.StatusTooManyRequests, "rate limited")
	defer srv.Close()

	if _, err := newTestClient(srv.URL).ScoreAnswer(context.Background(), "q", "a"); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}

func TestScoreAnswerRejectsNonJSONVerdict(t *testing.T) {
	srv := chatStub(t, http.StatusOK, "I would give this a 7 out of 10.")
	defer srv.Close()

	if _, err := newTestClient(srv.URL).ScoreAnswer(context.Background(), "q", "a"); err == nil {
		t.Fatalf("expected parse error for prose verdict")
	}
}

func TestGenerateQuestionsFillsDefaults(t *testing.T) {
	srv := chatStub(t, http.StatusOK, `[
		{"id": "custom-1", "text": "Explain closures.", "difficulty": "easy", "timeLimit": 30},
		{"text": "Explain the event loop.", "difficulty": "medium"},
		{"text": "Design a rate limiter.", "difficulty": "hard"}
	]`)
	defer srv.Close()

	questions, err := newTestClient(srv.URL).GenerateQuestions(context.Background(), domain.Profile{Name: "Alice"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if questions[0].ID != "custom-1" || questions[0].TimeLimitSeconds != 30 {
		t.Fatalf("explicit fields overridden: %+v", questions[0])
	}
	if questions[1].ID != "q2" || questions[1].TimeLimitSeconds != 60 {
		t.Fatalf("medium defaults not applied: %+v", questions[1])
	}
	if questions[2].ID != "q3" || questions[2].TimeLimitSeconds != 120 {
		t.Fatalf("hard defaults not applied: %+v", questions[2])
	}
}

func TestExtractProfileBestEffort(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		srv := chatStub(t, http.StatusOK, `{"name":"Alice Doe","email":"alice@example.com","phone":"555-0100"}`)
		defer srv.Close()

		profile := newTestClient(srv.URL).ExtractProfile(context.Background(), "resume text")
		if profile.Name != "Alice Doe" || profile.Email != "alice@example.com" {
			t.Fatalf("unexpected profile %+v", profile)
		}
	})

	t.Run("failure yields empty profile", func(t *testing.T) {
		srv := chatStub(t, http.StatusInternalServerError, "boom")
		defer srv.Close()

		if profile := newTestClient(srv.URL).ExtractProfile(context.Background(), "resume text"); profile != (domain.Profile{}) {
			t.Fatalf("expected empty profile, got %+v", profile)
		}
	})
}
