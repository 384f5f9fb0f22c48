package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens int `json:"max_tokens"`
}

type stubPrompts map[string]string

func (p stubPrompts) Load(name string) (string, error) {
	text, ok := p[name]
	if !ok {
		return "", errors.New("missing prompt")
	}
	return text, nil
}

func fakeChat(t *testing.T, reply string, got *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/completions":
			assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":` +
				mustJSON(t, reply) + `},"finish_reason":"stop"}]}`))
		case "/models":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	svc, err := NewLLMService(Config{})

	assert.Nil(t, svc)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "groq")
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(Config{APIKey: "gsk_test"})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, "groq", svc.provider)
	assert.Equal(t, DefaultTimeout, svc.http.Timeout)
	assert.NoError(t, svc.Close())
}

func TestAnswer_BuildsPromptFromContextAndQuestion(t *testing.T) {
	var got chatRequest
	srv := fakeChat(t, "  Paris.\n", &got)
	svc, err := NewLLMService(Config{APIKey: "gsk_test", BaseURL: srv.URL})
	require.NoError(t, err)

	answer, err := svc.Answer(context.Background(), "Paris is the capital of France.", "What is the capital?")

	require.NoError(t, err)
	assert.Equal(t, "Paris.", answer)
	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, driven.DefaultPrompts[driven.PromptAnswerSystem], got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Context:\nParis is the capital of France.\n\nQuestion:\nWhat is the capital?", got.Messages[1].Content)
}

func TestAnswer_UsesPromptStore(t *testing.T) {
	var got chatRequest
	srv := fakeChat(t, "ok", &got)
	prompts := stubPrompts{
		driven.PromptAnswerSystem: "be brief",
		driven.PromptAnswerUser:   "[%s] %s",
	}
	svc, err := NewLLMService(Config{APIKey: "gsk_test", BaseURL: srv.URL, Prompts: prompts})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "ctx", "q")

	require.NoError(t, err)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "[ctx] q", got.Messages[1].Content)
}

func TestAnswer_PromptLoadError(t *testing.T) {
	svc, err := NewLLMService(Config{APIKey: "gsk_test", Prompts: stubPrompts{}})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "ctx", "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load prompt")
}

func TestChat_PassesOptions(t *testing.T) {
	var got chatRequest
	srv := fakeChat(t, "hi", &got)
	svc, err := NewLLMService(Config{APIKey: "gsk_test", BaseURL: srv.URL + "/", Model: "custom"})
	require.NoError(t, err)

	reply, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: "user", Content: "hello"}},
		driven.ChatOptions{MaxTokens: 64})

	require.NoError(t, err)
	assert.Equal(t, "hi", reply)
	assert.Equal(t, "custom", got.Model)
	assert.Equal(t, 64, got.MaxTokens)
}

func TestChat_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"bad key", http.StatusUnauthorized, domain.ErrConfiguration},
		{"server error", http.StatusBadGateway, domain.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"error"}}`))
			}))
			defer srv.Close()

			svc, err := NewLLMService(Config{APIKey: "gsk_test", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = svc.Answer(context.Background(), "ctx", "q")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[]}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(Config{APIKey: "gsk_test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "ctx", "q")

	assert.ErrorIs(t, err, domain.ErrTransient)
}

func TestPing(t *testing.T) {
	var got chatRequest
	srv := fakeChat(t, "", &got)
	svc, err := NewLLMService(Config{APIKey: "gsk_test", BaseURL: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, svc.Ping(context.Background()))
}
