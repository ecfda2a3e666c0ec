package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stalkiq/dzera-sub000/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionsServer(t *testing.T, handler func(w http.ResponseWriter, req completionRequest, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req, r)
	}))
}

func reply(w http.ResponseWriter, content string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestComplete_ReturnsAssistantMessage(t *testing.T) {
	server := completionsServer(t, func(w http.ResponseWriter, req completionRequest, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		reply(w, "Release the idle Elastic IP first.")
	})
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, APIKey: "test-key", Model: "gpt-4o-mini"})

	answer, err := client.Complete(context.Background(),
		[]api.ChatMessage{{Role: "user", Content: "what should I fix first?"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "Release the idle Elastic IP first.", answer)
}

func TestComplete_ScanContextBecomesSystemMessage(t *testing.T) {
	server := completionsServer(t, func(w http.ResponseWriter, req completionRequest, _ *http.Request) {
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "2 findings, $141.89/month")
		assert.Equal(t, "user", req.Messages[1].Role)
		reply(w, "ok")
	})
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, Model: "gpt-4o-mini"})

	_, err := client.Complete(context.Background(),
		[]api.ChatMessage{{Role: "user", Content: "summarize"}},
		"2 findings, $141.89/month")
	require.NoError(t, err)
}

func TestComplete_UpstreamErrorIsSurfaced(t *testing.T) {
	server := completionsServer(t, func(w http.ResponseWriter, _ completionRequest, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	})
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, Model: "gpt-4o-mini"})

	_, err := client.Complete(context.Background(),
		[]api.ChatMessage{{Role: "user", Content: "hello"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestComplete_NonJSONErrorBodyStillReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html><body>502 Bad Gateway</body></html>"))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, Model: "gpt-4o-mini"})

	_, err := client.Complete(context.Background(),
		[]api.ChatMessage{{Role: "user", Content: "hello"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.NotContains(t, err.Error(), "decode")
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := completionsServer(t, func(w http.ResponseWriter, _ completionRequest, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, Model: "gpt-4o-mini"})

	_, err := client.Complete(context.Background(),
		[]api.ChatMessage{{Role: "user", Content: "hello"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
