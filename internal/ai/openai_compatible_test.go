package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) ChatConfig {
	return ChatConfig{
		BaseURL:   baseURL,
		APIKey:    "test-key",
		Model:     "test-model",
		MaxTokens: 512,
	}
}

func TestComplete_Success(t *testing.T) {
	t.Parallel()

	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "the answer"}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient(5 * time.Second)
	answer, err := client.Complete(context.Background(), testConfig(server.URL), []ChatMessage{
		{Role: "system", Content: "instruction"},
		{Role: "user", Content: "question"},
	})
	require.NoError(t, err)
	require.Equal(t, "the answer", answer)

	// Deterministic decoding with a bounded answer.
	require.EqualValues(t, 0, captured["temperature"])
	require.EqualValues(t, 512, captured["max_tokens"])
	require.Equal(t, false, captured["stream"])
	require.Equal(t, "test-model", captured["model"])
}

func TestComplete_UpstreamStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient(5 * time.Second)
	_, err := client.Complete(context.Background(), testConfig(server.URL), []ChatMessage{{Role: "user", Content: "q"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestComplete_MissingAnswerField(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient(5 * time.Second)
	_, err := client.Complete(context.Background(), testConfig(server.URL), []ChatMessage{{Role: "user", Content: "q"}})
	require.Error(t, err)
}

func TestComplete_TransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewOpenAICompatibleClient(time.Second)
	_, err := client.Complete(context.Background(), testConfig(server.URL), []ChatMessage{{Role: "user", Content: "q"}})
	require.Error(t, err)
}
