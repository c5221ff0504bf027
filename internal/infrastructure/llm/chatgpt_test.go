package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAggregator/internal/config"
	"NewsAggregator/internal/domain"
)

func TestChatClientGenerate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 1200, req.MaxTokens)
		assert.InDelta(t, 0.7, req.Temperature, 1e-9)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "summarize this", req.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A synthesized summary.  "}}]}`))
	}))
	defer server.Close()

	client := NewChatClient(config.LLMConfig{
		Endpoint:     server.URL,
		Model:        "test-model",
		APIKey:       "key",
		SystemPrompt: "You are an expert news analyst.",
		MaxTokens:    1200,
		Temperature:  0.7,
	})

	text, err := client.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "A synthesized summary.", text)
}

func TestChatClientErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status  int
		body    string
		wantErr error
	}{
		"server error":  {status: http.StatusTooManyRequests, body: `{"error":"rate limited"}`},
		"no choices":    {status: http.StatusOK, body: `{"choices":[]}`, wantErr: domain.ErrEmptyCompletion},
		"blank content": {status: http.StatusOK, body: `{"choices":[{"message":{"content":"   "}}]}`, wantErr: domain.ErrEmptyCompletion},
		"bad json":      {status: http.StatusOK, body: `{`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewChatClient(config.LLMConfig{Endpoint: server.URL, Model: "m", APIKey: "k"})
			_, err := client.Generate(context.Background(), "p")
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestChatClientMisconfigured(t *testing.T) {
	t.Parallel()

	_, err := NewChatClient(config.LLMConfig{}).Generate(context.Background(), "p")
	assert.Error(t, err)

	var nilClient *ChatClient
	_, err = nilClient.Generate(context.Background(), "p")
	assert.Error(t, err)
}
