package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGeminiClient(GeminiConfig{
		APIKey:     "test-key",
		Model:      "gemini-2.5-flash",
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestGeminiClient_GenerateContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req generateRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi "},{"text":"there"}]},"finishReason":"STOP"}]}`))
	})

	reply, err := client.GenerateContent(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
}

func TestGeminiClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "api error",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
				assert.Equal(t, "PERMISSION_DENIED", apiErr.Status)
				assert.Equal(t, "API key not valid", apiErr.Message)
			},
		},
		{
			name:   "non-json error body",
			status: http.StatusBadGateway,
			body:   `upstream down`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
			},
		},
		{
			name:   "no candidates",
			status: http.StatusOK,
			body:   `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrNoContent))
			},
		},
		{
			name:   "malformed success body",
			status: http.StatusOK,
			body:   `{"candidates":`,
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.GenerateContent(context.Background(), "hello")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestGeminiClient_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	// Registered after the server's Close so it runs first
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GenerateContent(ctx, "hello")
	assert.Error(t, err)
}

func TestNewGeminiClient_Validation(t *testing.T) {
	_, err := NewGeminiClient(GeminiConfig{BaseURL: "https://example.com"})
	assert.Error(t, err)

	_, err = NewGeminiClient(GeminiConfig{Model: "m", BaseURL: "not a url"})
	assert.Error(t, err)
}
