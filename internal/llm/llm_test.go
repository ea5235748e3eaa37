package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama answers /api/chat with the given message content.
func fakeOllama(t *testing.T, content string, capture *chatRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		if capture != nil {
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, capture))
		}
		json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: content}})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtractIntentValidReply(t *testing.T) {
	content := `{"search_term":"coffee shop","location":"Taipei 101","query_type":"search","formatted_query":"coffee shop Taipei 101"}`
	var captured chatRequest
	server := fakeOllama(t, content, &captured)

	c := NewClient(server.URL, "gemma3:1b", nil)
	intent := c.ExtractIntent(context.Background(), "find a coffee shop near Taipei 101")

	assert.Equal(t, "coffee shop", intent.SearchTerm)
	assert.Equal(t, "Taipei 101", intent.Location)
	assert.Equal(t, "search", intent.QueryType)
	assert.Equal(t, "coffee shop Taipei 101", intent.FormattedQuery)
	assert.Empty(t, intent.Error)

	// request shape: system prompt + raw user turn, strict JSON mode
	assert.Equal(t, "gemma3:1b", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, "json", captured.Format)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "find a coffee shop near Taipei 101", captured.Messages[1].Content)
}

func TestExtractIntentMissingField(t *testing.T) {
	// query_type is missing: the reply must be rejected as a whole
	content := `{"search_term":"coffee shop","location":"Taipei 101","formatted_query":"coffee shop Taipei 101"}`
	server := fakeOllama(t, content, nil)

	c := NewClient(server.URL, "gemma3:1b", nil)
	intent := c.ExtractIntent(context.Background(), "find a coffee shop near Taipei 101")

	assert.Equal(t, "find a coffee shop near Taipei 101", intent.FormattedQuery)
	assert.Equal(t, "near me", intent.Location)
	assert.Equal(t, "search", intent.QueryType)
	assert.Contains(t, intent.Error, "query_type")
}

func TestExtractIntentMalformedContent(t *testing.T) {
	server := fakeOllama(t, "sure, here is the JSON you asked for!", nil)

	c := NewClient(server.URL, "gemma3:1b", nil)
	intent := c.ExtractIntent(context.Background(), "coffee near me")

	assert.Equal(t, "coffee near me", intent.FormattedQuery)
	assert.Contains(t, intent.Error, "JSON parsing error")
}

func TestExtractIntentProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(url, "gemma3:1b", nil)
	intent := c.ExtractIntent(context.Background(), "coffee near me")

	assert.Equal(t, "coffee near me", intent.SearchTerm)
	assert.Equal(t, "coffee near me", intent.FormattedQuery)
	assert.Equal(t, "near me", intent.Location)
	assert.Equal(t, "search", intent.QueryType)
	assert.NotEmpty(t, intent.Error)
}

func TestExtractIntentBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, "gemma3:1b", nil)
	intent := c.ExtractIntent(context.Background(), "coffee near me")

	assert.Equal(t, "coffee near me", intent.FormattedQuery)
	assert.Contains(t, intent.Error, "status=404")
}
