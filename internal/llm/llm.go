package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/nitesh/places_service/pkg/models"
)

// systemPrompt pins the LLM to a four-field JSON reply. Keep the worked
// examples in sync with the required fields below.
const systemPrompt = `You are a location extraction assistant. Extract location search information from user queries and return ONLY a valid JSON object with these exact fields:

{
  "search_term": "what the user is looking for (e.g., 'coffee shop', 'restaurant', 'hospital')",
  "location": "where to search (e.g., 'Taipei 101', 'downtown', 'near me')",
  "query_type": "search" or "directions",
  "formatted_query": "search_term + ' ' + location for Google Places API"
}

Examples:
User: "find a coffee shop near Taipei 101"
Response: {"search_term": "coffee shop", "location": "Taipei 101", "query_type": "search", "formatted_query": "coffee shop Taipei 101"}

User: "good beef noodles around here"
Response: {"search_term": "beef noodles", "location": "near me", "query_type": "search", "formatted_query": "beef noodles near me"}

Return ONLY the JSON object, no other text.`

var requiredFields = []string{"search_term", "location", "query_type", "formatted_query"}

// Client is a minimal Ollama-compatible LLM client.
type Client struct {
	url    string
	model  string
	hc     *http.Client
	logger func(format string, v ...any)
}

// NewClient creates a new client. If httpClient is nil, a default with timeout is used.
func NewClient(url, model string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		url:   url,
		model: model,
		hc:    httpClient,
		logger: func(format string, v ...any) {
			// noop default logger — inject one via SetLogger if you want logging.
			fmt.Fprintf(io.Discard, format, v...)
		},
	}
}

// SetLogger allows injecting a simple printf-like logger for debugging.
func (c *Client) SetLogger(l func(format string, v ...any)) {
	if l == nil {
		return
	}
	c.logger = l
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// ExtractIntent asks the LLM to turn a free-text query into a structured
// intent. It never returns an error: any transport failure, bad status,
// undecodable reply or missing field degrades to a fallback intent that
// reuses the raw query, with Error set for observability.
func (c *Client) ExtractIntent(ctx context.Context, userQuery string) models.ExtractedIntent {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userQuery},
		},
		Stream: false,
		Format: "json",
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fallbackIntent(userQuery, fmt.Sprintf("LLM service error: marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return fallbackIntent(userQuery, fmt.Sprintf("LLM service error: new request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	lat := time.Since(start)
	c.logger("llm request url=%s model=%s status_err=%v latency=%s", c.url, c.model, err, lat)
	if err != nil {
		return fallbackIntent(userQuery, fmt.Sprintf("LLM service error: %v", err))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fallbackIntent(userQuery, fmt.Sprintf("LLM service error: status=%d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fallbackIntent(userQuery, fmt.Sprintf("LLM service error: decode response: %v", err))
	}

	// The model answers with a JSON object as a string in message.content.
	// Decode into a map first so a missing field is distinguishable from an
	// empty one.
	var raw map[string]any
	if err := json.Unmarshal([]byte(parsed.Message.Content), &raw); err != nil {
		return fallbackIntent(userQuery, fmt.Sprintf("JSON parsing error: %v", err))
	}
	for _, f := range requiredFields {
		if _, ok := raw[f]; !ok {
			return fallbackIntent(userQuery, fmt.Sprintf("missing required field %q in LLM response", f))
		}
	}

	var intent models.ExtractedIntent
	if err := json.Unmarshal([]byte(parsed.Message.Content), &intent); err != nil {
		return fallbackIntent(userQuery, fmt.Sprintf("JSON parsing error: %v", err))
	}
	return intent
}

// fallbackIntent keeps the pipeline usable when the model is unavailable or
// misbehaves: the raw query becomes the formatted query.
func fallbackIntent(userQuery, diag string) models.ExtractedIntent {
	return models.ExtractedIntent{
		SearchTerm:     userQuery,
		Location:       "near me",
		QueryType:      "search",
		FormattedQuery: userQuery,
		Error:          diag,
	}
}

// NewClientFromEnv creates a client from OLLAMA_BASE_URL / OLLAMA_MODEL.
func NewClientFromEnv() *Client {
	url := os.Getenv("OLLAMA_BASE_URL")
	model := os.Getenv("OLLAMA_MODEL")
	if url == "" {
		url = "http://localhost:11434"
	}
	if model == "" {
		model = "gemma3:1b"
	}
	return NewClient(url, model, nil)
}
