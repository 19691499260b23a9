// Package extract asks a hosted chat-completions model for the
// bibliographic fields of a document's page text.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/jgkarlin/renamepdf/internal/citation"
)

const (
	// DefaultBaseURL is the default chat-completions API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the default completion model.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 90 * time.Second

	// RateLimit caps outbound requests per second during batch runs.
	RateLimit = 2.0

	// maxPromptChars bounds the page text placed into the prompt.
	maxPromptChars = 12000
)

const systemPrompt = "You are an expert at extracting bibliographic information. Always respond with valid JSON."

const promptTemplate = `Extract bibliographic information from the provided text and return it in valid JSON format.
Use exactly this JSON structure:
{
    "title": "extracted title",
    "author": "extracted author names",
    "year": "publication year",
    "publisher": "publisher name",
    "journal": "journal title",
    "other_info": "any other relevant information"
}

The original filename is '%s'.

Text from the first pages:
%s`

// Client is a rate-limited chat-completions client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	model      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL sets a custom API base URL (for proxies and testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithModel sets the completion model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new extraction client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract asks the model for the bibliographic fields of the given page
// text. A response that is not valid JSON in the expected shape yields
// Extraction{Malformed: true} with a nil error: a malformed response is a
// recoverable degradation, never partially trusted. Transport and API
// failures return an error.
func (c *Client) Extract(ctx context.Context, text, filename string) (citation.Extraction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return citation.Extraction{}, fmt.Errorf("rate limiter: %w", err)
	}

	text = truncateForPrompt(text)

	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(promptTemplate, filename, text)},
		},
	})
	if err != nil {
		return citation.Extraction{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return citation.Extraction{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return citation.Extraction{}, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return citation.Extraction{}, err
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return citation.Extraction{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(decoded.Choices) == 0 {
		return citation.Extraction{}, fmt.Errorf("%w: no choices returned", ErrInvalidResponse)
	}

	return ParseResponse(decoded.Choices[0].Message.Content), nil
}

// truncateForPrompt bounds the page text placed into the prompt, backing
// the cut off to a rune boundary so a multi-byte character is never split.
func truncateForPrompt(text string) string {
	if len(text) <= maxPromptChars {
		return text
	}
	cut := maxPromptChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return nil
}
