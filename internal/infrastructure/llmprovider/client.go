// Package llmprovider talks to an OpenAI-compatible chat completion API,
// both request/response and SSE streaming.
package llmprovider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"chathub/internal/domain/llm"
)

// Client implements the llm.Provider interface.
type Client struct {
	httpClient    *resty.Client
	baseURL       string
	apiKey        string
	streamTimeout time.Duration
}

// NewClient creates a Resty-backed client. apiKey may be empty for providers
// that do not require authentication; individual requests can override it via
// llm.ContextWithAPIKey.
func NewClient(baseURL, apiKey string, streamTimeout time.Duration) *Client {
	if streamTimeout <= 0 {
		streamTimeout = 120 * time.Second
	}
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(75 * time.Second),
		baseURL:       baseURL,
		apiKey:        apiKey,
		streamTimeout: streamTimeout,
	}
}

func (c *Client) authHeader(ctx context.Context) string {
	key := c.apiKey
	if override := llm.APIKeyFromContext(ctx); override != "" {
		key = override
	}
	if key == "" {
		return ""
	}
	return "Bearer " + key
}

// CreateChatCompletion calls the provider's /chat/completions endpoint.
func (c *Client) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var completion llm.ChatCompletionResponse
	request := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion)

	if auth := c.authHeader(ctx); auth != "" {
		request.SetHeader("Authorization", auth)
	}

	resp, err := request.Post("/chat/completions")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("provider error: %s", resp.String())
	}
	return &completion, nil
}

// CreateChatCompletionStream calls /chat/completions with streaming enabled.
func (c *Client) CreateChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if auth := c.authHeader(ctx); auth != "" {
		httpReq.Header.Set("Authorization", auth)
	}

	httpClient := &http.Client{Timeout: c.streamTimeout}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("provider error: %d %s", resp.StatusCode, string(body))
	}

	return &sseStream{
		resp:   resp,
		reader: bufio.NewReader(resp.Body),
	}, nil
}

// Ensure interface compliance.
var _ llm.Provider = (*Client)(nil)

// sseStream implements llm.Stream backed by http.Response body with SSE parsing.
type sseStream struct {
	resp   *http.Response
	reader *bufio.Reader
}

func (s *sseStream) Recv() (*llm.ChatCompletionDelta, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read line: %w", err)
		}

		line = strings.TrimSpace(line)

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")

		if data == "[DONE]" {
			return nil, io.EOF
		}

		var delta llm.ChatCompletionDelta
		if err := json.Unmarshal([]byte(data), &delta); err != nil {
			// Skip malformed chunks
			continue
		}

		return &delta, nil
	}
}

func (s *sseStream) Close() error {
	if s.resp != nil && s.resp.Body != nil {
		return s.resp.Body.Close()
	}
	return nil
}
