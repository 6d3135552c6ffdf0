package llmprovider

import (
	"context"
	"fmt"

	"chathub/internal/domain/llm"
)

// modelResponse mirrors the provider /models/{id} response.
type modelResponse struct {
	ID            string `json:"id"`
	ContextLength *int   `json:"context_length,omitempty"`
	MaxTokens     *int   `json:"max_tokens,omitempty"`
}

// GetModelInfo fetches model metadata from the provider.
func (c *Client) GetModelInfo(ctx context.Context, modelID string) (*llm.ModelInfo, error) {
	var resp modelResponse

	request := c.httpClient.R().
		SetContext(ctx).
		SetResult(&resp)

	if auth := c.authHeader(ctx); auth != "" {
		request.SetHeader("Authorization", auth)
	}

	httpResp, err := request.Get(fmt.Sprintf("/models/%s", modelID))
	if err != nil {
		return nil, fmt.Errorf("fetch model info: %w", err)
	}

	if httpResp.IsError() {
		// Return nil info if model not found - caller can use defaults
		if httpResp.StatusCode() == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("provider error: %s", httpResp.String())
	}

	return &llm.ModelInfo{
		ID:            resp.ID,
		ContextLength: resp.ContextLength,
		MaxTokens:     resp.MaxTokens,
	}, nil
}

// Ensure interface compliance.
var _ llm.ModelInfoProvider = (*Client)(nil)
