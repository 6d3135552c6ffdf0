package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPService implements webhook notifications via HTTP POST.
type HTTPService struct {
	httpClient *http.Client
	url        string
	log        zerolog.Logger
	maxRetries int
	retryDelay time.Duration
}

var _ Service = (*HTTPService)(nil)

// NewHTTPService creates a new HTTP-based webhook service. An empty URL
// disables delivery; every notify call becomes a no-op.
func NewHTTPService(url string, log zerolog.Logger) *HTTPService {
	return &HTTPService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		url:        url,
		log:        log.With().Str("component", "webhook").Logger(),
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}
}

// NotifyConversationsChanged delivers a conversations.changed event.
func (s *HTTPService) NotifyConversationsChanged(ctx context.Context, conversationID string) error {
	return s.send(ctx, WebhookPayload{
		Event:          "conversations.changed",
		ConversationID: conversationID,
	})
}

// NotifySpaceUpdated delivers a conversations.space_updated event.
func (s *HTTPService) NotifySpaceUpdated(ctx context.Context, conversationID, spaceID string) error {
	return s.send(ctx, WebhookPayload{
		Event:          "conversations.space_updated",
		ConversationID: conversationID,
		SpaceID:        spaceID,
	})
}

func (s *HTTPService) send(ctx context.Context, payload WebhookPayload) error {
	if s.url == "" {
		s.log.Debug().Str("event", payload.Event).Msg("no webhook URL configured, skipping notification")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create webhook request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "chathub/1.0")
		req.Header.Set("X-Chathub-Event", payload.Event)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("send webhook (attempt %d/%d): %w", attempt, s.maxRetries, err)
			s.log.Warn().Err(err).Str("url", s.url).Int("attempt", attempt).Msg("webhook delivery failed")

			if attempt < s.maxRetries {
				time.Sleep(s.retryDelay)
				continue
			}
			break
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			s.log.Debug().Str("url", s.url).Int("status", resp.StatusCode).Str("event", payload.Event).Msg("webhook delivered")
			return nil
		}

		lastErr = fmt.Errorf("webhook returned status %d (attempt %d/%d)", resp.StatusCode, attempt, s.maxRetries)
		s.log.Warn().Int("status", resp.StatusCode).Str("url", s.url).Int("attempt", attempt).Msg("webhook delivery failed")

		if attempt < s.maxRetries {
			time.Sleep(s.retryDelay)
		}
	}

	return lastErr
}
