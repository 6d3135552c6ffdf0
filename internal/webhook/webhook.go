// Package webhook forwards bus events to an external HTTP endpoint so other
// systems can react to conversation activity without polling.
package webhook

import "context"

// Service delivers chat events to a configured webhook URL.
type Service interface {
	// NotifyConversationsChanged fires when conversation lists should refresh.
	NotifyConversationsChanged(ctx context.Context, conversationID string) error

	// NotifySpaceUpdated fires when a conversation is assigned to a space.
	NotifySpaceUpdated(ctx context.Context, conversationID, spaceID string) error
}

// WebhookPayload is the structure sent to webhook URLs.
type WebhookPayload struct {
	Event          string `json:"event"` // "conversations.changed" or "conversations.space_updated"
	ConversationID string `json:"conversation_id,omitempty"`
	SpaceID        string `json:"space_id,omitempty"`
}
