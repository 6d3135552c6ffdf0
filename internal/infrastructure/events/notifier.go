package events

import (
	"time"

	"chathub/internal/domain/chat"
)

// Notifier publishes chat engine notifications onto the bus.
type Notifier struct {
	bus *Bus
}

var _ chat.Notifier = (*Notifier)(nil)

// NewNotifier builds a bus-backed notifier.
func NewNotifier(bus *Bus) *Notifier {
	return &Notifier{bus: bus}
}

// ConversationsChanged signals that conversation lists should refresh.
func (n *Notifier) ConversationsChanged(conversationID string) {
	n.bus.Publish(TopicConversationsChanged, ConversationsChangedEvent{
		ConversationID: conversationID,
		At:             time.Now().UTC(),
	})
}

// ConversationSpaceUpdated signals that a conversation moved into a space.
func (n *Notifier) ConversationSpaceUpdated(conversationID, spaceID string) {
	n.bus.Publish(TopicConversationSpaceUpdated, SpaceUpdatedEvent{
		ConversationID: conversationID,
		SpaceID:        spaceID,
		At:             time.Now().UTC(),
	})
}
