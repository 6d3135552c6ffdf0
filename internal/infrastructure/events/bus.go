// Package events is the in-process notification bus. Engine-side publishers
// fire and forget; subscribers (webhook fan-out, future websocket pushes) run
// on a watermill router.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

const (
	// TopicConversationsChanged fires whenever the conversation list needs a
	// refresh: creation, new messages, metadata commits.
	TopicConversationsChanged = "conversations.changed"
	// TopicConversationSpaceUpdated fires when a conversation is assigned to
	// a space, typically by first-turn enrichment.
	TopicConversationSpaceUpdated = "conversations.space_updated"
)

// ConversationsChangedEvent is the payload for TopicConversationsChanged.
type ConversationsChangedEvent struct {
	ConversationID string    `json:"conversation_id"`
	At             time.Time `json:"at"`
}

// SpaceUpdatedEvent is the payload for TopicConversationSpaceUpdated.
type SpaceUpdatedEvent struct {
	ConversationID string    `json:"conversation_id"`
	SpaceID        string    `json:"space_id"`
	At             time.Time `json:"at"`
}

// Bus wraps a gochannel pub/sub and a watermill router.
type Bus struct {
	pubSub *gochannel.GoChannel
	router *message.Router
	log    zerolog.Logger
}

// NewBus creates an in-process event bus.
func NewBus(log zerolog.Logger) (*Bus, error) {
	wmLogger := watermill.NopLogger{}

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: false,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, err
	}

	return &Bus{
		pubSub: pubSub,
		router: router,
		log:    log.With().Str("component", "event_bus").Logger(),
	}, nil
}

// Publish serializes the payload and publishes it on the topic. Errors are
// logged, not returned: notifications never fail their trigger.
func (b *Bus) Publish(topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.Error().Err(err).Str("topic", topic).Msg("failed to marshal event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubSub.Publish(topic, msg); err != nil {
		b.log.Warn().Err(err).Str("topic", topic).Msg("failed to publish event")
	}
}

// Subscribe registers a handler for one topic. Must be called before Run.
func (b *Bus) Subscribe(name, topic string, handler message.NoPublishHandlerFunc) {
	b.router.AddNoPublisherHandler(name, topic, b.pubSub, handler)
}

// Run starts the router and blocks until the context is canceled.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running returns a channel closed once the router has started.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close shuts down the pub/sub and the router.
func (b *Bus) Close() error {
	if err := b.pubSub.Close(); err != nil {
		b.log.Warn().Err(err).Msg("failed to close pubsub")
	}
	return b.router.Close()
}
