package webhook

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"chathub/internal/infrastructure/events"
)

// Subscribe wires the webhook service onto the event bus. Delivery failures
// are logged and acked; a dead endpoint must not back up the bus.
func Subscribe(bus *events.Bus, svc Service, log zerolog.Logger) {
	log = log.With().Str("component", "webhook_subscriber").Logger()

	bus.Subscribe("webhook_conversations_changed", events.TopicConversationsChanged, func(msg *message.Message) error {
		var evt events.ConversationsChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			log.Warn().Err(err).Msg("malformed conversations.changed payload")
			return nil
		}
		if err := svc.NotifyConversationsChanged(msg.Context(), evt.ConversationID); err != nil {
			log.Warn().Err(err).Str("conversation_id", evt.ConversationID).Msg("webhook delivery failed")
		}
		return nil
	})

	bus.Subscribe("webhook_space_updated", events.TopicConversationSpaceUpdated, func(msg *message.Message) error {
		var evt events.SpaceUpdatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			log.Warn().Err(err).Msg("malformed conversations.space_updated payload")
			return nil
		}
		if err := svc.NotifySpaceUpdated(msg.Context(), evt.ConversationID, evt.SpaceID); err != nil {
			log.Warn().Err(err).Str("conversation_id", evt.ConversationID).Msg("webhook delivery failed")
		}
		return nil
	})
}
