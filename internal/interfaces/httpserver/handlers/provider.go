package handlers

import (
	"github.com/rs/zerolog"

	"chathub/internal/domain/conversation"
	"chathub/internal/domain/sessions"
	"chathub/internal/domain/space"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
	Space        *SpaceHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	manager *sessions.Manager,
	conversationService *conversation.Service,
	spaceService *space.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:         NewChatHandler(manager, log),
		Conversation: NewConversationHandler(conversationService, manager, log),
		Space:        NewSpaceHandler(spaceService, log),
	}
}
