package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chathub/internal/domain/chat"
	"chathub/internal/utils/idgen"
	"chathub/internal/utils/platformerrors"
)

// Service orchestrates conversation persistence. It implements the chat
// engine's ConversationStore contract and the CRUD surface exposed over HTTP.
type Service struct {
	repo     Repository
	messages MessageRepository
	log      zerolog.Logger
}

var _ chat.ConversationStore = (*Service)(nil)

// NewService creates a conversation service.
func NewService(repo Repository, messages MessageRepository, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		messages: messages,
		log:      log.With().Str("component", "conversation_service").Logger(),
	}
}

// CreateConversation creates a durable conversation record with a fresh
// public identity.
func (s *Service) CreateConversation(ctx context.Context, params chat.CreateConversationParams) (*chat.ConversationRecord, error) {
	publicID, err := idgen.GenerateConversationID()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate conversation ID", err, "")
	}

	conv := NewConversation(publicID, params)
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}

	s.log.Info().Str("conversation_id", conv.PublicID).Msg("conversation created")
	return &chat.ConversationRecord{
		ID:        conv.PublicID,
		Title:     conv.Title,
		SpaceID:   conv.SpacePublicID,
		CreatedAt: conv.CreatedAt,
	}, nil
}

// AddMessage durably writes one engine message and returns the identity to
// stamp back onto it.
func (s *Service) AddMessage(ctx context.Context, conversationID string, msg *chat.Message) (*chat.MessageRecord, error) {
	conv, err := s.repo.FindByPublicID(ctx, conversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation lookup failed")
	}

	publicID, err := idgen.GenerateMessageID()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate message ID", err, "")
	}

	record := NewMessage(publicID, conv.ID, msg)
	if err := s.messages.Insert(ctx, record); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist message")
	}

	return &chat.MessageRecord{ID: record.PublicID, CreatedAt: record.CreatedAt}, nil
}

// UpdateConversation applies a partial update to a conversation.
func (s *Service) UpdateConversation(ctx context.Context, id string, patch chat.ConversationPatch) error {
	conv, err := s.repo.FindByPublicID(ctx, id)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation lookup failed")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"conversation title must not be empty", nil, "")
		}
		conv.Title = title
	}
	if patch.SpaceID != nil {
		conv.SpacePublicID = patch.SpaceID
	}
	if patch.Favorite != nil {
		conv.Favorite = *patch.Favorite
	}
	conv.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, conv); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update conversation")
	}
	return nil
}

// DeleteMessage removes a single message record. Used only on the edit path,
// where the caller treats failures as best-effort.
func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	if err := s.messages.DeleteByPublicID(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete message")
	}
	return nil
}

// List returns all conversations, newest first per repository ordering.
func (s *Service) List(ctx context.Context) ([]Conversation, error) {
	conversations, err := s.repo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	return conversations, nil
}

// Get returns one conversation with its full message log.
func (s *Service) Get(ctx context.Context, publicID string) (*Conversation, error) {
	conv, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation lookup failed")
	}

	messages, err := s.messages.ListByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load conversation messages")
	}
	conv.Messages = messages
	return conv, nil
}

// History loads a conversation's log in the engine's message shape.
func (s *Service) History(ctx context.Context, publicID string) ([]*chat.Message, error) {
	conv, err := s.Get(ctx, publicID)
	if err != nil {
		return nil, err
	}

	log := make([]*chat.Message, 0, len(conv.Messages))
	for i := range conv.Messages {
		log = append(log, conv.Messages[i].ToChatMessage())
	}
	return log, nil
}

// Delete removes a conversation and its messages.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if err := s.repo.Delete(ctx, publicID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	s.log.Info().Str("conversation_id", publicID).Msg("conversation deleted")
	return nil
}
