package chat

import (
	"context"
	"fmt"
)

// finalizeTurn runs after a successful stream completion. It merges the
// settled result into the placeholder, derives first-turn metadata through
// exactly one path, attaches best-effort follow-up suggestions, persists the
// finished answer, and commits conversation metadata.
//
// A turn is "first" when the model history sent for it was empty; the current
// log length is never consulted, so late-arriving finalization cannot
// re-trigger derivation after the log has grown.
func (s *Session) finalizeTurn(ctx context.Context, conversationID string, turn *TurnContext, result *CompletionResult) error {
	placeholder := turn.Placeholder

	// Citations and grounding are merged immediately, before any enrichment
	// call has a chance to fail.
	s.mu.Lock()
	if result.Content != "" {
		placeholder.Text = result.Content
	}
	if result.Reasoning != "" {
		placeholder.Reasoning = result.Reasoning
	}
	placeholder.ToolInvocations = result.ToolCalls
	placeholder.Citations = result.Citations
	placeholder.Grounding = result.Grounding
	s.mu.Unlock()

	var meta *TitleAndSpace
	if turn.FirstTurn {
		meta = s.deriveMetadata(ctx, turn.Input.ContentText())
	}

	s.attachRelatedQuestions(ctx, placeholder)

	record, err := s.store.AddMessage(ctx, conversationID, placeholder)
	if err != nil {
		s.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to persist assistant message")
		return fmt.Errorf("persist assistant message: %w", err)
	}

	// The placeholder reference carried through the turn context is stamped
	// directly; there is no backward scan over the log.
	s.mu.Lock()
	placeholder.ID = record.ID
	placeholder.CreatedAt = record.CreatedAt
	s.mu.Unlock()

	if turn.FirstTurn && meta != nil && meta.Title != "" {
		s.commitConversationMetadata(ctx, conversationID, meta)
	}

	return nil
}

// deriveMetadata resolves the first turn's title and workspace assignment.
// Exactly one path executes, in priority order: a manually pinned space keeps
// its assignment and only a title is generated; an external resolver wins
// next; otherwise both title and best-fit space are auto-derived. Failures
// are logged and leave the conversation untitled.
func (s *Session) deriveMetadata(ctx context.Context, firstUserText string) *TitleAndSpace {
	switch {
	case s.cfg.SpaceManuallySelected && s.cfg.SpaceID != nil:
		title, err := s.enricher.GenerateTitle(ctx, firstUserText)
		if err != nil {
			s.logger.Warn().Err(err).Msg("title generation failed")
			return nil
		}
		return &TitleAndSpace{Title: title}

	case s.cfg.Resolver != nil:
		meta, err := s.cfg.Resolver(ctx, firstUserText)
		if err != nil {
			s.logger.Warn().Err(err).Msg("external title/space resolver failed")
			return nil
		}
		return meta

	default:
		meta, err := s.enricher.GenerateTitleAndSpace(ctx, firstUserText, s.cfg.AvailableSpaces)
		if err != nil {
			s.logger.Warn().Err(err).Msg("title and space derivation failed")
			return nil
		}
		return meta
	}
}

// attachRelatedQuestions requests follow-up suggestions from the last two log
// entries (the new user message and the finished answer). Always attempted,
// never fatal to the turn.
func (s *Session) attachRelatedQuestions(ctx context.Context, placeholder *Message) {
	s.mu.Lock()
	recent := make([]*Message, 0, 2)
	if n := len(s.messages); n >= 2 {
		recent = append(recent, s.messages[n-2], s.messages[n-1])
	} else if n == 1 {
		recent = append(recent, s.messages[0])
	}
	s.mu.Unlock()

	questions, err := s.enricher.GenerateRelatedQuestions(ctx, recent)
	if err != nil {
		s.logger.Warn().Err(err).Msg("related question generation failed")
		return
	}

	s.mu.Lock()
	placeholder.RelatedQuestions = questions
	s.mu.Unlock()
}

// commitConversationMetadata persists the derived title and space and emits
// change notifications. Only runs for a first turn whose derivation produced
// a title.
func (s *Session) commitConversationMetadata(ctx context.Context, conversationID string, meta *TitleAndSpace) {
	patch := ConversationPatch{Title: &meta.Title}
	if meta.SpaceID != nil {
		patch.SpaceID = meta.SpaceID
	}

	if err := s.store.UpdateConversation(ctx, conversationID, patch); err != nil {
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to commit conversation metadata")
		return
	}

	s.notifier.ConversationsChanged(conversationID)
	if meta.SpaceID != nil {
		s.notifier.ConversationSpaceUpdated(conversationID, *meta.SpaceID)
	}
}
