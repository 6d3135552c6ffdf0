package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"chathub/internal/domain/llm"
)

// DefaultTitle is the placeholder title a conversation carries until the
// first turn derives a real one.
const DefaultTitle = "New Conversation"

// SessionConfig captures the per-conversation settings a session runs with.
type SessionConfig struct {
	// Provider is the model identifier used for completions.
	Provider string
	// SystemPrompt is prepended to the model history when the active space
	// defines one.
	SystemPrompt string
	// SpaceID is the current space selection, nil when none.
	SpaceID *string
	// SpaceManuallySelected pins the workspace so first-turn derivation only
	// generates a title.
	SpaceManuallySelected bool
	// SearchEnabled and ThinkingEnabled are the feature toggles snapshotted
	// onto a lazily created conversation.
	SearchEnabled   bool
	ThinkingEnabled bool
	// AvailableSpaces are the classification candidates for auto workspace
	// assignment.
	AvailableSpaces []SpaceCandidate
	// Resolver, when set, overrides first-turn title and space derivation.
	Resolver TitleSpaceResolver
	// ContextLength bounds the model-visible history in estimated tokens.
	ContextLength int
}

// TurnContext is transient state scoped to one SendMessage invocation: the
// validated input, the model history sent, and the in-flight placeholder.
// The placeholder reference travels through finalization explicitly so
// identity stamping never has to scan the log.
type TurnContext struct {
	Input        *Message
	ModelHistory []*Message
	Placeholder  *Message
	FirstTurn    bool
}

// SendParams is the input to one turn.
type SendParams struct {
	Text        string
	Attachments []Attachment
	// Edit replaces an earlier user message instead of appending a new turn.
	Edit *EditTarget
	// Observer receives chunks in arrival order for live rendering. Optional.
	Observer StreamObserver
}

// Session owns one conversation's orchestration state: its identity, the
// UI-visible message log, the turn state machine, and the space selection.
// All mutation flows through SendMessage; external observers only learn of
// changes through the notifier.
type Session struct {
	store     ConversationStore
	completer Completer
	enricher  Enricher
	notifier  Notifier
	logger    zerolog.Logger
	cfg       SessionConfig

	mu             sync.Mutex
	conversationID string
	messages       []*Message
	state          TurnState
}

// NewSession creates a session with no conversation identity yet; the
// conversation record is created lazily on the first send.
func NewSession(store ConversationStore, completer Completer, enricher Enricher, notifier Notifier, cfg SessionConfig, logger zerolog.Logger) *Session {
	return &Session{
		store:     store,
		completer: completer,
		enricher:  enricher,
		notifier:  notifier,
		logger:    logger.With().Str("component", "chat_session").Logger(),
		cfg:       cfg,
		state:     TurnIdle,
	}
}

// ResumeSession creates a session over an existing conversation and its
// persisted log.
func ResumeSession(store ConversationStore, completer Completer, enricher Enricher, notifier Notifier, cfg SessionConfig, logger zerolog.Logger, conversationID string, log []*Message) *Session {
	s := NewSession(store, completer, enricher, notifier, cfg, logger)
	s.conversationID = conversationID
	s.messages = append(s.messages, log...)
	return s
}

// ConversationID returns the durable conversation identity, empty before the
// first persisted turn.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// State returns the current turn state.
func (s *Session) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a snapshot of the UI-visible log.
func (s *Session) Messages() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]*Message, len(s.messages))
	copy(snapshot, s.messages)
	return snapshot
}

// SendMessage drives one full turn: validate, build, reconcile, ensure a
// durable conversation, persist the user message, stream the answer into an
// in-flight placeholder, then finalize. It returns the assistant message,
// which on a transport error carries the error annotation instead of a
// finished answer.
func (s *Session) SendMessage(ctx context.Context, params SendParams) (*Message, error) {
	s.mu.Lock()
	verdict := ValidateTurn(params.Text, params.Attachments, s.state.IsActive())
	if !verdict.OK {
		s.mu.Unlock()
		switch verdict.Reason {
		case ReasonAlreadyActive:
			return nil, ErrTurnActive
		default:
			return nil, ErrEmptyInput
		}
	}
	s.state = TurnSending

	userMsg := BuildUserMessage(params.Text, params.Attachments)
	reconciled := ReconcileHistory(s.messages, userMsg, params.Edit)
	s.mu.Unlock()

	conversationID, err := s.ensureConversation(ctx)
	if err != nil {
		// The UI log is untouched at this point; the turn simply never starts.
		s.logger.Error().Err(err).Msg("conversation creation failed, aborting turn")
		s.setState(TurnErrored)
		s.setState(TurnIdle)
		return nil, fmt.Errorf("%w: %v", ErrConversationCreationFailed, err)
	}

	s.mu.Lock()
	s.messages = reconciled.UILog
	s.mu.Unlock()

	if params.Edit != nil {
		s.purgeEditedRecords(ctx, params.Edit)
	}

	record, err := s.store.AddMessage(ctx, conversationID, userMsg)
	if err != nil {
		s.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to persist user message")
		s.setState(TurnErrored)
		s.setState(TurnIdle)
		return nil, err
	}
	s.mu.Lock()
	userMsg.ID = record.ID
	userMsg.CreatedAt = record.CreatedAt
	s.mu.Unlock()

	placeholder := NewPlaceholder()
	s.mu.Lock()
	s.messages = append(s.messages, placeholder)
	s.mu.Unlock()

	turn := &TurnContext{
		Input:        userMsg,
		ModelHistory: reconciled.ModelHistory,
		Placeholder:  placeholder,
		FirstTurn:    len(reconciled.ModelHistory) == 0,
	}

	s.setState(TurnStreaming)

	req := CompletionRequest{
		Messages:        s.buildModelMessages(turn),
		SearchEnabled:   s.cfg.SearchEnabled,
		ThinkingEnabled: s.cfg.ThinkingEnabled,
	}
	observer := &placeholderObserver{session: s, placeholder: placeholder, forward: params.Observer}

	result, err := s.completer.StreamCompletion(ctx, req, observer)
	if err != nil {
		s.annotateStreamError(placeholder, err)
		s.setState(TurnErrored)
		s.setState(TurnIdle)
		return placeholder, fmt.Errorf("%w: %v", ErrStreamTransport, err)
	}

	s.setState(TurnFinalizing)
	if err := s.finalizeTurn(ctx, conversationID, turn, result); err != nil {
		s.setState(TurnErrored)
		s.setState(TurnIdle)
		return placeholder, err
	}

	s.setState(TurnIdle)
	return placeholder, nil
}

// ensureConversation returns the existing conversation identity or lazily
// creates the durable record, snapshotting the space selection and feature
// toggles. Creation emits a conversations-changed notification.
func (s *Session) ensureConversation(ctx context.Context) (string, error) {
	s.mu.Lock()
	id := s.conversationID
	s.mu.Unlock()
	if id != "" {
		return id, nil
	}

	record, err := s.store.CreateConversation(ctx, CreateConversationParams{
		Title:           DefaultTitle,
		SpaceID:         s.cfg.SpaceID,
		Provider:        s.cfg.Provider,
		SearchEnabled:   s.cfg.SearchEnabled,
		ThinkingEnabled: s.cfg.ThinkingEnabled,
	})
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.conversationID = record.ID
	s.mu.Unlock()

	s.notifier.ConversationsChanged(record.ID)
	s.logger.Info().Str("conversation_id", record.ID).Msg("conversation created")
	return record.ID, nil
}

// purgeEditedRecords deletes the durable records an edit replaced.
// Best-effort: failures are logged and the turn proceeds.
func (s *Session) purgeEditedRecords(ctx context.Context, edit *EditTarget) {
	for _, id := range []string{edit.MessageID, edit.PairedAssistantID} {
		if id == "" {
			continue
		}
		if err := s.store.DeleteMessage(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("message_id", id).Msg("failed to delete replaced message")
		}
	}
}

// buildModelMessages assembles the provider-facing history: an optional
// system prompt, the reconciled history, and the new user message, trimmed
// to the configured context budget.
func (s *Session) buildModelMessages(turn *TurnContext) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(turn.ModelHistory)+2)
	if s.cfg.SystemPrompt != "" {
		messages = append(messages, llm.ChatMessage{Role: string(RoleSystem), Content: s.cfg.SystemPrompt})
	}
	for _, msg := range turn.ModelHistory {
		messages = append(messages, llm.ChatMessage{Role: string(msg.Role), Content: msg.ContentText()})
	}
	messages = append(messages, llm.ChatMessage{Role: string(RoleUser), Content: turn.Input.ContentText()})

	trimmed := llm.TrimMessagesToFitContext(messages, s.cfg.ContextLength)
	if trimmed.TrimmedCount > 0 {
		s.logger.Debug().Int("trimmed", trimmed.TrimmedCount).Int("estimated_tokens", trimmed.EstimatedTokens).Msg("trimmed model history to fit context")
	}
	return trimmed.Messages
}

// annotateStreamError surfaces a transport error on the placeholder, or on a
// new system message when the placeholder is no longer in the log. No error
// is ever dropped.
func (s *Session) annotateStreamError(placeholder *Message, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages {
		if msg == placeholder {
			if placeholder.Text != "" {
				placeholder.Text += "\n\n"
			}
			placeholder.Text += "Error: " + err.Error()
			placeholder.IsError = true
			return
		}
	}

	fallback := NewPlaceholder()
	fallback.Role = RoleSystem
	fallback.Text = "Error: " + err.Error()
	fallback.IsError = true
	s.messages = append(s.messages, fallback)
}

// setState applies a turn state transition. The engine only requests valid
// transitions; an invalid one indicates a bug and is logged before forcing.
func (s *Session) setState(target TurnState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.TransitionTo(target)
	if err != nil {
		s.logger.Error().Str("from", s.state.String()).Str("to", target.String()).Msg("invalid turn state transition")
		s.state = target
		return
	}
	s.state = next
}

// placeholderObserver applies chunks to the in-flight placeholder in arrival
// order, mutating it in place so partial renders stay stable, and forwards
// each chunk to the caller's observer.
type placeholderObserver struct {
	session     *Session
	placeholder *Message
	forward     StreamObserver
}

func (o *placeholderObserver) OnChunk(chunk Chunk) {
	o.session.mu.Lock()
	switch chunk.Type {
	case ChunkThought:
		o.placeholder.Reasoning += chunk.Content
	default:
		o.placeholder.Text += chunk.Content
	}
	o.session.mu.Unlock()

	if o.forward != nil {
		o.forward.OnChunk(chunk)
	}
}
