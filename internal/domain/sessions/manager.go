// Package sessions keeps live chat sessions keyed by conversation, creating
// fresh ones for unstarted conversations and rehydrating persisted ones on
// demand.
package sessions

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/conversation"
	"chathub/internal/domain/space"
)

// Options selects the per-session settings a caller can influence.
type Options struct {
	// Model overrides the default completion model when non-empty.
	Model string
	// SpaceID pins the session to a space. Its instruction becomes the
	// system prompt and first-turn derivation skips space classification.
	SpaceID         *string
	SearchEnabled   bool
	ThinkingEnabled bool
	// Resolver, when set, overrides first-turn title and space derivation.
	Resolver chat.TitleSpaceResolver
}

// Manager hands out sessions and caches the live ones.
type Manager struct {
	conversations *conversation.Service
	spaces        *space.Service
	completer     chat.Completer
	enricher      chat.Enricher
	notifier      chat.Notifier
	defaultModel  string
	contextLength int
	log           zerolog.Logger

	mu    sync.Mutex
	cache map[string]*chat.Session
}

// NewManager builds a session manager.
func NewManager(
	conversations *conversation.Service,
	spaces *space.Service,
	completer chat.Completer,
	enricher chat.Enricher,
	notifier chat.Notifier,
	defaultModel string,
	contextLength int,
	log zerolog.Logger,
) *Manager {
	return &Manager{
		conversations: conversations,
		spaces:        spaces,
		completer:     completer,
		enricher:      enricher,
		notifier:      notifier,
		defaultModel:  defaultModel,
		contextLength: contextLength,
		log:           log.With().Str("component", "session_manager").Logger(),
		cache:         make(map[string]*chat.Session),
	}
}

// StartSession creates a session with no conversation identity yet. Call
// Register once its first turn has settled so later requests find it.
func (m *Manager) StartSession(ctx context.Context, opts Options) *chat.Session {
	return chat.NewSession(
		m.conversations,
		m.completer,
		m.enricher,
		m.notifier,
		m.sessionConfig(ctx, opts),
		m.log,
	)
}

// SessionFor returns the live session for a conversation, rehydrating it from
// the persisted log when none is cached.
func (m *Manager) SessionFor(ctx context.Context, conversationID string, opts Options) (*chat.Session, error) {
	m.mu.Lock()
	if session, ok := m.cache[conversationID]; ok {
		m.mu.Unlock()
		return session, nil
	}
	m.mu.Unlock()

	conv, err := m.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	log, err := m.conversations.History(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// Persisted settings win over caller options for an existing conversation.
	opts.SpaceID = conv.SpacePublicID
	opts.SearchEnabled = conv.SearchEnabled
	opts.ThinkingEnabled = conv.ThinkingEnabled
	if conv.Provider != "" {
		opts.Model = conv.Provider
	}

	session := chat.ResumeSession(
		m.conversations,
		m.completer,
		m.enricher,
		m.notifier,
		m.sessionConfig(ctx, opts),
		m.log,
		conversationID,
		log,
	)

	m.mu.Lock()
	// A concurrent request may have rehydrated the same conversation; keep
	// the first one so both callers share state.
	if existing, ok := m.cache[conversationID]; ok {
		session = existing
	} else {
		m.cache[conversationID] = session
	}
	m.mu.Unlock()

	return session, nil
}

// Register caches a session under its conversation identity. No-op while the
// session has no conversation yet.
func (m *Manager) Register(session *chat.Session) {
	id := session.ConversationID()
	if id == "" {
		return
	}
	m.mu.Lock()
	m.cache[id] = session
	m.mu.Unlock()
}

// Evict drops a conversation's cached session, e.g. after deletion.
func (m *Manager) Evict(conversationID string) {
	m.mu.Lock()
	delete(m.cache, conversationID)
	m.mu.Unlock()
}

func (m *Manager) sessionConfig(ctx context.Context, opts Options) chat.SessionConfig {
	model := opts.Model
	if model == "" {
		model = m.defaultModel
	}

	cfg := chat.SessionConfig{
		Provider:        model,
		SpaceID:         opts.SpaceID,
		SearchEnabled:   opts.SearchEnabled,
		ThinkingEnabled: opts.ThinkingEnabled,
		Resolver:        opts.Resolver,
		ContextLength:   m.contextLength,
	}

	if opts.SpaceID != nil && *opts.SpaceID != "" {
		cfg.SpaceManuallySelected = true
		cfg.SystemPrompt = m.spaces.SystemPromptFor(ctx, *opts.SpaceID)
	} else {
		candidates, err := m.spaces.Candidates(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("failed to list space candidates, auto assignment disabled")
		} else {
			cfg.AvailableSpaces = candidates
		}
	}

	return cfg
}
