package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu          sync.Mutex
	failCreate  bool
	createCalls int
	addedRoles  []Role
	deleted     []string
	patches     []ConversationPatch
	nextID      int
}

func (f *fakeStore) CreateConversation(_ context.Context, params CreateConversationParams) (*ConversationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate {
		return nil, errors.New("insert rejected")
	}
	return &ConversationRecord{ID: "conv_fixture", Title: params.Title, SpaceID: params.SpaceID, CreatedAt: time.Now()}, nil
}

func (f *fakeStore) AddMessage(_ context.Context, _ string, msg *Message) (*MessageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.addedRoles = append(f.addedRoles, msg.Role)
	return &MessageRecord{ID: fmt.Sprintf("msg_%04d", f.nextID), CreatedAt: time.Now()}, nil
}

func (f *fakeStore) UpdateConversation(_ context.Context, _ string, patch ConversationPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	return nil
}

func (f *fakeStore) DeleteMessage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCompleter struct {
	chunks  []Chunk
	result  *CompletionResult
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeCompleter) StreamCompletion(_ context.Context, _ CompletionRequest, observer StreamObserver) (*CompletionResult, error) {
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	for _, chunk := range f.chunks {
		observer.OnChunk(chunk)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeEnricher struct {
	mu              sync.Mutex
	titleCalls      int
	titleSpaceCalls int
	questionCalls   int
	title           string
	titleSpace      *TitleAndSpace
	questions       []string
	failQuestions   bool
}

func (f *fakeEnricher) GenerateTitle(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls++
	return f.title, nil
}

func (f *fakeEnricher) GenerateTitleAndSpace(_ context.Context, _ string, _ []SpaceCandidate) (*TitleAndSpace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleSpaceCalls++
	return f.titleSpace, nil
}

func (f *fakeEnricher) GenerateRelatedQuestions(_ context.Context, _ []*Message) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questionCalls++
	if f.failQuestions {
		return nil, errors.New("enrichment provider down")
	}
	return f.questions, nil
}

type fakeNotifier struct {
	mu           sync.Mutex
	changed      []string
	spaceUpdated []string
}

func (f *fakeNotifier) ConversationsChanged(conversationID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, conversationID)
}

func (f *fakeNotifier) ConversationSpaceUpdated(conversationID string, spaceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spaceUpdated = append(f.spaceUpdated, conversationID+"/"+spaceID)
}

func newTestSession(store *fakeStore, completer *fakeCompleter, enricher *fakeEnricher, notifier *fakeNotifier, cfg SessionConfig) *Session {
	return NewSession(store, completer, enricher, notifier, cfg, zerolog.Nop())
}

func TestSession_FirstTurnLifecycle(t *testing.T) {
	spaceID := "space_general"
	store := &fakeStore{}
	completer := &fakeCompleter{
		chunks: []Chunk{
			{Type: ChunkText, Content: "Hel"},
			{Type: ChunkText, Content: "lo"},
			{Type: ChunkText, Content: " world"},
		},
		result: &CompletionResult{Content: "Hello world"},
	}
	enricher := &fakeEnricher{
		titleSpace: &TitleAndSpace{Title: "Greeting", SpaceID: &spaceID},
		questions:  []string{"What next?"},
	}
	notifier := &fakeNotifier{}
	session := newTestSession(store, completer, enricher, notifier, SessionConfig{Provider: "test-model"})

	answer, err := session.SendMessage(context.Background(), SendParams{Text: "hi"})
	require.NoError(t, err)

	// Chunks applied in arrival order yield the full answer.
	assert.Equal(t, "Hello world", answer.Text)
	assert.True(t, answer.Persisted(), "placeholder must be stamped with the durable identity")
	assert.Equal(t, []string{"What next?"}, answer.RelatedQuestions)

	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, []Role{RoleUser, RoleAssistant}, store.addedRoles)

	// Auto path derived both title and space, exactly once.
	assert.Equal(t, 1, enricher.titleSpaceCalls)
	assert.Zero(t, enricher.titleCalls)
	require.Len(t, store.patches, 1)
	require.NotNil(t, store.patches[0].Title)
	assert.Equal(t, "Greeting", *store.patches[0].Title)
	require.NotNil(t, store.patches[0].SpaceID)
	assert.Equal(t, spaceID, *store.patches[0].SpaceID)

	assert.Equal(t, []string{"conv_fixture/" + spaceID}, notifier.spaceUpdated)
	assert.GreaterOrEqual(t, len(notifier.changed), 2, "creation and metadata commit both notify")

	assert.Equal(t, TurnIdle, session.State())
	assert.Len(t, session.Messages(), 2)
}

func TestSession_FirstTurnDetectionRunsOnce(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{result: &CompletionResult{Content: "answer"}}
	enricher := &fakeEnricher{titleSpace: &TitleAndSpace{Title: "Topic"}}
	session := newTestSession(store, completer, enricher, &fakeNotifier{}, SessionConfig{})

	_, err := session.SendMessage(context.Background(), SendParams{Text: "first"})
	require.NoError(t, err)
	_, err = session.SendMessage(context.Background(), SendParams{Text: "second"})
	require.NoError(t, err)

	assert.Equal(t, 1, enricher.titleSpaceCalls, "metadata derivation runs only for the first turn")
	assert.Equal(t, 1, store.createCalls, "conversation creation is idempotent")
	assert.Equal(t, 2, enricher.questionCalls, "suggestions attempted every turn")
}

func TestSession_BusyExclusion(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{
		result:  &CompletionResult{Content: "slow answer"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	started := completer.started
	session := newTestSession(store, completer, &fakeEnricher{}, &fakeNotifier{}, SessionConfig{})

	done := make(chan error, 1)
	go func() {
		_, err := session.SendMessage(context.Background(), SendParams{Text: "first"})
		done <- err
	}()

	<-started
	_, err := session.SendMessage(context.Background(), SendParams{Text: "second"})
	assert.ErrorIs(t, err, ErrTurnActive)
	assert.Len(t, session.Messages(), 2, "no second placeholder while the first turn is in flight")

	close(completer.release)
	require.NoError(t, <-done)
	assert.Equal(t, TurnIdle, session.State())
}

func TestSession_StreamErrorNeverLost(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{
		chunks: []Chunk{{Type: ChunkText, Content: "partial"}},
		err:    errors.New("connection reset"),
	}
	session := newTestSession(store, completer, &fakeEnricher{}, &fakeNotifier{}, SessionConfig{})

	answer, err := session.SendMessage(context.Background(), SendParams{Text: "hi"})
	require.ErrorIs(t, err, ErrStreamTransport)
	require.NotNil(t, answer)

	assert.True(t, answer.IsError)
	assert.Contains(t, answer.Text, "partial")
	assert.Contains(t, answer.Text, "connection reset")

	// The turn ends cleanly and the conversation stays usable.
	assert.Equal(t, TurnIdle, session.State())
	_, err = session.SendMessage(context.Background(), SendParams{Text: "again"})
	require.ErrorIs(t, err, ErrStreamTransport)
}

func TestSession_ConversationCreationFailureAbortsTurn(t *testing.T) {
	store := &fakeStore{failCreate: true}
	session := newTestSession(store, &fakeCompleter{}, &fakeEnricher{}, &fakeNotifier{}, SessionConfig{})

	_, err := session.SendMessage(context.Background(), SendParams{Text: "hi"})
	require.ErrorIs(t, err, ErrConversationCreationFailed)

	assert.Empty(t, session.Messages(), "UI log stays unchanged when creation fails")
	assert.Empty(t, store.addedRoles, "no message is written")
	assert.Equal(t, TurnIdle, session.State())
}

func TestSession_EmptyInputRejected(t *testing.T) {
	store := &fakeStore{}
	session := newTestSession(store, &fakeCompleter{}, &fakeEnricher{}, &fakeNotifier{}, SessionConfig{})

	_, err := session.SendMessage(context.Background(), SendParams{Text: "   "})
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, store.createCalls)
	assert.Empty(t, session.Messages())
}

func TestSession_EditPurgesReplacedRecords(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{result: &CompletionResult{Content: "new answer"}}
	log := []*Message{
		{ID: "msg_u0", Role: RoleUser, Text: "U0"},
		{ID: "msg_a0", Role: RoleAssistant, Text: "A0"},
		{ID: "msg_u1", Role: RoleUser, Text: "U1"},
		{ID: "msg_a1", Role: RoleAssistant, Text: "A1"},
	}
	session := ResumeSession(store, completer, &fakeEnricher{}, &fakeNotifier{}, SessionConfig{}, zerolog.Nop(), "conv_fixture", log)

	_, err := session.SendMessage(context.Background(), SendParams{
		Text: "U1 edited",
		Edit: &EditTarget{Index: 2, MessageID: "msg_u1", PairedAssistantID: "msg_a1"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"msg_u1", "msg_a1"}, store.deleted)

	messages := session.Messages()
	require.Len(t, messages, 4)
	assert.Equal(t, "U0", messages[0].Text)
	assert.Equal(t, "A0", messages[1].Text)
	assert.Equal(t, "U1 edited", messages[2].Text)
	assert.Equal(t, "new answer", messages[3].Text)
}

func TestSession_ThoughtChunksGoToReasoning(t *testing.T) {
	completer := &fakeCompleter{
		chunks: []Chunk{
			{Type: ChunkThought, Content: "thinking "},
			{Type: ChunkThought, Content: "hard"},
			{Type: ChunkText, Content: "the answer"},
		},
		result: &CompletionResult{Content: "the answer", Reasoning: "thinking hard"},
	}
	session := newTestSession(&fakeStore{}, completer, &fakeEnricher{}, &fakeNotifier{}, SessionConfig{ThinkingEnabled: true})

	answer, err := session.SendMessage(context.Background(), SendParams{Text: "why?"})
	require.NoError(t, err)

	assert.Equal(t, "the answer", answer.Text)
	assert.Equal(t, "thinking hard", answer.Reasoning)
}

func TestSession_ManualSpaceDerivesTitleOnly(t *testing.T) {
	spaceID := "space_pinned"
	store := &fakeStore{}
	enricher := &fakeEnricher{title: "Pinned Topic"}
	session := newTestSession(store, &fakeCompleter{result: &CompletionResult{Content: "ok"}}, enricher, &fakeNotifier{}, SessionConfig{
		SpaceID:               &spaceID,
		SpaceManuallySelected: true,
	})

	_, err := session.SendMessage(context.Background(), SendParams{Text: "hi"})
	require.NoError(t, err)

	assert.Equal(t, 1, enricher.titleCalls)
	assert.Zero(t, enricher.titleSpaceCalls, "pinned space must not be reassigned")
	require.Len(t, store.patches, 1)
	require.NotNil(t, store.patches[0].Title)
	assert.Equal(t, "Pinned Topic", *store.patches[0].Title)
	assert.Nil(t, store.patches[0].SpaceID)
}

func TestSession_ResolverOverridesDerivation(t *testing.T) {
	store := &fakeStore{}
	enricher := &fakeEnricher{}
	resolved := &TitleAndSpace{Title: "Resolved"}
	session := newTestSession(store, &fakeCompleter{result: &CompletionResult{Content: "ok"}}, enricher, &fakeNotifier{}, SessionConfig{
		Resolver: func(_ context.Context, _ string) (*TitleAndSpace, error) {
			return resolved, nil
		},
	})

	_, err := session.SendMessage(context.Background(), SendParams{Text: "hi"})
	require.NoError(t, err)

	assert.Zero(t, enricher.titleCalls)
	assert.Zero(t, enricher.titleSpaceCalls)
	require.Len(t, store.patches, 1)
	assert.Equal(t, "Resolved", *store.patches[0].Title)
}

func TestSession_EnrichmentFailureDoesNotFailTurn(t *testing.T) {
	enricher := &fakeEnricher{failQuestions: true}
	session := newTestSession(&fakeStore{}, &fakeCompleter{result: &CompletionResult{Content: "fine"}}, enricher, &fakeNotifier{}, SessionConfig{})

	answer, err := session.SendMessage(context.Background(), SendParams{Text: "hi"})
	require.NoError(t, err)
	assert.Empty(t, answer.RelatedQuestions)
	assert.True(t, answer.Persisted())
}
