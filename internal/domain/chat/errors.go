package chat

import "errors"

// Sentinel errors for the engine's failure taxonomy. Handlers map these onto
// transport responses; enrichment failures are logged and never surfaced as
// errors from the engine.
var (
	// ErrEmptyInput rejects a turn whose trimmed text is blank with no
	// attachments.
	ErrEmptyInput = errors.New("empty input")

	// ErrTurnActive rejects a turn while another is still in flight for the
	// same conversation.
	ErrTurnActive = errors.New("turn already active")

	// ErrConversationCreationFailed aborts a turn when the lazy conversation
	// create is rejected by the store, before any message is written.
	ErrConversationCreationFailed = errors.New("conversation creation failed")

	// ErrStreamTransport marks a streaming failure that was annotated onto
	// the in-flight answer.
	ErrStreamTransport = errors.New("stream transport error")
)
