package chat

// EditTarget identifies the message being edited, along with the durable
// identities of the records an edit replaces. Used once per edit operation.
type EditTarget struct {
	// Index of the edited message in the log.
	Index int
	// MessageID is the durable identity of the edited user message, if any.
	MessageID string
	// PairedAssistantID is the durable identity of the answer paired with the
	// edited message, if any.
	PairedAssistantID string
}

// ReconcileResult carries the two views computed for a turn: the history the
// model sees and the new UI-visible log.
type ReconcileResult struct {
	ModelHistory []*Message
	UILog        []*Message
}

// ReconcileHistory computes the model-visible history and the new UI log for
// a turn.
//
// Without an edit target the model history is the log as it stood before this
// turn and the UI log is that log plus the new user message. With an edit
// target at index i the model history is everything strictly before the
// edited message; the UI log removes the edited message and, when the next
// entry is its paired assistant answer, removes that too, then appends the
// replacement at the tail. The edited turn and anything after it never leak
// into the new model context.
func ReconcileHistory(log []*Message, userMessage *Message, edit *EditTarget) ReconcileResult {
	if edit == nil || edit.Index < 0 || edit.Index >= len(log) {
		modelHistory := make([]*Message, len(log))
		copy(modelHistory, log)

		uiLog := make([]*Message, 0, len(log)+1)
		uiLog = append(uiLog, log...)
		uiLog = append(uiLog, userMessage)

		return ReconcileResult{ModelHistory: modelHistory, UILog: uiLog}
	}

	i := edit.Index
	modelHistory := make([]*Message, i)
	copy(modelHistory, log[:i])

	uiLog := make([]*Message, 0, len(log))
	uiLog = append(uiLog, log[:i]...)

	rest := log[i+1:]
	if len(rest) > 0 && rest[0].Role == RoleAssistant {
		rest = rest[1:]
	}
	uiLog = append(uiLog, rest...)
	uiLog = append(uiLog, userMessage)

	return ReconcileResult{ModelHistory: modelHistory, UILog: uiLog}
}
