package dto

// AttachmentPayload is a file reference supplied with a chat message.
type AttachmentPayload struct {
	URL  string `json:"url" binding:"required"`
	Name string `json:"name,omitempty"`
}

// EditPayload replaces an earlier user message instead of appending a turn.
type EditPayload struct {
	// Index of the message being edited in the conversation log.
	Index int `json:"index"`
	// MessageID is the durable identity of the replaced message.
	MessageID string `json:"message_id,omitempty"`
	// PairedAssistantID is the answer that followed the replaced message.
	PairedAssistantID string `json:"paired_assistant_id,omitempty"`
}

// SendMessageRequest models POST /v1/chat input. ConversationID empty means
// the turn starts a new conversation.
type SendMessageRequest struct {
	ConversationID  string              `json:"conversation_id,omitempty"`
	Text            string              `json:"text"`
	Attachments     []AttachmentPayload `json:"attachments,omitempty"`
	Edit            *EditPayload        `json:"edit,omitempty"`
	Model           string              `json:"model,omitempty"`
	SpaceID         *string             `json:"space_id,omitempty"`
	SearchEnabled   bool                `json:"search_enabled,omitempty"`
	ThinkingEnabled bool                `json:"thinking_enabled,omitempty"`
	Stream          *bool               `json:"stream,omitempty"`
}

// UpdateConversationRequest models PATCH /v1/conversations/:id input. Only
// set fields are applied.
type UpdateConversationRequest struct {
	Title    *string `json:"title,omitempty"`
	SpaceID  *string `json:"space_id,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// CreateSpaceRequest models POST /v1/spaces input.
type CreateSpaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Instruction string `json:"instruction,omitempty"`
}
