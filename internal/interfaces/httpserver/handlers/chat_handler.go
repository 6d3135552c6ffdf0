package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/sessions"
	"chathub/internal/infrastructure/metrics"
	"chathub/internal/infrastructure/observability"
	"chathub/internal/interfaces/httpserver/dto"
	"chathub/internal/utils/platformerrors"
)

// ChatHandler exposes the send-message entrypoint for new and existing
// conversations.
type ChatHandler struct {
	manager *sessions.Manager
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(manager *sessions.Manager, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		manager: manager,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Send handles POST /v1/chat. One request is one turn: it validates input,
// runs the streaming lifecycle, and returns the settled assistant message
// (or streams it as SSE when requested).
func (h *ChatHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	opts := sessions.Options{
		Model:           req.Model,
		SpaceID:         req.SpaceID,
		SearchEnabled:   req.SearchEnabled,
		ThinkingEnabled: req.ThinkingEnabled,
	}

	var (
		session *chat.Session
		err     error
	)
	if req.ConversationID != "" {
		session, err = h.manager.SessionFor(c.Request.Context(), req.ConversationID, opts)
		if err != nil {
			platformerrors.WriteError(c, err, h.log)
			return
		}
	} else {
		session = h.manager.StartSession(c.Request.Context(), opts)
	}

	params := chat.SendParams{
		Text:        req.Text,
		Attachments: mapAttachments(req.Attachments),
		Edit:        mapEdit(req.Edit),
	}

	if req.Stream != nil && *req.Stream {
		h.streamTurn(c, session, params, req.ConversationID == "")
		return
	}

	ctx, span := observability.StartTurnSpan(c.Request.Context(), session.ConversationID(), session.ConversationID() == "", len(req.Text))
	defer span.End()

	started := time.Now()
	msg, err := session.SendMessage(ctx, params)
	h.manager.Register(session)

	if err != nil {
		observability.RecordError(span, err, turnSeverity(err))
		metrics.RecordTurn("error", time.Since(started).Seconds())
		h.writeTurnError(c, session, msg, err)
		return
	}
	metrics.RecordTurn("ok", time.Since(started).Seconds())

	c.JSON(http.StatusOK, dto.SendMessageResponse{
		ConversationID: session.ConversationID(),
		Message:        dto.FromChatMessage(msg),
	})
}

// writeTurnError maps engine errors onto the HTTP contract. A transport
// failure still carries the annotated placeholder so clients can render it.
func (h *ChatHandler) writeTurnError(c *gin.Context, session *chat.Session, msg *chat.Message, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		platformerrors.WriteValidationError(c, "message text or attachments required")
	case errors.Is(err, chat.ErrTurnActive):
		platformerrors.WriteConflict(c, "a turn is already in progress for this conversation")
	case errors.Is(err, chat.ErrConversationCreationFailed):
		h.log.Error().Err(err).Msg("conversation creation failed")
		platformerrors.WriteInternalError(c, "failed to create conversation")
	case errors.Is(err, chat.ErrStreamTransport):
		h.log.Warn().Err(err).Str("conversation_id", session.ConversationID()).Msg("stream transport error")
		payload := gin.H{
			"error":           err.Error(),
			"conversation_id": session.ConversationID(),
		}
		if msg != nil {
			payload["message"] = dto.FromChatMessage(msg)
		}
		c.JSON(http.StatusBadGateway, payload)
	default:
		platformerrors.WriteError(c, err, h.log)
	}
}

// streamTurn runs the turn with an SSE observer attached. Chunks go out as
// they arrive; the settled message and conversation identity close the
// stream.
func (h *ChatHandler) streamTurn(c *gin.Context, session *chat.Session, params chat.SendParams, firstRequest bool) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		platformerrors.WriteInternalError(c, "streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	observer := newSSEObserver(c.Writer, flusher, h.log)
	params.Observer = observer

	ctx, span := observability.StartTurnSpan(c.Request.Context(), session.ConversationID(), firstRequest, len(params.Text))
	defer span.End()

	started := time.Now()
	msg, err := session.SendMessage(ctx, params)
	h.manager.Register(session)

	if err != nil {
		observability.RecordError(span, err, turnSeverity(err))
		metrics.RecordTurn("error", time.Since(started).Seconds())
		observer.SendError(session.ConversationID(), msg, err)
		return
	}
	metrics.RecordTurn("ok", time.Since(started).Seconds())
	observer.SendCompleted(session.ConversationID(), msg)
}

func turnSeverity(err error) string {
	if errors.Is(err, chat.ErrEmptyInput) || errors.Is(err, chat.ErrTurnActive) {
		return "info"
	}
	return "error"
}

func mapAttachments(in []dto.AttachmentPayload) []chat.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]chat.Attachment, 0, len(in))
	for _, att := range in {
		out = append(out, chat.Attachment{URL: att.URL, Name: att.Name})
	}
	return out
}

func mapEdit(in *dto.EditPayload) *chat.EditTarget {
	if in == nil {
		return nil
	}
	return &chat.EditTarget{
		Index:             in.Index,
		MessageID:         in.MessageID,
		PairedAssistantID: in.PairedAssistantID,
	}
}

// sseObserver forwards engine chunks to the client as SSE events.
type sseObserver struct {
	writer  http.ResponseWriter
	flusher http.Flusher
	log     zerolog.Logger
	mu      sync.Mutex
}

var _ chat.StreamObserver = (*sseObserver)(nil)

func newSSEObserver(w http.ResponseWriter, flusher http.Flusher, log zerolog.Logger) *sseObserver {
	return &sseObserver{
		writer:  w,
		flusher: flusher,
		log:     log,
	}
}

func (o *sseObserver) OnChunk(chunk chat.Chunk) {
	metrics.RecordStreamChunk(string(chunk.Type))
	o.sendEvent("message.delta", chunk)
}

func (o *sseObserver) SendCompleted(conversationID string, msg *chat.Message) {
	o.sendEvent("message.completed", dto.SendMessageResponse{
		ConversationID: conversationID,
		Message:        dto.FromChatMessage(msg),
	})
}

func (o *sseObserver) SendError(conversationID string, msg *chat.Message, err error) {
	payload := map[string]interface{}{
		"message": err.Error(),
	}
	if conversationID != "" {
		payload["conversation_id"] = conversationID
	}
	if msg != nil {
		payload["partial"] = dto.FromChatMessage(msg)
	}
	o.sendEvent("message.error", payload)
}

func (o *sseObserver) sendEvent(name string, payload interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		o.log.Error().Err(err).Msg("marshal SSE payload")
		return
	}

	fmt.Fprintf(o.writer, "event: %s\n", name)
	fmt.Fprintf(o.writer, "data: %s\n\n", data)
	o.flusher.Flush()
}
