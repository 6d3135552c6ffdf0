package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/conversation"
	"chathub/internal/domain/sessions"
	"chathub/internal/interfaces/httpserver/dto"
	"chathub/internal/utils/platformerrors"
)

// ConversationHandler exposes conversation listing and management.
type ConversationHandler struct {
	service *conversation.Service
	manager *sessions.Manager
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service *conversation.Service, manager *sessions.Manager, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		manager: manager,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /v1/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	conversations, err := h.service.List(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	payload := make([]dto.ConversationPayload, 0, len(conversations))
	for i := range conversations {
		payload = append(payload, dto.FromConversation(&conversations[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// Get handles GET /v1/conversations/:conversation_id
func (h *ConversationHandler) Get(c *gin.Context) {
	id := c.Param("conversation_id")
	conv, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, dto.FromConversation(conv))
}

// Update handles PATCH /v1/conversations/:conversation_id
func (h *ConversationHandler) Update(c *gin.Context) {
	id := c.Param("conversation_id")

	var req dto.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	patch := chat.ConversationPatch{
		Title:    req.Title,
		SpaceID:  req.SpaceID,
		Favorite: req.Favorite,
	}
	if err := h.service.UpdateConversation(c.Request.Context(), id, patch); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	conv, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, dto.FromConversation(conv))
}

// Delete handles DELETE /v1/conversations/:conversation_id
func (h *ConversationHandler) Delete(c *gin.Context) {
	id := c.Param("conversation_id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	h.manager.Evict(id)
	c.Status(http.StatusNoContent)
}
