package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chathub/internal/domain/space"
	"chathub/internal/interfaces/httpserver/dto"
	"chathub/internal/utils/platformerrors"
)

// SpaceHandler exposes space management.
type SpaceHandler struct {
	service *space.Service
	log     zerolog.Logger
}

// NewSpaceHandler constructs the handler.
func NewSpaceHandler(service *space.Service, log zerolog.Logger) *SpaceHandler {
	return &SpaceHandler{
		service: service,
		log:     log.With().Str("handler", "space").Logger(),
	}
}

// List handles GET /v1/spaces
func (h *SpaceHandler) List(c *gin.Context) {
	spaces, err := h.service.List(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	payload := make([]dto.SpacePayload, 0, len(spaces))
	for i := range spaces {
		payload = append(payload, dto.FromSpace(&spaces[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// Create handles POST /v1/spaces
func (h *SpaceHandler) Create(c *gin.Context) {
	var req dto.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	sp, err := h.service.Create(c.Request.Context(), req.Name, req.Instruction)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, dto.FromSpace(sp))
}

// Get handles GET /v1/spaces/:space_id
func (h *SpaceHandler) Get(c *gin.Context) {
	id := c.Param("space_id")
	sp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, dto.FromSpace(sp))
}

// Delete handles DELETE /v1/spaces/:space_id
func (h *SpaceHandler) Delete(c *gin.Context) {
	id := c.Param("space_id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.Status(http.StatusNoContent)
}
