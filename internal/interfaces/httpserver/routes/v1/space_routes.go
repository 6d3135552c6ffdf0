package v1

import (
	"github.com/gin-gonic/gin"

	"chathub/internal/interfaces/httpserver/handlers"
)

func registerSpaceRoutes(router gin.IRoutes, handler *handlers.SpaceHandler) {
	router.GET("/spaces", handler.List)
	router.POST("/spaces", handler.Create)
	router.GET("/spaces/:space_id", handler.Get)
	router.DELETE("/spaces/:space_id", handler.Delete)
}
