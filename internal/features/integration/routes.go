package integration

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches the diagnostics endpoints. Every route is gated by
// the organization email domain.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, orgOnly []gin.HandlerFunc) {
	integrations := router.Group("/integrations")
	integrations.Use(orgOnly...)

	integrations.GET("/asana/fields", handler.AsanaFields)
	integrations.POST("/asana/test", handler.AsanaTest)
	integrations.GET("/iterable/test", handler.IterableStatus)
	integrations.POST("/iterable/test", handler.IterableTest)
}
