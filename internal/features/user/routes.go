package user

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches user endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, adminOnly, authenticated []gin.HandlerFunc) {
	users := router.Group("/users")

	users.GET("", append(adminOnly, handler.List)...)
	users.POST("", append(adminOnly, handler.Create)...)
	users.GET("/:userId", append(authenticated, handler.GetByID)...)
	users.PATCH("/:userId", append(adminOnly, handler.Update)...)
}
