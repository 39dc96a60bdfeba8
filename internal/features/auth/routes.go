package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches authentication endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated []gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.GET("/google", handler.GoogleLogin)
		auth.GET("/google/callback", handler.GoogleCallback)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh-token", handler.RefreshToken)
		// Alias for camelCase clients
		auth.POST("/refreshToken", handler.RefreshToken)
		auth.POST("/logout", append(authenticated, handler.Logout)...)
		auth.GET("/me", append(authenticated, handler.Me)...)
	}
}
