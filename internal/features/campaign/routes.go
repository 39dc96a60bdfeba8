package campaign

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches campaign endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated []gin.HandlerFunc) {
	campaigns := router.Group("/campaigns")

	campaigns.GET("/options", handler.Options)
	campaigns.GET("", append(authenticated, handler.List)...)
	campaigns.POST("", append(authenticated, handler.Create)...)
	campaigns.POST("/create", append(authenticated, handler.Create)...)
	campaigns.POST("/validate", append(authenticated, handler.Validate)...)
	campaigns.POST("/preview", append(authenticated, handler.Preview)...)
	campaigns.GET("/analytics", append(authenticated, handler.Analytics)...)
	campaigns.GET("/:campaignId", append(authenticated, handler.GetByID)...)
}
