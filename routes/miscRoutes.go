package routes

import (
	"citizen-be/controllers"
	"citizen-be/middlewares"

	"github.com/gin-gonic/gin"
)

// MiscRoutes sets up notifications, uploads, analytics, and the
// classifier convenience endpoint
func MiscRoutes(r *gin.Engine) {
	notifications := r.Group("/api/notifications")
	{
		notifications.GET("", middlewares.AuthMiddleware(), controllers.GetNotifications)
		notifications.PUT("", middlewares.AuthMiddleware(), controllers.MarkNotificationsRead)
	}

	upload := r.Group("/api/upload")
	{
		upload.POST("", middlewares.AuthMiddleware(), controllers.UploadAttachment)
		upload.GET("/:id", controllers.ServeAttachment)
	}

	r.GET("/api/analytics/simple", controllers.GetSimpleAnalytics)
	r.POST("/api/classify", middlewares.AuthMiddleware(), controllers.ClassifyImage)
}
