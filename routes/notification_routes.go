package routes

import (
	"github.com/gin-gonic/gin"

	"partflow/controllers"
	"partflow/middleware"
	"partflow/services"
)

func RegisterNotificationRoutes(rg *gin.RouterGroup, jwtSecret string, notificationService *services.NotificationService) {
	notificationController := controllers.NewNotificationController(notificationService)

	notifications := rg.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(jwtSecret))
	{
		notifications.GET("", notificationController.List)
		notifications.PATCH("/:id/read", notificationController.MarkRead)
		notifications.DELETE("/:id", notificationController.Delete)
	}
}
