package routes

import (
	"github.com/gin-gonic/gin"

	"partflow/controllers"
	"partflow/services"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, authService *services.AuthService) {
	authController := controllers.NewAuthController(authService)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}
}
