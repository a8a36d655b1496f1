package routes

import (
	"github.com/gin-gonic/gin"

	"partflow/controllers"
	"partflow/middleware"
	"partflow/services"
)

func RegisterTagRoutes(rg *gin.RouterGroup, jwtSecret string, tagService *services.TagService) {
	tagController := controllers.NewTagController(tagService)

	tags := rg.Group("/tags")
	tags.Use(middleware.AuthMiddleware(jwtSecret))
	{
		tags.POST("", tagController.CreateTag)
		tags.GET("/:name", tagController.GetTag)
		tags.DELETE("/:name", tagController.DeleteTag)

		tags.POST("/:name/members", tagController.Join)
		tags.DELETE("/:name/members", tagController.Leave)
	}
}
