package routes

import (
	"github.com/gin-gonic/gin"

	"partflow/controllers"
	"partflow/middleware"
	"partflow/services"
)

func RegisterFileRoutes(rg *gin.RouterGroup, jwtSecret string, fileService *services.FileService) {
	fileController := controllers.NewFileController(fileService)

	files := rg.Group("/files")
	files.Use(middleware.AuthMiddleware(jwtSecret))
	{
		files.GET("", fileController.ListFiles)
		files.GET("/:id", fileController.GetFile)
		files.GET("/:id/parts", fileController.ListParts)
	}
}
