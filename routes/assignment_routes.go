package routes

import (
	"github.com/gin-gonic/gin"

	"partflow/controllers"
	"partflow/middleware"
	"partflow/services"
)

func RegisterAssignmentRoutes(rg *gin.RouterGroup, jwtSecret string, assignmentService *services.AssignmentService) {
	assignmentController := controllers.NewAssignmentController(assignmentService)

	assignments := rg.Group("/assignments")
	assignments.Use(middleware.AuthMiddleware(jwtSecret))
	{
		assignments.POST("", assignmentController.CreateAssignment)
		assignments.GET("", assignmentController.ListMyAssignments)
	}
}
