package routes

import (
	"github.com/gin-gonic/gin"

	"partflow/controllers"
	"partflow/middleware"
	"partflow/services"
)

func RegisterGroupRoutes(rg *gin.RouterGroup, jwtSecret string, groupService *services.GroupService) {
	groupController := controllers.NewGroupController(groupService)

	groups := rg.Group("/groups")
	groups.Use(middleware.AuthMiddleware(jwtSecret))
	{
		groups.POST("", groupController.CreateGroup)
		groups.GET("/:id", groupController.GetGroup)
		groups.DELETE("/:id", groupController.DeleteGroup) // soft delete, purged by the retention sweep

		groups.GET("/:id/members", groupController.ListMembers)
		groups.POST("/:id/members/:uid", groupController.Join)
		groups.DELETE("/:id/members/:uid", groupController.Leave)
	}
}
