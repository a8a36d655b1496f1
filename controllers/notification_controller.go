package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"partflow/services"
	"partflow/utils"
)

type NotificationController struct {
	notificationService *services.NotificationService
}

func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

func (nc *NotificationController) List(c *gin.Context) {
	uid := c.GetString("uid")

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	notifications, err := nc.notificationService.ListForUser(c.Request.Context(), uid, limit)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to list notifications", err.Error())
		return
	}
	utils.SuccessResponse(c, "Notifications loaded", notifications)
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	uid := c.GetString("uid")

	if err := nc.notificationService.MarkRead(c.Request.Context(), uid, c.Param("id")); err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, "Notification marked read", nil)
}

func (nc *NotificationController) Delete(c *gin.Context) {
	uid := c.GetString("uid")

	if err := nc.notificationService.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, "Notification deleted", nil)
}
