package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"partflow/models"
	"partflow/services"
	"partflow/utils"
)

type GroupController struct {
	groupService *services.GroupService
}

func NewGroupController(groupService *services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

type createGroupRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

func (gc *GroupController) CreateGroup(c *gin.Context) {
	uid := c.GetString("uid")

	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid group payload", err.Error())
		return
	}
	if err := utils.ValidateAggregateID(req.ID); err != nil {
		utils.BadRequestResponse(c, "Invalid group id", err.Error())
		return
	}

	group := &models.Group{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		ManagerUID:  uid,
		Visibility:  req.Visibility,
	}

	if err := gc.groupService.CreateGroup(c.Request.Context(), group); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to create group", err.Error())
		return
	}

	utils.CreatedResponse(c, "Group created", group)
}

func (gc *GroupController) GetGroup(c *gin.Context) {
	group, err := gc.groupService.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrGroupNotFound) {
			utils.NotFoundResponse(c, "Group not found")
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to load group", err.Error())
		return
	}
	utils.SuccessResponse(c, "Group loaded", group)
}

func (gc *GroupController) ListMembers(c *gin.Context) {
	members, err := gc.groupService.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to list members", err.Error())
		return
	}
	utils.SuccessResponse(c, "Members loaded", members)
}

func (gc *GroupController) Join(c *gin.Context) {
	callerUID := c.GetString("uid")
	groupID := c.Param("id")
	uid := c.Param("uid")

	err := gc.groupService.Join(c.Request.Context(), groupID, callerUID, uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			utils.NotFoundResponse(c, "Group not found")
		case errors.Is(err, services.ErrGroupDeleted):
			utils.ConflictResponse(c, "Group is deleted", nil)
		case errors.Is(err, services.ErrNotManager), errors.Is(err, services.ErrInviteOnly):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalServerErrorResponse(c, "Failed to join group", err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Member added", nil)
}

func (gc *GroupController) Leave(c *gin.Context) {
	callerUID := c.GetString("uid")
	groupID := c.Param("id")
	uid := c.Param("uid")

	if uid != callerUID {
		group, err := gc.groupService.GetGroup(c.Request.Context(), groupID)
		if err != nil || group.ManagerUID != callerUID {
			utils.ForbiddenResponse(c, "Only the manager may remove other members")
			return
		}
	}

	if err := gc.groupService.Leave(c.Request.Context(), groupID, uid); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to leave group", err.Error())
		return
	}
	utils.SuccessResponse(c, "Member removed", nil)
}

func (gc *GroupController) DeleteGroup(c *gin.Context) {
	uid := c.GetString("uid")

	err := gc.groupService.SoftDeleteGroup(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			utils.NotFoundResponse(c, "Group not found")
		case errors.Is(err, services.ErrNotManager):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalServerErrorResponse(c, "Failed to delete group", err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Group scheduled for deletion", nil)
}
