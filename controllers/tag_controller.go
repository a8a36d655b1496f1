package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"partflow/models"
	"partflow/services"
	"partflow/utils"
)

type TagController struct {
	tagService *services.TagService
}

func NewTagController(tagService *services.TagService) *TagController {
	return &TagController{tagService: tagService}
}

type createTagRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

func (tc *TagController) CreateTag(c *gin.Context) {
	uid := c.GetString("uid")

	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid tag payload", err.Error())
		return
	}
	if err := utils.ValidateAggregateID(req.Name); err != nil {
		utils.BadRequestResponse(c, "Invalid tag name", err.Error())
		return
	}

	tag := &models.Tag{
		Name:      req.Name,
		Type:      req.Type,
		CreatedBy: uid,
	}

	if err := tc.tagService.CreateTag(c.Request.Context(), tag); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to create tag", err.Error())
		return
	}

	utils.CreatedResponse(c, "Tag created", tag)
}

func (tc *TagController) GetTag(c *gin.Context) {
	tag, err := tc.tagService.GetTag(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			utils.NotFoundResponse(c, "Tag not found")
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to load tag", err.Error())
		return
	}
	utils.SuccessResponse(c, "Tag loaded", tag)
}

// Join adds the caller to the tag. Tags are open, so there is no invite
// check; membership is always self-service.
func (tc *TagController) Join(c *gin.Context) {
	uid := c.GetString("uid")

	err := tc.tagService.Join(c.Request.Context(), c.Param("name"), uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTagNotFound):
			utils.NotFoundResponse(c, "Tag not found")
		case errors.Is(err, services.ErrTagDeleted):
			utils.ConflictResponse(c, "Tag is deleted", nil)
		default:
			utils.InternalServerErrorResponse(c, "Failed to join tag", err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Joined tag", nil)
}

func (tc *TagController) Leave(c *gin.Context) {
	uid := c.GetString("uid")

	if err := tc.tagService.Leave(c.Request.Context(), c.Param("name"), uid); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to leave tag", err.Error())
		return
	}
	utils.SuccessResponse(c, "Left tag", nil)
}

func (tc *TagController) DeleteTag(c *gin.Context) {
	uid := c.GetString("uid")

	err := tc.tagService.SoftDeleteTag(c.Request.Context(), c.Param("name"), uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTagNotFound):
			utils.NotFoundResponse(c, "Tag not found")
		case errors.Is(err, services.ErrNotCreator):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalServerErrorResponse(c, "Failed to delete tag", err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Tag scheduled for deletion", nil)
}
