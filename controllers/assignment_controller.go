package controllers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"partflow/models"
	"partflow/services"
	"partflow/utils"
)

type AssignmentController struct {
	assignmentService *services.AssignmentService
}

func NewAssignmentController(assignmentService *services.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

type createAssignmentRequest struct {
	FileID         string             `json:"file_id" binding:"required"`
	PartIDs        []string           `json:"part_ids" binding:"required"`
	Recipients     []models.Recipient `json:"recipients" binding:"required"`
	AssignmentName string             `json:"assignment_name"`
}

func (ac *AssignmentController) CreateAssignment(c *gin.Context) {
	uid := c.GetString("uid")

	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid assignment payload", err.Error())
		return
	}
	for i, r := range req.Recipients {
		if err := validateRecipient(r); err != nil {
			utils.BadRequestResponse(c, fmt.Sprintf("Invalid recipient at index %d", i), err.Error())
			return
		}
	}

	assignment := &models.Assignment{
		FileID:         req.FileID,
		PartIDs:        req.PartIDs,
		AssignedBy:     uid,
		Recipients:     req.Recipients,
		AssignmentName: req.AssignmentName,
	}

	id, err := ac.assignmentService.Create(c.Request.Context(), assignment)
	if err != nil {
		if errors.Is(err, services.ErrNoRecipients) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to create assignment", err.Error())
		return
	}

	utils.CreatedResponse(c, "Assignment created", gin.H{"id": id})
}

// validateRecipient enforces the tagged union at the API boundary. The
// fan-out trigger skips malformed entries with a diagnostic; the HTTP path
// rejects them up front so they never reach the store.
func validateRecipient(r models.Recipient) error {
	switch r.Type {
	case models.RecipientUser:
		if r.UID == "" {
			return fmt.Errorf("user recipient requires uid")
		}
	case models.RecipientGroup:
		if r.GroupID == "" {
			return fmt.Errorf("group recipient requires group_id")
		}
	default:
		return fmt.Errorf("unknown recipient type %q", r.Type)
	}
	return nil
}

func (ac *AssignmentController) ListMyAssignments(c *gin.Context) {
	uid := c.GetString("uid")

	copies, err := ac.assignmentService.ListCopiesForUser(c.Request.Context(), uid)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to list assignments", err.Error())
		return
	}
	utils.SuccessResponse(c, "Assignments loaded", copies)
}
