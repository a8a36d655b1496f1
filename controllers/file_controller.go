package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"partflow/services"
	"partflow/utils"
)

type FileController struct {
	fileService *services.FileService
}

func NewFileController(fileService *services.FileService) *FileController {
	return &FileController{fileService: fileService}
}

func (fc *FileController) ListFiles(c *gin.Context) {
	uid := c.GetString("uid")

	files, err := fc.fileService.ListForUser(c.Request.Context(), uid)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to list files", err.Error())
		return
	}
	utils.SuccessResponse(c, "Files loaded", files)
}

func (fc *FileController) GetFile(c *gin.Context) {
	file, err := fc.fileService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			utils.NotFoundResponse(c, "File not found")
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to load file", err.Error())
		return
	}
	utils.SuccessResponse(c, "File loaded", file)
}

// ListParts returns a file's parts. Parts are readable by any authenticated
// user: recipients learn part ids through assignments, not ownership.
func (fc *FileController) ListParts(c *gin.Context) {
	parts, err := fc.fileService.ListParts(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to list parts", err.Error())
		return
	}
	utils.SuccessResponse(c, "Parts loaded", parts)
}
