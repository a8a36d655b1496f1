package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"partflow/middleware"
	"partflow/services"
	"partflow/utils"
)

// ParseController is the upload gateway. Unlike the rest of the API it
// speaks plain text: the response body is the parser output on success and
// the failure message on error, with the new file id in the X-File-Id
// header.
type ParseController struct {
	parseService  *services.ParseService
	maxUploadSize int64
}

func NewParseController(parseService *services.ParseService, maxUploadSize int64) *ParseController {
	return &ParseController{
		parseService:  parseService,
		maxUploadSize: maxUploadSize,
	}
}

func (pc *ParseController) ParseUpload(c *gin.Context) {
	// The bearer value is taken as the caller's uid without verification;
	// this endpoint keeps the original gateway's trust model.
	uid := middleware.BearerUID(c)

	fileName := c.GetHeader("X-File-Name")
	if fileName == "" {
		fileName = "out.xml"
	}
	if err := utils.ValidateFileName(fileName); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, pc.maxUploadSize+1))
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to read upload body")
		return
	}
	if err := utils.ValidateUploadSize(int64(len(body)), pc.maxUploadSize); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	fileID, yamlText, err := pc.parseService.HandleUpload(c.Request.Context(), uid, fileName, body)
	if err != nil {
		var parserErr *services.ParserError
		if errors.As(err, &parserErr) {
			c.String(http.StatusInternalServerError, parserErr.Message)
			return
		}
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.Header("X-File-Id", fileID)
	c.String(http.StatusOK, yamlText)
}
