package routes

import (
	"github.com/gin-gonic/gin"

	"partflow/controllers"
	"partflow/services"
)

// RegisterParseRoutes wires the upload gateway. It carries no JWT
// middleware: the bearer value is the caller's uid, taken on trust exactly
// as the original gateway did.
func RegisterParseRoutes(rg *gin.RouterGroup, parseService *services.ParseService, maxUploadSize int64) {
	parseController := controllers.NewParseController(parseService, maxUploadSize)

	rg.POST("/parse", parseController.ParseUpload)
}
