package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aharui/backend/internal/service"
)

type ExportHandler struct {
	exports service.IExportService
}

func NewExportHandler(exports service.IExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/export", h.Export)
}

func (h *ExportHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.exports.Export(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
