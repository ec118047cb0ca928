package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucasorrentino/weekwise/internal/core/services"
)

type ExportHandler struct {
	svc *services.ExportService
}

func NewExportHandler(svc *services.ExportService) *ExportHandler {
	return &ExportHandler{
		svc: svc,
	}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/export/weeks/:week", h.ExportWeek)
}

// ExportWeek serves the week summary as json (default), csv or text,
// selected via the format query parameter.
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	export, err := h.svc.BuildWeekExport(c.Request.Context(), uid, c.Param("week"))
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, export)
	case "csv":
		body, err := h.svc.RenderCSV(export)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+export.WeekID+".csv")
		c.Data(http.StatusOK, "text/csv", []byte(body))
	case "text":
		c.String(http.StatusOK, h.svc.RenderText(export))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format, expected json, csv or text"})
	}
}
