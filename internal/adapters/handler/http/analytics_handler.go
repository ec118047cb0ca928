package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lucasorrentino/weekwise/internal/core/domain"
	"github.com/lucasorrentino/weekwise/internal/core/services"
)

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc: svc,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/weeks/:week", h.GetWeekView)
		analytics.GET("/weeks/:week/insights", h.GetInsights)
	}
}

func handleAnalyticsError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidWeekID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func (h *AnalyticsHandler) GetWeekView(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	view, err := h.svc.GetWeekView(c.Request.Context(), uid, c.Param("week"))
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AnalyticsHandler) GetInsights(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	insights, err := h.svc.GetInsights(c.Request.Context(), uid, c.Param("week"), limit)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, insights)
}
