package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasorrentino/weekwise/internal/adapters/handler/http/middleware"
	"github.com/lucasorrentino/weekwise/internal/core/domain"
	"github.com/lucasorrentino/weekwise/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name        string  `json:"name" binding:"required"`
	Color       string  `json:"color"`
	DailyTarget float64 `json:"daily_target"`
}

type updateHabitRequest struct {
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	DailyTarget *float64 `json:"daily_target"`
	Version     int      `json:"version" binding:"required"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/sync", h.Sync)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

func userID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextUserIDKey)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return id, true
}

func handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrHabitConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrHabitNameEmpty),
		errors.Is(err, domain.ErrHabitNameTooLong),
		errors.Is(err, domain.ErrInvalidTarget),
		errors.Is(err, domain.ErrInvalidColor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:      uid,
		Name:        req.Name,
		Color:       req.Color,
		DailyTarget: req.DailyTarget,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	habits, err := h.svc.ListByUserID(c.Request.Context(), uid)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habits)
}

func (h *HabitHandler) Sync(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	since, err := time.Parse(time.RFC3339, c.Query("since"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since parameter, expected RFC3339"})
		return
	}

	habits, err := h.svc.GetDelta(c.Request.Context(), uid, since)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habits)
}

func (h *HabitHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:          c.Param("id"),
		UserID:      uid,
		Name:        req.Name,
		Color:       req.Color,
		DailyTarget: req.DailyTarget,
		Version:     req.Version,
	})
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), uid); err != nil {
		handleHabitError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
