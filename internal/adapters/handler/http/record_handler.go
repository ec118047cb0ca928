package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasorrentino/weekwise/internal/core/domain"
	"github.com/lucasorrentino/weekwise/internal/core/services"
)

type RecordHandler struct {
	svc *services.RecordService
}

func NewRecordHandler(svc *services.RecordService) *RecordHandler {
	return &RecordHandler{
		svc: svc,
	}
}

type setHoursRequest struct {
	Hours   float64 `json:"hours"`
	Version int     `json:"version"`
}

type toggleDayRequest struct {
	Version int `json:"version"`
}

func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	weeks := router.Group("/weeks/:week")
	{
		weeks.GET("/records", h.GetWeek)
		weeks.POST("/habits/:habitID/days/:day/toggle", h.ToggleDay)
		weeks.PUT("/habits/:habitID/days/:day/hours", h.SetHours)
	}
	router.GET("/records/sync", h.Sync)
}

func handleRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrRecordConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "record version conflict"})
	case errors.Is(err, domain.ErrInvalidWeekID),
		errors.Is(err, domain.ErrInvalidDayIndex),
		errors.Is(err, domain.ErrInvalidHours):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || !domain.ValidDayIndex(day) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day index, expected 0-6"})
		return 0, false
	}
	return day, true
}

func (h *RecordHandler) GetWeek(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	records, err := h.svc.GetWeek(c.Request.Context(), uid, c.Param("week"))
	if err != nil {
		handleRecordError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *RecordHandler) ToggleDay(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	day, ok := dayParam(c)
	if !ok {
		return
	}

	var req toggleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	record, err := h.svc.ToggleDay(c.Request.Context(), services.ToggleDayInput{
		HabitID: c.Param("habitID"),
		UserID:  uid,
		WeekID:  c.Param("week"),
		Day:     day,
		Version: req.Version,
	})
	if err != nil {
		handleRecordError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) SetHours(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	day, ok := dayParam(c)
	if !ok {
		return
	}

	var req setHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	record, err := h.svc.SetHours(c.Request.Context(), services.SetHoursInput{
		HabitID: c.Param("habitID"),
		UserID:  uid,
		WeekID:  c.Param("week"),
		Day:     day,
		Hours:   req.Hours,
		Version: req.Version,
	})
	if err != nil {
		handleRecordError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) Sync(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	since, err := time.Parse(time.RFC3339, c.Query("since"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since parameter, expected RFC3339"})
		return
	}

	records, err := h.svc.GetDelta(c.Request.Context(), uid, since)
	if err != nil {
		handleRecordError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
