package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sehyunahn/seum-backend/internal/app/service"
	apperrors "github.com/sehyunahn/seum-backend/internal/errors"
	"github.com/sehyunahn/seum-backend/internal/middleware"
)

type EventController struct {
	eventService service.EventService
}

func NewEventController(eventService service.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// CreateEvent creates an event
// POST /api/v1/events
func (ctrl *EventController) CreateEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	event, err := ctrl.eventService.CreateEvent(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEventTime) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "종료 시각은 시작 시각 이후여야 합니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// GetEvents lists upcoming events, optionally filtered by branch
// GET /api/v1/events?branch_id=&page=&limit=
func (ctrl *EventController) GetEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var branchID *uint
	if branchStr := c.Query("branch_id"); branchStr != "" {
		parsed, err := strconv.ParseUint(branchStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 지부 ID 형식입니다")
			return
		}
		id := uint(parsed)
		branchID = &id
	}

	events, total, err := ctrl.eventService.GetUpcomingEvents(branchID, page, limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetEvent returns an event by ID
// GET /api/v1/events/:id
func (ctrl *EventController) GetEvent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	event, err := ctrl.eventService.GetEvent(id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			apperrors.NotFound(c, apperrors.EventNotFound, "행사를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEvent updates an event
// PUT /api/v1/events/:id
func (ctrl *EventController) UpdateEvent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	event, err := ctrl.eventService.UpdateEvent(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			apperrors.NotFound(c, apperrors.EventNotFound, "행사를 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidEventTime):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "종료 시각은 시작 시각 이후여야 합니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update event")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent deletes an event
// DELETE /api/v1/events/:id
func (ctrl *EventController) DeleteEvent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := ctrl.eventService.DeleteEvent(id); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			apperrors.NotFound(c, apperrors.EventNotFound, "행사를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "행사가 삭제되었습니다"})
}
