package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/service"
	apperrors "github.com/sehyunahn/seum-backend/internal/errors"
	"github.com/sehyunahn/seum-backend/internal/middleware"
)

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

type MarkRelatedReadRequest struct {
	Type      model.NotificationType `json:"type" binding:"required"`
	RelatedID uint                   `json:"related_id" binding:"required"`
}

// GetNotifications lists the caller's notifications
// GET /api/v1/notifications?type=&is_read=&page=&limit=
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var notifType *model.NotificationType
	if typeStr := c.Query("type"); typeStr != "" {
		parsed := model.NotificationType(typeStr)
		notifType = &parsed
	}

	var isRead *bool
	if readStr := c.Query("is_read"); readStr != "" {
		parsed, err := strconv.ParseBool(readStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "is_read 값이 올바르지 않습니다")
			return
		}
		isRead = &parsed
	}

	notifications, total, unreadCount, err := ctrl.notificationService.GetNotifications(userID, notifType, isRead, page, limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
		"unread_count":  unreadCount,
		"page":          page,
		"page_size":     limit,
		"has_more":      int64(page*limit) < total,
	})
}

// GetUnreadCount returns the caller's unread badge count
// GET /api/v1/notifications/unread-count
func (ctrl *NotificationController) GetUnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	count, err := ctrl.notificationService.GetUnreadCount(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get unread count")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkAsRead marks one notification as read
// PUT /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	notification, err := ctrl.notificationService.MarkAsRead(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			apperrors.NotFound(c, apperrors.NotificationNotFound, "알림을 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotificationForbidden):
			apperrors.Forbidden(c, "본인 알림만 읽음 처리할 수 있습니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notification read")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": notification})
}

// MarkAllAsRead marks all of the caller's notifications as read
// PUT /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	if err := ctrl.notificationService.MarkAllAsRead(userID); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark all read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "모든 알림을 읽음 처리했습니다"})
}

// MarkRelatedAsRead marks notifications tied to one content item as read.
// 컨텐츠 상세 화면에 진입할 때 앱이 호출한다.
// PUT /api/v1/notifications/read-related
func (ctrl *NotificationController) MarkRelatedAsRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req MarkRelatedReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.notificationService.MarkRelatedAsRead(userID, req.Type, req.RelatedID); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark related read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "관련 알림을 읽음 처리했습니다"})
}

// DeleteNotification deletes one of the caller's notifications
// DELETE /api/v1/notifications/:id
func (ctrl *NotificationController) DeleteNotification(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := ctrl.notificationService.DeleteNotification(id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			apperrors.NotFound(c, apperrors.NotificationNotFound, "알림을 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotificationForbidden):
			apperrors.Forbidden(c, "본인 알림만 삭제할 수 있습니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete notification")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "알림이 삭제되었습니다"})
}
