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

type NoticeController struct {
	noticeService service.NoticeService
	authService   service.AuthService
}

func NewNoticeController(noticeService service.NoticeService, authService service.AuthService) *NoticeController {
	return &NoticeController{
		noticeService: noticeService,
		authService:   authService,
	}
}

// CreateNotice creates a notice and fans out a broadcast notification
// POST /api/v1/notices
func (ctrl *NoticeController) CreateNotice(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req service.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	author, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get author")
		return
	}

	notice, fanout, err := ctrl.noticeService.CreateNotice(author, &req)
	if err != nil {
		log.Error("Failed to create notice", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create notice")
		return
	}

	response := gin.H{"notice": notice}
	// 발송 실패는 경고로만 싣는다: 공지 작성 자체는 성공이다
	if fanout != nil && fanout.Warning != "" {
		response["warning"] = fanout.Warning
	}
	c.JSON(http.StatusCreated, response)
}

// GetNotices lists notices, pinned first
// GET /api/v1/notices
func (ctrl *NoticeController) GetNotices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notices, total, err := ctrl.noticeService.GetNotices(page, limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get notices")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notices": notices,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetNotice returns a notice by ID
// GET /api/v1/notices/:id
func (ctrl *NoticeController) GetNotice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	notice, err := ctrl.noticeService.GetNotice(id)
	if err != nil {
		if errors.Is(err, service.ErrNoticeNotFound) {
			apperrors.NotFound(c, apperrors.NoticeNotFound, "공지를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get notice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notice": notice})
}

// UpdateNotice updates a notice
// PUT /api/v1/notices/:id
func (ctrl *NoticeController) UpdateNotice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req service.UpdateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	notice, err := ctrl.noticeService.UpdateNotice(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoticeNotFound) {
			apperrors.NotFound(c, apperrors.NoticeNotFound, "공지를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update notice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notice": notice})
}

// DeleteNotice deletes a notice
// DELETE /api/v1/notices/:id
func (ctrl *NoticeController) DeleteNotice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := ctrl.noticeService.DeleteNotice(id); err != nil {
		if errors.Is(err, service.ErrNoticeNotFound) {
			apperrors.NotFound(c, apperrors.NoticeNotFound, "공지를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete notice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "공지가 삭제되었습니다"})
}
