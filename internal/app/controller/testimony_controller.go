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

type TestimonyController struct {
	testimonyService service.TestimonyService
	authService      service.AuthService
}

func NewTestimonyController(testimonyService service.TestimonyService, authService service.AuthService) *TestimonyController {
	return &TestimonyController{
		testimonyService: testimonyService,
		authService:      authService,
	}
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// actor 인증된 사용자 + 해석된 권한 집합을 가져온다
func (ctrl *TestimonyController) actor(c *gin.Context) (*service.ResolvedAuthoritySet, bool) {
	set, ok := middleware.GetAuthoritySet(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return nil, false
	}
	return set, true
}

// CreateTestimony creates a testimony and fans out a broadcast notification
// POST /api/v1/testimonies
func (ctrl *TestimonyController) CreateTestimony(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req service.CreateTestimonyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	author, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get author")
		return
	}

	testimony, fanout, err := ctrl.testimonyService.CreateTestimony(author, &req)
	if err != nil {
		log.Error("Failed to create testimony", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create testimony")
		return
	}

	response := gin.H{"testimony": testimony}
	if fanout != nil && fanout.Warning != "" {
		response["warning"] = fanout.Warning
	}
	c.JSON(http.StatusCreated, response)
}

// GetTestimonies lists testimonies, newest first
// GET /api/v1/testimonies?author_id=&page=&limit=
func (ctrl *TestimonyController) GetTestimonies(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var authorID *uint
	if authorStr := c.Query("author_id"); authorStr != "" {
		parsed, err := strconv.ParseUint(authorStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 작성자 ID 형식입니다")
			return
		}
		id := uint(parsed)
		authorID = &id
	}

	testimonies, total, err := ctrl.testimonyService.GetTestimonies(userID, authorID, page, limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get testimonies")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"testimonies": testimonies,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// GetTestimony returns a testimony with like/comment counts
// GET /api/v1/testimonies/:id
func (ctrl *TestimonyController) GetTestimony(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	userID, _ := middleware.GetUserID(c)

	testimony, err := ctrl.testimonyService.GetTestimony(id, userID)
	if err != nil {
		if errors.Is(err, service.ErrTestimonyNotFound) {
			apperrors.NotFound(c, apperrors.TestimonyNotFound, "간증글을 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get testimony")
		return
	}

	c.JSON(http.StatusOK, gin.H{"testimony": testimony})
}

// UpdateTestimony updates a testimony (author or manager)
// PUT /api/v1/testimonies/:id
func (ctrl *TestimonyController) UpdateTestimony(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	actor, ok := ctrl.actor(c)
	if !ok {
		return
	}

	var req service.UpdateTestimonyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	testimony, err := ctrl.testimonyService.UpdateTestimony(id, actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTestimonyNotFound):
			apperrors.NotFound(c, apperrors.TestimonyNotFound, "간증글을 찾을 수 없습니다")
		case errors.Is(err, service.ErrTestimonyForbidden):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "작성자만 수정할 수 있습니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update testimony")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"testimony": testimony})
}

// DeleteTestimony deletes a testimony with its comments and likes
// DELETE /api/v1/testimonies/:id
func (ctrl *TestimonyController) DeleteTestimony(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	actor, ok := ctrl.actor(c)
	if !ok {
		return
	}

	if err := ctrl.testimonyService.DeleteTestimony(id, actor); err != nil {
		switch {
		case errors.Is(err, service.ErrTestimonyNotFound):
			apperrors.NotFound(c, apperrors.TestimonyNotFound, "간증글을 찾을 수 없습니다")
		case errors.Is(err, service.ErrTestimonyForbidden):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "작성자만 삭제할 수 있습니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete testimony")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "간증글이 삭제되었습니다"})
}

// ToggleLike toggles the caller's like on a testimony
// POST /api/v1/testimonies/:id/like
func (ctrl *TestimonyController) ToggleLike(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	liked, likeCount, err := ctrl.testimonyService.ToggleLike(id, user)
	if err != nil {
		if errors.Is(err, service.ErrTestimonyNotFound) {
			apperrors.NotFound(c, apperrors.TestimonyNotFound, "간증글을 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "toggle like")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_liked":   liked,
		"like_count": likeCount,
	})
}

// CreateComment creates a comment or reply on a testimony
// POST /api/v1/testimonies/:id/comments
func (ctrl *TestimonyController) CreateComment(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	comment, err := ctrl.testimonyService.CreateComment(id, user, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTestimonyNotFound):
			apperrors.NotFound(c, apperrors.TestimonyNotFound, "간증글을 찾을 수 없습니다")
		case errors.Is(err, service.ErrCommentNotFound):
			apperrors.NotFound(c, apperrors.CommentNotFound, "원 댓글을 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidParent):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "다른 글의 댓글에는 답글을 달 수 없습니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create comment")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// GetComments lists comments of a testimony
// GET /api/v1/testimonies/:id/comments
func (ctrl *TestimonyController) GetComments(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	comments, total, err := ctrl.testimonyService.GetComments(id, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrTestimonyNotFound) {
			apperrors.NotFound(c, apperrors.TestimonyNotFound, "간증글을 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"total":    total,
	})
}

// UpdateComment updates the caller's own comment
// PUT /api/v1/comments/:id
func (ctrl *TestimonyController) UpdateComment(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	comment, err := ctrl.testimonyService.UpdateComment(id, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			apperrors.NotFound(c, apperrors.CommentNotFound, "댓글을 찾을 수 없습니다")
		case errors.Is(err, service.ErrCommentForbidden):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인 댓글만 수정할 수 있습니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update comment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment deletes a comment (author or manager)
// DELETE /api/v1/comments/:id
func (ctrl *TestimonyController) DeleteComment(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	actor, ok := ctrl.actor(c)
	if !ok {
		return
	}

	if err := ctrl.testimonyService.DeleteComment(id, actor); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			apperrors.NotFound(c, apperrors.CommentNotFound, "댓글을 찾을 수 없습니다")
		case errors.Is(err, service.ErrCommentForbidden):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인 댓글만 삭제할 수 있습니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete comment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "댓글이 삭제되었습니다"})
}
