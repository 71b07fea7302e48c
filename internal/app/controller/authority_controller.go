package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sehyunahn/seum-backend/internal/app/service"
	apperrors "github.com/sehyunahn/seum-backend/internal/errors"
	"github.com/sehyunahn/seum-backend/internal/middleware"
)

type AuthorityController struct {
	authorityService service.AuthorityService
}

func NewAuthorityController(authorityService service.AuthorityService) *AuthorityController {
	return &AuthorityController{authorityService: authorityService}
}

type AssignAuthorityRequest struct {
	AuthorityID uint `json:"authority_id" binding:"required"`
}

// ListAuthorities returns the authority reference data
// GET /api/v1/authorities
func (ctrl *AuthorityController) ListAuthorities(c *gin.Context) {
	authorities, err := ctrl.authorityService.ListAuthorities()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list authorities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorities": authorities})
}

// GetMyAuthorities returns the caller's resolved authority set
// GET /api/v1/authorities/me
func (ctrl *AuthorityController) GetMyAuthorities(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	ctrl.respondResolved(c, userID)
}

// GetUserAuthorities returns a member's resolved authority set
// GET /api/v1/users/:id/authorities
func (ctrl *AuthorityController) GetUserAuthorities(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	ctrl.respondResolved(c, userID)
}

func (ctrl *AuthorityController) respondResolved(c *gin.Context, userID uint) {
	set, err := ctrl.authorityService.Resolve(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "resolve authorities")
		return
	}
	c.JSON(http.StatusOK, set)
}

// AssignAuthority grants an authority to a member
// POST /api/v1/users/:id/authorities
func (ctrl *AuthorityController) AssignAuthority(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req AssignAuthorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.authorityService.AddAuthority(targetID, req.AuthorityID, actorID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
		case errors.Is(err, service.ErrAuthorityNotFound):
			apperrors.NotFound(c, apperrors.AuthorityNotFound, "존재하지 않는 권한입니다")
		default:
			log.Error("Failed to assign authority", err, map[string]interface{}{
				"target_id":    targetID,
				"authority_id": req.AuthorityID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "assign authority")
		}
		return
	}

	ctrl.respondResolved(c, targetID)
}

// RemoveAuthority revokes an authority from a member
// DELETE /api/v1/users/:id/authorities/:authorityId
func (ctrl *AuthorityController) RemoveAuthority(c *gin.Context) {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	authorityID, err := parseIDParam(c, "authorityId")
	if err != nil {
		return
	}

	if err := ctrl.authorityService.RemoveAuthority(targetID, authorityID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove authority")
		return
	}

	ctrl.respondResolved(c, targetID)
}
