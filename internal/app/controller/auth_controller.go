package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sehyunahn/seum-backend/internal/app/service"
	apperrors "github.com/sehyunahn/seum-backend/internal/errors"
	"github.com/sehyunahn/seum-backend/internal/middleware"
	"github.com/sehyunahn/seum-backend/pkg/util"
)

// TokenRevoker 로그아웃된 액세스 토큰을 남은 유효기간 동안 차단 목록에 올린다.
// nil이면 액세스 토큰 차단은 생략된다.
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, token string, expiry time.Duration) error
}

type AuthController struct {
	authService  service.AuthService
	revoker      TokenRevoker
	accessExpiry time.Duration
}

func NewAuthController(authService service.AuthService, revoker TokenRevoker, accessExpiry time.Duration) *AuthController {
	return &AuthController{
		authService:  authService,
		revoker:      revoker,
		accessExpiry: accessExpiry,
	}
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest 로그아웃 요청. 리프레시 토큰은 있을 때만 폐기한다.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type PushTokenRequest struct {
	PushToken string `json:"push_token"`
}

// Join handles user registration
// POST /api/v1/auth/join
func (ctrl *AuthController) Join(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid join request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, tokens, err := ctrl.authService.Join(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrPhoneAlreadyExists) {
			apperrors.Conflict(c, apperrors.AuthPhoneExists, "이미 가입된 전화번호입니다")
			return
		}
		if errors.Is(err, util.ErrPasswordTooShort) {
			apperrors.BadRequest(c, apperrors.AuthPasswordTooShort, "비밀번호는 8자 이상이어야 합니다")
			return
		}
		log.Error("Join failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "join")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, tokens, err := ctrl.authService.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "전화번호 또는 비밀번호가 올바르지 않습니다")
			return
		}
		log.Error("Login failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthRefreshInvalid, "다시 로그인해주세요")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Logout revokes the refresh token and blacklists the presented access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// 본문이 없거나 리프레시 토큰이 빠져 있어도 로그아웃은 진행한다
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if req.RefreshToken != "" {
		if err := ctrl.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			log.Warn("Failed to revoke refresh token", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// 지금 들고 온 액세스 토큰도 남은 유효기간 동안 차단한다
	if ctrl.revoker != nil {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if err := ctrl.revoker.BlacklistToken(c.Request.Context(), parts[1], ctrl.accessExpiry); err != nil {
					log.Warn("Failed to blacklist access token", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "로그아웃되었습니다"})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe updates the authenticated user's profile
// PATCH /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword changes the authenticated user's password
// PUT /api/v1/auth/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "현재 비밀번호가 올바르지 않습니다")
			return
		}
		if errors.Is(err, util.ErrPasswordTooShort) {
			apperrors.BadRequest(c, apperrors.AuthPasswordTooShort, "비밀번호는 8자 이상이어야 합니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "비밀번호가 변경되었습니다"})
}

// UpdatePushToken registers or clears the device push token
// PUT /api/v1/auth/push-token
func (ctrl *AuthController) UpdatePushToken(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.authService.UpdatePushToken(userID, req.PushToken); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update push token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "푸시 토큰이 갱신되었습니다"})
}
