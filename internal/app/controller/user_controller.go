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

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetUsers lists members with search and pagination
// GET /api/v1/users?search=&page=&limit=
func (ctrl *UserController) GetUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")

	users, total, err := ctrl.userService.GetUsers(search, page, limit)
	if err != nil {
		log.Error("Failed to fetch users", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUser returns a member by ID
// GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	user, err := ctrl.userService.GetUser(id)
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

// ExportRoster downloads the full member roster as an Excel file
// GET /api/v1/users/export
func (ctrl *UserController) ExportRoster(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, filename, err := ctrl.userService.ExportRoster()
	if err != nil {
		log.Error("Failed to export roster", err, nil)
		apperrors.InternalError(c, "명단 파일 생성에 실패했습니다")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// parseIDParam parses a numeric path parameter, responding 400 on failure
func parseIDParam(c *gin.Context, name string) (uint, error) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID 형식입니다")
		return 0, err
	}
	return uint(id), nil
}
