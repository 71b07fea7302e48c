package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sehyunahn/seum-backend/internal/app/service"
	apperrors "github.com/sehyunahn/seum-backend/internal/errors"
)

type OrganizationController struct {
	orgService service.OrganizationService
}

func NewOrganizationController(orgService service.OrganizationService) *OrganizationController {
	return &OrganizationController{orgService: orgService}
}

type TeamMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// GetBranches lists all branches
// GET /api/v1/organization/branches
func (ctrl *OrganizationController) GetBranches(c *gin.Context) {
	branches, err := ctrl.orgService.GetBranches()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get branches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches})
}

// GetRegions lists regions of a branch
// GET /api/v1/organization/branches/:id/regions
func (ctrl *OrganizationController) GetRegions(c *gin.Context) {
	branchID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	regions, err := ctrl.orgService.GetRegions(branchID)
	if err != nil {
		if errors.Is(err, service.ErrBranchNotFound) {
			apperrors.NotFound(c, apperrors.OrgBranchNotFound, "지부를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get regions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

// GetGroups lists groups of a region
// GET /api/v1/organization/regions/:id/groups
func (ctrl *OrganizationController) GetGroups(c *gin.Context) {
	regionID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	groups, err := ctrl.orgService.GetGroups(regionID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get groups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetTeams lists teams of a group
// GET /api/v1/organization/groups/:id/teams
func (ctrl *OrganizationController) GetTeams(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	teams, err := ctrl.orgService.GetTeams(groupID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get teams")
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// GetTeam returns a team with its members
// GET /api/v1/organization/teams/:id
func (ctrl *OrganizationController) GetTeam(c *gin.Context) {
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	team, err := ctrl.orgService.GetTeam(teamID)
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			apperrors.NotFound(c, apperrors.OrgTeamNotFound, "팀을 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": team})
}

// AddTeamMember adds a member to a team
// POST /api/v1/organization/teams/:id/members
func (ctrl *OrganizationController) AddTeamMember(c *gin.Context) {
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.orgService.AddTeamMember(teamID, req.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrTeamNotFound):
			apperrors.NotFound(c, apperrors.OrgTeamNotFound, "팀을 찾을 수 없습니다")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
		case errors.Is(err, service.ErrAlreadyTeamMember):
			apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "이미 팀에 속한 사용자입니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add team member")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "팀원이 추가되었습니다"})
}

// RemoveTeamMember removes a member from a team
// DELETE /api/v1/organization/teams/:id/members/:userId
func (ctrl *OrganizationController) RemoveTeamMember(c *gin.Context) {
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return
	}

	if err := ctrl.orgService.RemoveTeamMember(teamID, userID); err != nil {
		if errors.Is(err, service.ErrNotTeamMember) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "팀에 속하지 않은 사용자입니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove team member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "팀원이 제거되었습니다"})
}
