package service

import (
	"errors"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBranchNotFound    = errors.New("branch not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrAlreadyTeamMember = errors.New("user is already a member of this team")
	ErrNotTeamMember     = errors.New("user is not a member of this team")
)

// OrganizationService 조직(지부>지역>그룹>팀) 조회 및 팀원 관리 서비스
type OrganizationService interface {
	GetBranches() ([]model.Branch, error)
	GetBranch(id uint) (*model.Branch, error)
	GetRegions(branchID uint) ([]model.Region, error)
	GetGroups(regionID uint) ([]model.Group, error)
	GetTeam(id uint) (*model.Team, error)
	GetTeams(groupID uint) ([]model.Team, error)
	AddTeamMember(teamID, userID uint) error
	RemoveTeamMember(teamID, userID uint) error
}

type organizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOrganizationService 조직 서비스 생성자
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) OrganizationService {
	return &organizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

func (s *organizationService) GetBranches() ([]model.Branch, error) {
	return s.orgRepo.FindBranches()
}

func (s *organizationService) GetBranch(id uint) (*model.Branch, error) {
	branch, err := s.orgRepo.FindBranchByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return branch, nil
}

func (s *organizationService) GetRegions(branchID uint) ([]model.Region, error) {
	if _, err := s.orgRepo.FindBranchByID(branchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return s.orgRepo.FindRegionsByBranch(branchID)
}

func (s *organizationService) GetGroups(regionID uint) ([]model.Group, error) {
	return s.orgRepo.FindGroupsByRegion(regionID)
}

func (s *organizationService) GetTeam(id uint) (*model.Team, error) {
	team, err := s.orgRepo.FindTeamByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *organizationService) GetTeams(groupID uint) ([]model.Team, error) {
	return s.orgRepo.FindTeamsByGroup(groupID)
}

// AddTeamMember 팀원 추가. 이미 팀원이면 에러.
func (s *organizationService) AddTeamMember(teamID, userID uint) error {
	if _, err := s.orgRepo.FindTeamByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	isMember, err := s.orgRepo.IsTeamMember(teamID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return ErrAlreadyTeamMember
	}

	if err := s.orgRepo.AddTeamMember(teamID, userID); err != nil {
		logger.Error("Failed to add team member", err, map[string]interface{}{
			"team_id": teamID,
			"user_id": userID,
		})
		return err
	}
	return nil
}

// RemoveTeamMember 팀원 제거. 팀원이 아니면 에러.
func (s *organizationService) RemoveTeamMember(teamID, userID uint) error {
	isMember, err := s.orgRepo.IsTeamMember(teamID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotTeamMember
	}
	return s.orgRepo.RemoveTeamMember(teamID, userID)
}
