package repository

import (
	"github.com/sehyunahn/seum-backend/internal/app/model"
	"gorm.io/gorm"
)

// OrganizationRepository 조직(지부/지역/그룹/팀) 저장소 인터페이스
type OrganizationRepository interface {
	FindBranches() ([]model.Branch, error)
	FindBranchByID(id uint) (*model.Branch, error)
	FindRegionsByBranch(branchID uint) ([]model.Region, error)
	FindGroupsByRegion(regionID uint) ([]model.Group, error)
	FindTeamByID(id uint) (*model.Team, error)
	FindTeamsByGroup(groupID uint) ([]model.Team, error)
	AddTeamMember(teamID, userID uint) error
	RemoveTeamMember(teamID, userID uint) error
	IsTeamMember(teamID, userID uint) (bool, error)
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository 조직 저장소 생성자
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) FindBranches() ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.Preload("Regions").Order("name ASC").Find(&branches).Error
	return branches, err
}

func (r *organizationRepository) FindBranchByID(id uint) (*model.Branch, error) {
	var branch model.Branch
	if err := r.db.Preload("Regions.Groups").First(&branch, id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *organizationRepository) FindRegionsByBranch(branchID uint) ([]model.Region, error) {
	var regions []model.Region
	err := r.db.Where("branch_id = ?", branchID).Order("name ASC").Find(&regions).Error
	return regions, err
}

func (r *organizationRepository) FindGroupsByRegion(regionID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.Where("region_id = ?", regionID).Order("name ASC").Find(&groups).Error
	return groups, err
}

func (r *organizationRepository) FindTeamByID(id uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.Preload("Members").First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *organizationRepository) FindTeamsByGroup(groupID uint) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.Where("group_id = ?", groupID).Order("name ASC").Find(&teams).Error
	return teams, err
}

func (r *organizationRepository) AddTeamMember(teamID, userID uint) error {
	team := model.Team{ID: teamID}
	return r.db.Model(&team).Association("Members").Append(&model.User{ID: userID})
}

func (r *organizationRepository) RemoveTeamMember(teamID, userID uint) error {
	team := model.Team{ID: teamID}
	return r.db.Model(&team).Association("Members").Delete(&model.User{ID: userID})
}

func (r *organizationRepository) IsTeamMember(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("team_members").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}
