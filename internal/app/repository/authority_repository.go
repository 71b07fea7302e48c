package repository

import (
	"errors"
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"gorm.io/gorm"
)

// AuthorityRepository 권한 저장소 인터페이스
type AuthorityRepository interface {
	ListAuthorities() ([]model.Authority, error)
	FindAuthorityByID(id uint) (*model.Authority, error)
	FindAuthorityByName(name string) (*model.Authority, error)
	FindActiveByUserID(userID uint) ([]model.UserAuthority, error)
	UpsertAssignment(userID, authorityID, assignedBy uint) error
	DeactivateAssignment(userID, authorityID uint) error
}

type authorityRepository struct {
	db *gorm.DB
}

// NewAuthorityRepository 권한 저장소 생성자
func NewAuthorityRepository(db *gorm.DB) AuthorityRepository {
	return &authorityRepository{db: db}
}

// ListAuthorities 전체 권한 기준 데이터 (레벨 오름차순 = 상위 권한 먼저)
func (r *authorityRepository) ListAuthorities() ([]model.Authority, error) {
	var authorities []model.Authority
	err := r.db.Preload("Category").Order("level ASC").Find(&authorities).Error
	return authorities, err
}

func (r *authorityRepository) FindAuthorityByID(id uint) (*model.Authority, error) {
	var authority model.Authority
	if err := r.db.Preload("Category").First(&authority, id).Error; err != nil {
		return nil, err
	}
	return &authority, nil
}

func (r *authorityRepository) FindAuthorityByName(name string) (*model.Authority, error) {
	var authority model.Authority
	if err := r.db.Preload("Category").Where("name = ?", name).First(&authority).Error; err != nil {
		return nil, err
	}
	return &authority, nil
}

// FindActiveByUserID 사용자의 활성 권한 배정 목록을 레벨 오름차순으로 조회
func (r *authorityRepository) FindActiveByUserID(userID uint) ([]model.UserAuthority, error) {
	var assignments []model.UserAuthority
	err := r.db.
		Joins("JOIN authorities ON authorities.id = user_authorities.authority_id").
		Preload("Authority.Category").
		Where("user_authorities.user_id = ? AND user_authorities.is_active = ?", userID, true).
		Order("authorities.level ASC").
		Find(&assignments).Error
	return assignments, err
}

// UpsertAssignment 권한 배정. 같은 (사용자, 권한) 쌍의 배정이 이미 있으면
// 비활성이어도 새 행을 만들지 않고 재활성화한다 (멱등 ensure-active).
func (r *authorityRepository) UpsertAssignment(userID, authorityID, assignedBy uint) error {
	var existing model.UserAuthority
	err := r.db.Where("user_id = ? AND authority_id = ?", userID, authorityID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		assignment := model.UserAuthority{
			UserID:      userID,
			AuthorityID: authorityID,
			IsActive:    true,
			AssignedBy:  assignedBy,
			AssignedAt:  time.Now(),
		}
		return r.db.Create(&assignment).Error
	}
	if err != nil {
		return err
	}

	return r.db.Model(&existing).Updates(map[string]interface{}{
		"is_active":   true,
		"assigned_by": assignedBy,
		"assigned_at": time.Now(),
	}).Error
}

// DeactivateAssignment 권한 배정 해제 (soft-deactivation).
// 활성 배정이 없어도 에러가 아니다: "이 권한은 활성이면 안 된다"는 선언이다.
func (r *authorityRepository) DeactivateAssignment(userID, authorityID uint) error {
	return r.db.Model(&model.UserAuthority{}).
		Where("user_id = ? AND authority_id = ? AND is_active = ?", userID, authorityID, true).
		Update("is_active", false).Error
}
