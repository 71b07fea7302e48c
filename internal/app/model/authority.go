package model

import (
	"time"

	"gorm.io/gorm"
)

// 권한 체계: 숫자 레벨이 낮을수록 상위 권한이다.
// 한 사용자가 동시에 여러 권한을 보유할 수 있고 (겸직),
// users.authority 단일 컬럼은 하위 호환용 표시 미러로만 유지한다.

const (
	AuthorityRepresentative  = "REPRESENTATIVE"   // 대표 (level 0)
	AuthorityGeneralDirector = "GENERAL_DIRECTOR" // 총괄 (level 1)
	AuthorityBranchDirector  = "BRANCH_DIRECTOR"  // 지부장 (level 2)
	AuthorityRegionDirector  = "REGION_DIRECTOR"  // 지역장 (level 3)
	AuthorityTeamLeader      = "TEAM_LEADER"      // 팀장 (level 4)
	AuthorityLeader          = "LEADER"           // 리더 (level 5, 기본 권한)
)

// DefaultAuthorityDisplayName 기본 권한(리더)의 표시명
const DefaultAuthorityDisplayName = "리더"

const (
	// LevelManageTraining 훈련 관리 가능 최소 레벨 (지부장 이상)
	LevelManageTraining = 2
	// LevelManageUsers 사용자 관리 가능 최소 레벨 (팀장 이상)
	LevelManageUsers = 4
	// LevelDefault 기본 권한(리더) 레벨
	LevelDefault = 5
	// NoPrivilegeLevel 권한 없음 센티널 값
	NoPrivilegeLevel = 999
)

// AuthorityCategory 권한 분류 (사역/조직)
type AuthorityCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AuthorityCategory) TableName() string {
	return "authority_categories"
}

// Authority 권한(역할) 기준 데이터
type Authority struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	CategoryID  uint               `gorm:"not null;index" json:"category_id"`
	Category    *AuthorityCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name        string             `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string             `gorm:"not null" json:"display_name"`
	Level       int                `gorm:"not null;index" json:"level"` // 낮을수록 상위
	CreatedAt   time.Time          `json:"created_at"`
}

func (Authority) TableName() string {
	return "authorities"
}

// UserAuthority 사용자-권한 배정. 해제는 is_active=false로만 처리해
// 배정 이력을 보존한다 (행 삭제 금지).
type UserAuthority struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"not null;uniqueIndex:idx_user_authority" json:"user_id"`
	AuthorityID uint           `gorm:"not null;uniqueIndex:idx_user_authority" json:"authority_id"`
	Authority   *Authority     `gorm:"foreignKey:AuthorityID" json:"authority,omitempty"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	AssignedBy  uint           `json:"assigned_by"`
	AssignedAt  time.Time      `json:"assigned_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserAuthority) TableName() string {
	return "user_authorities"
}
