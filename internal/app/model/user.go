package model

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                 // 사용자 ID
	Phone        string         `gorm:"uniqueIndex;not null" json:"phone"`    // 전화번호 (로그인 키, 숫자만 저장)
	PasswordHash string         `gorm:"not null" json:"-"`                    // 비밀번호 해시
	Name         string         `gorm:"not null" json:"name"`                 // 이름
	Email        string         `json:"email"`                                // 이메일
	Birthday     *time.Time     `json:"birthday,omitempty"`                   // 생년월일
	Gender       Gender         `gorm:"type:varchar(10)" json:"gender"`       // 성별
	School       string         `json:"school"`                               // 학교
	AcademicYear int            `json:"academic_year"`                        // 학년
	Authority    string         `json:"authority"`                            // 레거시 단일 권한 표시명 (쓰기 전용 미러, 판단에 사용 금지)
	RegionID     *uint          `gorm:"index" json:"region_id,omitempty"`     // 소속 지역
	GroupID      *uint          `gorm:"index" json:"group_id,omitempty"`      // 소속 그룹
	PushToken    string         `json:"-"`                                    // FCM 푸시 토큰 (nullable)
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Region *Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`
	Group  *Group  `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Teams  []Team  `gorm:"many2many:team_members;" json:"teams,omitempty"` // 소속 팀 목록
}

func (User) TableName() string {
	return "users"
}
