package model

import (
	"time"

	"gorm.io/gorm"
)

// 조직 계층: 지부(Branch) > 지역(Region) > 그룹(Group) > 팀(Team)

type Branch struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Regions []Region `gorm:"foreignKey:BranchID" json:"regions,omitempty"`
}

func (Branch) TableName() string {
	return "branches"
}

type Region struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	BranchID  uint      `gorm:"not null;index" json:"branch_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Groups []Group `gorm:"foreignKey:RegionID" json:"groups,omitempty"`
}

func (Region) TableName() string {
	return "regions"
}

type Group struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RegionID  uint      `gorm:"not null;index" json:"region_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Teams []Team `gorm:"foreignKey:GroupID" json:"teams,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

type Team struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupID  uint   `gorm:"not null;index" json:"group_id"`
	Name     string `gorm:"not null" json:"name"`
	LeaderID *uint  `gorm:"index" json:"leader_id,omitempty"`

	Members []User `gorm:"many2many:team_members;" json:"members,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}
