package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Event 행사/일정
type Event struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy   uint           `gorm:"not null;index" json:"created_by"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `json:"location"`
	StartsAt    time.Time      `gorm:"not null;index" json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
	BranchID    *uint          `gorm:"index" json:"branch_id,omitempty"` // 특정 지부 행사면 지정
	ImageURLs   pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"image_urls"` // 이미지 URL 목록 (저장은 외부, URL만 관리)
}

func (Event) TableName() string {
	return "events"
}
