package model

import (
	"time"

	"gorm.io/gorm"
)

// Notice 공지사항
type Notice struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title    string `gorm:"type:text;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	IsPinned bool   `gorm:"default:false;index" json:"is_pinned"`
}

func (Notice) TableName() string {
	return "notices"
}
