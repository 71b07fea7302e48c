package model

import (
	"time"

	"gorm.io/gorm"
)

// Testimony 간증글 (멤버가 작성하는 나눔)
type Testimony struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title    string `gorm:"type:text;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`

	LikeCount    int64 `gorm:"-" json:"like_count"`
	CommentCount int64 `gorm:"-" json:"comment_count"`
	IsLiked      bool  `gorm:"-" json:"is_liked"`
}

func (Testimony) TableName() string {
	return "testimonies"
}

// TestimonyLike 간증글 좋아요 (사용자당 1회)
type TestimonyLike struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	TestimonyID uint      `gorm:"not null;uniqueIndex:idx_testimony_like" json:"testimony_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_testimony_like" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TestimonyLike) TableName() string {
	return "testimony_likes"
}

// Comment 간증글 댓글. ParentID가 있으면 대댓글.
type Comment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TestimonyID uint   `gorm:"not null;index" json:"testimony_id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParentID    *uint  `gorm:"index" json:"parent_id,omitempty"`
	Content     string `gorm:"type:text;not null" json:"content"`
}

func (Comment) TableName() string {
	return "comments"
}
