package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeNotice    NotificationType = "notice"
	NotificationTypeTestimony NotificationType = "testimony"
	NotificationTypeLike      NotificationType = "like"
	NotificationTypeComment   NotificationType = "comment"
	NotificationTypeReply     NotificationType = "reply"
	NotificationTypeSystem    NotificationType = "system"
)

// Notification 알림. 수신자별로 한 행씩 생성되고 수신자만 상태를 바꿀 수 있다.
// 읽음 전환 외의 수정은 없다.
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	Type    NotificationType `gorm:"type:varchar(20);not null;index" json:"type"`
	Title   string           `gorm:"type:text;not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"` // 원문에서 잘라낸 본문

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	RelatedID  *uint  `gorm:"index" json:"related_id,omitempty"` // 관련 컨텐츠 ID
	SenderID   *uint  `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name"`
}

func (Notification) TableName() string {
	return "notifications"
}
