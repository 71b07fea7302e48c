package repository

import (
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"gorm.io/gorm"
)

// NotificationRepository 알림 저장소 인터페이스
type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByID(id uint) (*model.Notification, error)
	FindByUser(userID uint, notifType *model.NotificationType, isRead *bool, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(id uint) error
	MarkAllAsRead(userID uint) error
	MarkRelatedAsRead(userID uint, notifType model.NotificationType, relatedID uint) error
	Delete(id uint) error
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 알림 저장소 생성자
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) FindByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// FindByUser 알림 목록 조회 (타입/읽음 필터 + 페이지네이션)
func (r *notificationRepository) FindByUser(
	userID uint,
	notifType *model.NotificationType,
	isRead *bool,
	limit, offset int,
) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)

	if notifType != nil {
		query = query.Where("type = ?", *notifType)
	}
	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// GetUnreadCount 안읽은 알림 개수 = 배지 숫자
func (r *notificationRepository) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(id uint) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(userID uint) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// MarkRelatedAsRead 특정 컨텐츠에 딸린 알림을 한꺼번에 읽음 처리
// (예: 간증글 상세 화면 진입 시 그 글의 댓글/좋아요 알림 일괄 처리)
func (r *notificationRepository) MarkRelatedAsRead(userID uint, notifType model.NotificationType, relatedID uint) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND type = ? AND related_id = ? AND is_read = ?", userID, notifType, relatedID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) Delete(id uint) error {
	return r.db.Delete(&model.Notification{}, id).Error
}

// DeleteReadOlderThan 보존 기간이 지난 읽은 알림 정리 (스케줄러에서 호출)
func (r *notificationRepository) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
