package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
)

// 읽은 알림을 보관하는 기간. 지나면 새벽 정리 작업이 지운다.
const readNotificationRetention = 90 * 24 * time.Hour

// NotificationScheduler 오래된 알림 정리 스케줄러
type NotificationScheduler struct {
	cron             *cron.Cron
	notificationRepo repository.NotificationRepository
}

// NewNotificationScheduler 알림 정리 스케줄러 생성
func NewNotificationScheduler(notificationRepo repository.NotificationRepository) *NotificationScheduler {
	return &NotificationScheduler{
		cron:             cron.New(),
		notificationRepo: notificationRepo,
	}
}

// Start 스케줄러 시작
func (s *NotificationScheduler) Start() error {
	// 매일 새벽 4시에 90일 지난 읽은 알림 정리
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		cutoff := time.Now().Add(-readNotificationRetention)

		deleted, err := s.notificationRepo.DeleteReadOlderThan(cutoff)
		if err != nil {
			logger.Error("Failed to purge old notifications", err)
			return
		}

		logger.Info("Purged old read notifications", map[string]interface{}{
			"deleted": deleted,
			"cutoff":  cutoff.Format(time.RFC3339),
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for notification purge", err)
		return err
	}

	s.cron.Start()
	logger.Info("Notification purge scheduler started (daily at 4:00 AM)")

	return nil
}

// Stop 스케줄러 중지
func (s *NotificationScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Notification purge scheduler stopped")
}
