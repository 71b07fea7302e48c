package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/websocket"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"github.com/sehyunahn/seum-backend/pkg/push/fcm"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrNotificationForbidden = errors.New("notification belongs to another user")
)

const (
	// 알림 피드 행에 저장하는 본문 최대 길이
	feedMessageLimit = 100
	// 푸시 페이로드 본문 최대 길이 (피드보다 길다: 제한 주체가 다름)
	pushBodyLimit = 240

	// WarningPushUnavailable 푸시 제공자 미설정 시 응답에 싣는 경고 문구.
	// 본 작업은 성공 처리하고 발송만 건너뛴다.
	WarningPushUnavailable = "푸시 서비스가 설정되지 않아 알림이 발송되지 않았습니다"
)

// FanoutResult 브로드캐스트 팬아웃 결과 요약
type FanoutResult struct {
	Recipients int    // 알림 행이 만들어진 수신자 수
	Queued     int    // 발송 배치에 실린 대상 수
	Warning    string // 비치명 경고 (없으면 빈 문자열)
}

// NotificationService 알림 서비스 인터페이스
type NotificationService interface {
	GetNotifications(userID uint, notifType *model.NotificationType, isRead *bool, page, pageSize int) ([]model.Notification, int64, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) (*model.Notification, error)
	MarkAllAsRead(userID uint) error
	MarkRelatedAsRead(userID uint, notifType model.NotificationType, relatedID uint) error
	DeleteNotification(notificationID, userID uint) error

	// Fan-out triggers. 컨텐츠 생성 트랜잭션이 커밋된 뒤에 호출되고,
	// 여기서 나는 에러는 호출자의 응답을 실패시키지 않는다.
	BroadcastNoticeCreated(notice *model.Notice, sender *model.User) *FanoutResult
	BroadcastTestimonyCreated(testimony *model.Testimony, sender *model.User) *FanoutResult
	NotifyTestimonyLiked(testimony *model.Testimony, actor *model.User)
	NotifyCommentCreated(comment *model.Comment, testimony *model.Testimony, actor *model.User)
	NotifyReplyCreated(reply *model.Comment, parent *model.Comment, actor *model.User)
}

type notificationService struct {
	repo       repository.NotificationRepository
	userRepo   repository.UserRepository
	fcmClient  *fcm.Client
	dispatcher *PushDispatcher
	hub        *websocket.Hub
}

// NewNotificationService 알림 서비스 생성자.
// dispatcher/hub는 nil일 수 있다 (테스트, 또는 실시간 채널 미사용 구성).
func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	fcmClient *fcm.Client,
	dispatcher *PushDispatcher,
	hub *websocket.Hub,
) NotificationService {
	return &notificationService{
		repo:       repo,
		userRepo:   userRepo,
		fcmClient:  fcmClient,
		dispatcher: dispatcher,
		hub:        hub,
	}
}

// GetNotifications 알림 목록 조회
func (s *notificationService) GetNotifications(
	userID uint,
	notifType *model.NotificationType,
	isRead *bool,
	page, pageSize int,
) ([]model.Notification, int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize

	notifications, total, err := s.repo.FindByUser(userID, notifType, isRead, pageSize, offset)
	if err != nil {
		return nil, 0, 0, err
	}

	unreadCount, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unreadCount, nil
}

// GetUnreadCount 안읽은 알림 개수 조회
func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.repo.GetUnreadCount(userID)
}

// MarkAsRead 알림 읽음 처리. 수신자 본인만 가능하다.
func (s *notificationService) MarkAsRead(notificationID, userID uint) (*model.Notification, error) {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	if notification.UserID != userID {
		return nil, ErrNotificationForbidden
	}

	if notification.IsRead {
		return notification, nil
	}

	if err := s.repo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}

	notification.IsRead = true
	return notification, nil
}

// MarkAllAsRead 모든 알림 읽음 처리
func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.repo.MarkAllAsRead(userID)
}

// MarkRelatedAsRead 특정 컨텐츠에 딸린 알림 일괄 읽음 처리
func (s *notificationService) MarkRelatedAsRead(userID uint, notifType model.NotificationType, relatedID uint) error {
	return s.repo.MarkRelatedAsRead(userID, notifType, relatedID)
}

// DeleteNotification 알림 삭제. 수신자 본인만 가능하다.
func (s *notificationService) DeleteNotification(notificationID, userID uint) error {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notification.UserID != userID {
		return ErrNotificationForbidden
	}

	return s.repo.Delete(notificationID)
}

// ==================== 팬아웃 ====================

// BroadcastNoticeCreated 새 공지 브로드캐스트
func (s *notificationService) BroadcastNoticeCreated(notice *model.Notice, sender *model.User) *FanoutResult {
	return s.broadcast(
		model.NotificationTypeNotice,
		"새 공지가 올라왔어요",
		notice.Title+"\n"+notice.Content,
		notice.ID,
		sender,
	)
}

// BroadcastTestimonyCreated 새 간증글 브로드캐스트
func (s *notificationService) BroadcastTestimonyCreated(testimony *model.Testimony, sender *model.User) *FanoutResult {
	return s.broadcast(
		model.NotificationTypeTestimony,
		"새 간증글이 올라왔어요",
		testimony.Title+"\n"+testimony.Content,
		testimony.ID,
		sender,
	)
}

// broadcast 브로드캐스트 팬아웃 파이프라인.
// 순서: 가용성 게이트 → 수신자 열거 → (토큰 검증 → 행 생성 → 배지 계산
// → 배치 적재) 수신자별 순차 → 발송 큐 핸드오프.
// 제공자가 없으면 수신자 열거 전에 중단한다: 발송할 수 없는 알림 행을
// 만들어 두고 나중에 재발송하는 구조를 피하기 위해서다.
// 어떤 에러도 호출자에게 전파하지 않는다.
func (s *notificationService) broadcast(
	notifType model.NotificationType,
	title, body string,
	relatedID uint,
	sender *model.User,
) *FanoutResult {
	result := &FanoutResult{}

	if !s.fcmClient.Available() {
		logger.Warn("Push provider unavailable, skipping broadcast fan-out", map[string]interface{}{
			"type":       notifType,
			"related_id": relatedID,
		})
		result.Warning = WarningPushUnavailable
		return result
	}

	recipients, err := s.userRepo.FindAllWithPushTokens()
	if err != nil {
		logger.Error("Failed to enumerate broadcast recipients", err, map[string]interface{}{
			"type": notifType,
		})
		result.Warning = WarningPushUnavailable
		return result
	}

	targets := make([]deliveryTarget, 0, len(recipients))
	for _, recipient := range recipients {
		// 토큰 형식이 어긋난 수신자는 이번 팬아웃에서 완전히 제외한다
		// (행도 만들지 않는다)
		if !fcm.IsValidPushToken(recipient.PushToken) {
			continue
		}

		notification := &model.Notification{
			UserID:     recipient.ID,
			Type:       notifType,
			Title:      title,
			Message:    truncateRunes(body, feedMessageLimit),
			IsRead:     false,
			RelatedID:  &relatedID,
			SenderID:   senderID(sender),
			SenderName: senderName(sender),
		}
		if err := s.repo.Create(notification); err != nil {
			logger.Error("Failed to create broadcast notification", err, map[string]interface{}{
				"recipient_id": recipient.ID,
			})
			continue
		}
		result.Recipients++

		// 방금 넣은 행을 포함한 안읽은 개수 = 배지
		badge, err := s.repo.GetUnreadCount(recipient.ID)
		if err != nil {
			logger.Warn("Failed to compute badge count", map[string]interface{}{
				"recipient_id": recipient.ID,
				"error":        err.Error(),
			})
		}

		targets = append(targets, deliveryTarget{Token: recipient.PushToken, Badge: int(badge)})
		s.pushToHub(recipient.ID, notification, badge)
	}

	result.Queued = len(targets)
	s.enqueue(targets, title, body, notifType, relatedID)

	logger.Info("Broadcast fan-out complete", map[string]interface{}{
		"type":       notifType,
		"recipients": result.Recipients,
		"queued":     result.Queued,
	})
	return result
}

// NotifyTestimonyLiked 좋아요 알림 (대상: 글 작성자)
func (s *notificationService) NotifyTestimonyLiked(testimony *model.Testimony, actor *model.User) {
	// 본인 글에 본인이 좋아요를 눌러도 알림은 없다
	if actor != nil && actor.ID == testimony.AuthorID {
		return
	}
	s.notifyOne(
		testimony.AuthorID,
		model.NotificationTypeLike,
		fmt.Sprintf("%s님이 내 간증글을 좋아해요", senderName(actor)),
		testimony.Title,
		testimony.ID,
		actor,
	)
}

// NotifyCommentCreated 댓글 알림 (대상: 글 작성자)
func (s *notificationService) NotifyCommentCreated(comment *model.Comment, testimony *model.Testimony, actor *model.User) {
	if actor != nil && actor.ID == testimony.AuthorID {
		return
	}
	s.notifyOne(
		testimony.AuthorID,
		model.NotificationTypeComment,
		"내 간증글에 댓글이 달렸어요",
		comment.Content,
		testimony.ID,
		actor,
	)
}

// NotifyReplyCreated 대댓글 알림 (대상: 원 댓글 작성자)
func (s *notificationService) NotifyReplyCreated(reply *model.Comment, parent *model.Comment, actor *model.User) {
	if actor != nil && actor.ID == parent.UserID {
		return
	}
	s.notifyOne(
		parent.UserID,
		model.NotificationTypeReply,
		"내 댓글에 답글이 달렸어요",
		reply.Content,
		reply.TestimonyID,
		actor,
	)
}

// notifyOne 단일 수신자 알림. 브로드캐스트와 달리 앱 내 알림 행이
// 주산물이므로 행은 항상 만들고, 푸시는 제공자/토큰이 유효할 때만 싣는다.
func (s *notificationService) notifyOne(
	recipientID uint,
	notifType model.NotificationType,
	title, body string,
	relatedID uint,
	actor *model.User,
) {
	notification := &model.Notification{
		UserID:     recipientID,
		Type:       notifType,
		Title:      title,
		Message:    truncateRunes(body, feedMessageLimit),
		IsRead:     false,
		RelatedID:  &relatedID,
		SenderID:   senderID(actor),
		SenderName: senderName(actor),
	}
	if err := s.repo.Create(notification); err != nil {
		logger.Error("Failed to create notification", err, map[string]interface{}{
			"recipient_id": recipientID,
			"type":         notifType,
		})
		return
	}

	badge, err := s.repo.GetUnreadCount(recipientID)
	if err != nil {
		logger.Warn("Failed to compute badge count", map[string]interface{}{
			"recipient_id": recipientID,
			"error":        err.Error(),
		})
	}

	s.pushToHub(recipientID, notification, badge)

	if !s.fcmClient.Available() {
		return
	}

	recipient, err := s.userRepo.FindByID(recipientID)
	if err != nil {
		logger.Warn("Failed to load notification recipient", map[string]interface{}{
			"recipient_id": recipientID,
			"error":        err.Error(),
		})
		return
	}
	if !fcm.IsValidPushToken(recipient.PushToken) {
		return
	}

	s.enqueue(
		[]deliveryTarget{{Token: recipient.PushToken, Badge: int(badge)}},
		title, body, notifType, relatedID,
	)
}

// enqueue 발송 배치를 백그라운드 큐로 핸드오프
func (s *notificationService) enqueue(
	targets []deliveryTarget,
	title, body string,
	notifType model.NotificationType,
	relatedID uint,
) {
	if s.dispatcher == nil || len(targets) == 0 {
		return
	}
	s.dispatcher.Enqueue(&deliveryJob{
		Targets: targets,
		Notification: fcm.Notification{
			Title: title,
			Body:  truncateRunes(body, pushBodyLimit),
			Sound: "default",
		},
		Data: map[string]string{
			"type":       string(notifType),
			"related_id": strconv.FormatUint(uint64(relatedID), 10),
			"action":     "open_detail", // 앱 딥링크 힌트
		},
	})
}

// pushToHub 접속 중인 세션으로 실시간 알림 프레임 전송 (실패 무시)
func (s *notificationService) pushToHub(userID uint, notification *model.Notification, unreadCount int64) {
	if s.hub == nil {
		return
	}
	frame := map[string]interface{}{
		"type":         "new_notification",
		"unread_count": unreadCount,
		"notification": notification,
	}
	if err := s.hub.SendNotificationToUser(userID, frame); err != nil {
		logger.Warn("Failed to push notification frame", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

func senderID(sender *model.User) *uint {
	if sender == nil {
		return nil
	}
	id := sender.ID
	return &id
}

func senderName(sender *model.User) string {
	if sender == nil {
		return "시스템"
	}
	return sender.Name
}

// truncateRunes 바이트가 아니라 룬 단위로 잘라 한글이 중간에 깨지지 않게 한다
func truncateRunes(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}
