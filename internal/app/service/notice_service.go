package service

import (
	"errors"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNoticeNotFound = errors.New("notice not found")

// CreateNoticeRequest 공지 작성 요청
type CreateNoticeRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	IsPinned bool   `json:"is_pinned"`
}

// UpdateNoticeRequest 공지 수정 요청 (포인터 필드만 반영)
type UpdateNoticeRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	IsPinned *bool   `json:"is_pinned"`
}

// NoticeService 공지 서비스. 작성 시 전체 브로드캐스트가 나간다.
type NoticeService interface {
	CreateNotice(author *model.User, req *CreateNoticeRequest) (*model.Notice, *FanoutResult, error)
	GetNotices(page, limit int) ([]model.Notice, int64, error)
	GetNotice(id uint) (*model.Notice, error)
	UpdateNotice(id uint, req *UpdateNoticeRequest) (*model.Notice, error)
	DeleteNotice(id uint) error
}

type noticeService struct {
	noticeRepo      repository.NoticeRepository
	notificationSvc NotificationService
}

// NewNoticeService 공지 서비스 생성자
func NewNoticeService(noticeRepo repository.NoticeRepository, notificationSvc NotificationService) NoticeService {
	return &noticeService{
		noticeRepo:      noticeRepo,
		notificationSvc: notificationSvc,
	}
}

// CreateNotice 공지 작성 후 전체 사용자에게 알림을 보낸다.
// 알림 실패는 공지 작성의 성공 여부에 영향을 주지 않는다.
func (s *noticeService) CreateNotice(author *model.User, req *CreateNoticeRequest) (*model.Notice, *FanoutResult, error) {
	notice := &model.Notice{
		AuthorID: author.ID,
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	}

	if err := s.noticeRepo.Create(notice); err != nil {
		logger.Error("Failed to create notice", err, map[string]interface{}{
			"author_id": author.ID,
		})
		return nil, nil, err
	}
	notice.Author = author

	result := s.notificationSvc.BroadcastNoticeCreated(notice, author)

	logger.Info("Notice created", map[string]interface{}{
		"notice_id":  notice.ID,
		"author_id":  author.ID,
		"recipients": result.Recipients,
	})
	return notice, result, nil
}

func (s *noticeService) GetNotices(page, limit int) ([]model.Notice, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.noticeRepo.FindAll(limit, (page-1)*limit)
}

func (s *noticeService) GetNotice(id uint) (*model.Notice, error) {
	notice, err := s.noticeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}
	return notice, nil
}

func (s *noticeService) UpdateNotice(id uint, req *UpdateNoticeRequest) (*model.Notice, error) {
	notice, err := s.noticeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		notice.Title = *req.Title
	}
	if req.Content != nil {
		notice.Content = *req.Content
	}
	if req.IsPinned != nil {
		notice.IsPinned = *req.IsPinned
	}

	if err := s.noticeRepo.Update(notice); err != nil {
		return nil, err
	}
	return notice, nil
}

func (s *noticeService) DeleteNotice(id uint) error {
	if _, err := s.noticeRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoticeNotFound
		}
		return err
	}
	return s.noticeRepo.Delete(id)
}
