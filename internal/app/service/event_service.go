package service

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidEventTime = errors.New("event end time must be after start time")
)

// CreateEventRequest 행사 등록 요청
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	BranchID    *uint      `json:"branch_id"`
	ImageURLs   []string   `json:"image_urls"`
}

// UpdateEventRequest 행사 수정 요청 (포인터 필드만 반영)
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	BranchID    *uint      `json:"branch_id"`
	ImageURLs   []string   `json:"image_urls"`
}

// EventService 행사 서비스
type EventService interface {
	CreateEvent(creatorID uint, req *CreateEventRequest) (*model.Event, error)
	GetUpcomingEvents(branchID *uint, page, limit int) ([]model.Event, int64, error)
	GetEvent(id uint) (*model.Event, error)
	UpdateEvent(id uint, req *UpdateEventRequest) (*model.Event, error)
	DeleteEvent(id uint) error
}

type eventService struct {
	eventRepo repository.EventRepository
}

// NewEventService 행사 서비스 생성자
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) CreateEvent(creatorID uint, req *CreateEventRequest) (*model.Event, error) {
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidEventTime
	}

	event := &model.Event{
		CreatedBy:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		BranchID:    req.BranchID,
		ImageURLs:   pq.StringArray(req.ImageURLs),
	}
	if event.ImageURLs == nil {
		event.ImageURLs = pq.StringArray{}
	}

	if err := s.eventRepo.Create(event); err != nil {
		logger.Error("Failed to create event", err, map[string]interface{}{
			"created_by": creatorID,
		})
		return nil, err
	}

	logger.Info("Event created", map[string]interface{}{
		"event_id": event.ID,
		"title":    event.Title,
	})
	return event, nil
}

// GetUpcomingEvents 다가오는 행사 목록. branchID를 주면 해당 지부 + 전체 행사만.
func (s *eventService) GetUpcomingEvents(branchID *uint, page, limit int) ([]model.Event, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.eventRepo.FindUpcoming(branchID, time.Now(), limit, (page-1)*limit)
}

func (s *eventService) GetEvent(id uint) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) UpdateEvent(id uint, req *UpdateEventRequest) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if req.BranchID != nil {
		event.BranchID = req.BranchID
	}
	if req.ImageURLs != nil {
		event.ImageURLs = pq.StringArray(req.ImageURLs)
	}

	if event.EndsAt != nil && !event.EndsAt.After(event.StartsAt) {
		return nil, ErrInvalidEventTime
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) DeleteEvent(id uint) error {
	if _, err := s.eventRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return s.eventRepo.Delete(id)
}
