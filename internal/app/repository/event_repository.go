package repository

import (
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"gorm.io/gorm"
)

// EventRepository 행사 저장소 인터페이스
type EventRepository interface {
	Create(event *model.Event) error
	FindByID(id uint) (*model.Event, error)
	FindUpcoming(branchID *uint, from time.Time, limit, offset int) ([]model.Event, int64, error)
	Update(event *model.Event) error
	Delete(id uint) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 행사 저장소 생성자
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *model.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) FindByID(id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindUpcoming 다가오는 행사 목록 (지부 필터 가능)
func (r *eventRepository) FindUpcoming(branchID *uint, from time.Time, limit, offset int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	query := r.db.Model(&model.Event{}).Where("starts_at >= ?", from)
	if branchID != nil {
		// 지부 지정 행사 + 전체 행사(branch_id IS NULL)
		query = query.Where("branch_id = ? OR branch_id IS NULL", *branchID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("starts_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(event *model.Event) error {
	return r.db.Save(event).Error
}

func (r *eventRepository) Delete(id uint) error {
	return r.db.Delete(&model.Event{}, id).Error
}
