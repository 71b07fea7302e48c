package repository

import (
	"github.com/sehyunahn/seum-backend/internal/app/model"
	"gorm.io/gorm"
)

// NoticeRepository 공지 저장소 인터페이스
type NoticeRepository interface {
	Create(notice *model.Notice) error
	FindByID(id uint) (*model.Notice, error)
	FindAll(limit, offset int) ([]model.Notice, int64, error)
	Update(notice *model.Notice) error
	Delete(id uint) error
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository 공지 저장소 생성자
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(notice *model.Notice) error {
	return r.db.Create(notice).Error
}

func (r *noticeRepository) FindByID(id uint) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.Preload("Author").First(&notice, id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

// FindAll 공지 목록 (고정 공지 먼저, 최신순)
func (r *noticeRepository) FindAll(limit, offset int) ([]model.Notice, int64, error) {
	var notices []model.Notice
	var total int64

	query := r.db.Model(&model.Notice{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Author").Order("is_pinned DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notices).Error; err != nil {
		return nil, 0, err
	}
	return notices, total, nil
}

func (r *noticeRepository) Update(notice *model.Notice) error {
	return r.db.Save(notice).Error
}

func (r *noticeRepository) Delete(id uint) error {
	return r.db.Delete(&model.Notice{}, id).Error
}
