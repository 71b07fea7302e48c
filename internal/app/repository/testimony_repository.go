package repository

import (
	"github.com/sehyunahn/seum-backend/internal/app/model"
	"gorm.io/gorm"
)

// TestimonyRepository 간증글/댓글/좋아요 저장소 인터페이스
type TestimonyRepository interface {
	Create(testimony *model.Testimony) error
	FindByID(id uint) (*model.Testimony, error)
	FindAll(authorID *uint, limit, offset int) ([]model.Testimony, int64, error)
	Update(testimony *model.Testimony) error
	DeleteWithDependents(id uint) error

	IsLiked(testimonyID, userID uint) (bool, error)
	Like(testimonyID, userID uint) error
	Unlike(testimonyID, userID uint) error
	CountLikes(testimonyID uint) (int64, error)

	CreateComment(comment *model.Comment) error
	FindCommentByID(id uint) (*model.Comment, error)
	FindComments(testimonyID uint, limit, offset int) ([]model.Comment, int64, error)
	UpdateComment(comment *model.Comment) error
	DeleteComment(id uint) error
	CountComments(testimonyID uint) (int64, error)
}

type testimonyRepository struct {
	db *gorm.DB
}

// NewTestimonyRepository 간증글 저장소 생성자
func NewTestimonyRepository(db *gorm.DB) TestimonyRepository {
	return &testimonyRepository{db: db}
}

func (r *testimonyRepository) Create(testimony *model.Testimony) error {
	return r.db.Create(testimony).Error
}

func (r *testimonyRepository) FindByID(id uint) (*model.Testimony, error) {
	var testimony model.Testimony
	if err := r.db.Preload("Author").First(&testimony, id).Error; err != nil {
		return nil, err
	}
	return &testimony, nil
}

func (r *testimonyRepository) FindAll(authorID *uint, limit, offset int) ([]model.Testimony, int64, error) {
	var testimonies []model.Testimony
	var total int64

	query := r.db.Model(&model.Testimony{})
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Author").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&testimonies).Error; err != nil {
		return nil, 0, err
	}
	return testimonies, total, nil
}

func (r *testimonyRepository) Update(testimony *model.Testimony) error {
	return r.db.Save(testimony).Error
}

// DeleteWithDependents 간증글과 딸린 댓글/좋아요를 하나의 트랜잭션으로 삭제.
// 알림 파이프라인은 이 트랜잭션 경계 밖에서 돈다.
func (r *testimonyRepository) DeleteWithDependents(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("testimony_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("testimony_id = ?", id).Delete(&model.TestimonyLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Testimony{}, id).Error
	})
}

func (r *testimonyRepository) IsLiked(testimonyID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.TestimonyLike{}).
		Where("testimony_id = ? AND user_id = ?", testimonyID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *testimonyRepository) Like(testimonyID, userID uint) error {
	return r.db.Create(&model.TestimonyLike{TestimonyID: testimonyID, UserID: userID}).Error
}

func (r *testimonyRepository) Unlike(testimonyID, userID uint) error {
	return r.db.Where("testimony_id = ? AND user_id = ?", testimonyID, userID).
		Delete(&model.TestimonyLike{}).Error
}

func (r *testimonyRepository) CountLikes(testimonyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.TestimonyLike{}).
		Where("testimony_id = ?", testimonyID).
		Count(&count).Error
	return count, err
}

func (r *testimonyRepository) CreateComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *testimonyRepository) FindCommentByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *testimonyRepository) FindComments(testimonyID uint, limit, offset int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).Where("testimony_id = ?", testimonyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("User").Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *testimonyRepository) UpdateComment(comment *model.Comment) error {
	return r.db.Save(comment).Error
}

func (r *testimonyRepository) DeleteComment(id uint) error {
	return r.db.Delete(&model.Comment{}, id).Error
}

func (r *testimonyRepository) CountComments(testimonyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("testimony_id = ?", testimonyID).
		Count(&count).Error
	return count, err
}
