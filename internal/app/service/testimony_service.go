package service

import (
	"errors"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTestimonyNotFound  = errors.New("testimony not found")
	ErrTestimonyForbidden = errors.New("not allowed to modify this testimony")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrCommentForbidden   = errors.New("not allowed to modify this comment")
	ErrInvalidParent      = errors.New("parent comment does not belong to this testimony")
)

// CreateTestimonyRequest 간증글 작성 요청
type CreateTestimonyRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateTestimonyRequest 간증글 수정 요청
type UpdateTestimonyRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// CreateCommentRequest 댓글 작성 요청. ParentID가 있으면 대댓글.
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// TestimonyService 간증글/좋아요/댓글 서비스.
// 작성은 전체 브로드캐스트, 좋아요/댓글/대댓글은 대상 지정 알림을 낸다.
type TestimonyService interface {
	CreateTestimony(author *model.User, req *CreateTestimonyRequest) (*model.Testimony, *FanoutResult, error)
	GetTestimonies(viewerID uint, authorID *uint, page, limit int) ([]model.Testimony, int64, error)
	GetTestimony(id, viewerID uint) (*model.Testimony, error)
	UpdateTestimony(id uint, actor *ResolvedAuthoritySet, req *UpdateTestimonyRequest) (*model.Testimony, error)
	DeleteTestimony(id uint, actor *ResolvedAuthoritySet) error

	ToggleLike(testimonyID uint, actor *model.User) (liked bool, likeCount int64, err error)

	CreateComment(testimonyID uint, actor *model.User, req *CreateCommentRequest) (*model.Comment, error)
	GetComments(testimonyID uint, page, limit int) ([]model.Comment, int64, error)
	UpdateComment(commentID, actorID uint, content string) (*model.Comment, error)
	DeleteComment(commentID uint, actor *ResolvedAuthoritySet) error
}

type testimonyService struct {
	testimonyRepo   repository.TestimonyRepository
	notificationSvc NotificationService
}

// NewTestimonyService 간증글 서비스 생성자
func NewTestimonyService(testimonyRepo repository.TestimonyRepository, notificationSvc NotificationService) TestimonyService {
	return &testimonyService{
		testimonyRepo:   testimonyRepo,
		notificationSvc: notificationSvc,
	}
}

// CreateTestimony 간증글 작성 후 전체 브로드캐스트
func (s *testimonyService) CreateTestimony(author *model.User, req *CreateTestimonyRequest) (*model.Testimony, *FanoutResult, error) {
	testimony := &model.Testimony{
		AuthorID: author.ID,
		Title:    req.Title,
		Content:  req.Content,
	}

	if err := s.testimonyRepo.Create(testimony); err != nil {
		logger.Error("Failed to create testimony", err, map[string]interface{}{
			"author_id": author.ID,
		})
		return nil, nil, err
	}
	testimony.Author = author

	result := s.notificationSvc.BroadcastTestimonyCreated(testimony, author)

	logger.Info("Testimony created", map[string]interface{}{
		"testimony_id": testimony.ID,
		"author_id":    author.ID,
		"recipients":   result.Recipients,
	})
	return testimony, result, nil
}

func (s *testimonyService) GetTestimonies(viewerID uint, authorID *uint, page, limit int) ([]model.Testimony, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	testimonies, total, err := s.testimonyRepo.FindAll(authorID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	for i := range testimonies {
		s.decorate(&testimonies[i], viewerID)
	}
	return testimonies, total, nil
}

func (s *testimonyService) GetTestimony(id, viewerID uint) (*model.Testimony, error) {
	testimony, err := s.testimonyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestimonyNotFound
		}
		return nil, err
	}
	s.decorate(testimony, viewerID)
	return testimony, nil
}

// UpdateTestimony 작성자 또는 사용자 관리 권한 보유자만 수정 가능
func (s *testimonyService) UpdateTestimony(id uint, actor *ResolvedAuthoritySet, req *UpdateTestimonyRequest) (*model.Testimony, error) {
	testimony, err := s.testimonyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestimonyNotFound
		}
		return nil, err
	}

	if testimony.AuthorID != actor.UserID && !actor.CanManageUsers() {
		return nil, ErrTestimonyForbidden
	}

	if req.Title != nil {
		testimony.Title = *req.Title
	}
	if req.Content != nil {
		testimony.Content = *req.Content
	}

	if err := s.testimonyRepo.Update(testimony); err != nil {
		return nil, err
	}
	s.decorate(testimony, actor.UserID)
	return testimony, nil
}

// DeleteTestimony 글과 종속 데이터(댓글, 좋아요)를 함께 지운다
func (s *testimonyService) DeleteTestimony(id uint, actor *ResolvedAuthoritySet) error {
	testimony, err := s.testimonyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestimonyNotFound
		}
		return err
	}

	if testimony.AuthorID != actor.UserID && !actor.CanManageUsers() {
		return ErrTestimonyForbidden
	}

	return s.testimonyRepo.DeleteWithDependents(id)
}

// ToggleLike 좋아요 토글. 새로 눌렀을 때만 작성자에게 알림이 간다.
func (s *testimonyService) ToggleLike(testimonyID uint, actor *model.User) (bool, int64, error) {
	testimony, err := s.testimonyRepo.FindByID(testimonyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrTestimonyNotFound
		}
		return false, 0, err
	}

	liked, err := s.testimonyRepo.IsLiked(testimonyID, actor.ID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		if err := s.testimonyRepo.Unlike(testimonyID, actor.ID); err != nil {
			return false, 0, err
		}
	} else {
		if err := s.testimonyRepo.Like(testimonyID, actor.ID); err != nil {
			return false, 0, err
		}
		s.notificationSvc.NotifyTestimonyLiked(testimony, actor)
	}

	count, err := s.testimonyRepo.CountLikes(testimonyID)
	if err != nil {
		return !liked, 0, err
	}
	return !liked, count, nil
}

// CreateComment 댓글/대댓글 작성.
// 댓글은 글 작성자에게, 대댓글은 원 댓글 작성자에게 알림이 간다.
func (s *testimonyService) CreateComment(testimonyID uint, actor *model.User, req *CreateCommentRequest) (*model.Comment, error) {
	testimony, err := s.testimonyRepo.FindByID(testimonyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestimonyNotFound
		}
		return nil, err
	}

	var parent *model.Comment
	if req.ParentID != nil {
		parent, err = s.testimonyRepo.FindCommentByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.TestimonyID != testimonyID {
			return nil, ErrInvalidParent
		}
	}

	comment := &model.Comment{
		TestimonyID: testimonyID,
		UserID:      actor.ID,
		ParentID:    req.ParentID,
		Content:     req.Content,
	}

	if err := s.testimonyRepo.CreateComment(comment); err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"testimony_id": testimonyID,
			"user_id":      actor.ID,
		})
		return nil, err
	}
	comment.User = actor

	if parent != nil {
		s.notificationSvc.NotifyReplyCreated(comment, parent, actor)
	} else {
		s.notificationSvc.NotifyCommentCreated(comment, testimony, actor)
	}

	return comment, nil
}

func (s *testimonyService) GetComments(testimonyID uint, page, limit int) ([]model.Comment, int64, error) {
	if _, err := s.testimonyRepo.FindByID(testimonyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrTestimonyNotFound
		}
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return s.testimonyRepo.FindComments(testimonyID, limit, (page-1)*limit)
}

// UpdateComment 본인 댓글만 수정 가능
func (s *testimonyService) UpdateComment(commentID, actorID uint, content string) (*model.Comment, error) {
	comment, err := s.testimonyRepo.FindCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if comment.UserID != actorID {
		return nil, ErrCommentForbidden
	}

	comment.Content = content
	if err := s.testimonyRepo.UpdateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment 본인 또는 사용자 관리 권한 보유자만 삭제 가능
func (s *testimonyService) DeleteComment(commentID uint, actor *ResolvedAuthoritySet) error {
	comment, err := s.testimonyRepo.FindCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != actor.UserID && !actor.CanManageUsers() {
		return ErrCommentForbidden
	}

	return s.testimonyRepo.DeleteComment(commentID)
}

// decorate 좋아요/댓글 수와 조회자의 좋아요 여부를 채운다. 실패는 0으로 둔다.
func (s *testimonyService) decorate(testimony *model.Testimony, viewerID uint) {
	if count, err := s.testimonyRepo.CountLikes(testimony.ID); err == nil {
		testimony.LikeCount = count
	}
	if count, err := s.testimonyRepo.CountComments(testimony.ID); err == nil {
		testimony.CommentCount = count
	}
	if viewerID != 0 {
		if liked, err := s.testimonyRepo.IsLiked(testimony.ID, viewerID); err == nil {
			testimony.IsLiked = liked
		}
	}
}
