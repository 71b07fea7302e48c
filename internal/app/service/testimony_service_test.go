package service

import (
	"testing"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/sehyunahn/seum-backend/pkg/push/fcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestimonyServiceTest(t *testing.T) (TestimonyService, NotificationService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	notificationSvc := NewNotificationService(
		repository.NewNotificationRepository(testDB),
		repository.NewUserRepository(testDB),
		fcm.NewClient(fcm.Config{}),
		nil,
		nil,
	)
	testimonySvc := NewTestimonyService(repository.NewTestimonyRepository(testDB), notificationSvc)
	return testimonySvc, notificationSvc, testDB
}

func resolvedActor(userID uint, level int) *ResolvedAuthoritySet {
	return &ResolvedAuthoritySet{
		UserID:                userID,
		HighestAuthorityLevel: level,
	}
}

func TestTestimonyService_CreateAndGet(t *testing.T) {
	svc, _, testDB := setupTestimonyServiceTest(t)
	author := createTestUser(t, testDB, "글쓴이", "01011110000")

	testimony, result, err := svc.CreateTestimony(author, &CreateTestimonyRequest{
		Title:   "하나님의 은혜",
		Content: "이번 주 수련회에서 받은 은혜를 나눕니다",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, author.ID, testimony.AuthorID)

	fetched, err := svc.GetTestimony(testimony.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "하나님의 은혜", fetched.Title)
	assert.Zero(t, fetched.LikeCount)
	assert.False(t, fetched.IsLiked)

	_, err = svc.GetTestimony(99999, author.ID)
	assert.ErrorIs(t, err, ErrTestimonyNotFound)
}

func TestTestimonyService_UpdatePermissions(t *testing.T) {
	svc, _, testDB := setupTestimonyServiceTest(t)
	author := createTestUser(t, testDB, "글쓴이", "01011110000")
	stranger := createTestUser(t, testDB, "남", "01011110001")

	testimony, _, err := svc.CreateTestimony(author, &CreateTestimonyRequest{Title: "제목", Content: "내용"})
	require.NoError(t, err)

	newTitle := "고친 제목"

	// 남은 수정 불가
	_, err = svc.UpdateTestimony(testimony.ID, resolvedActor(stranger.ID, model.LevelDefault), &UpdateTestimonyRequest{Title: &newTitle})
	assert.ErrorIs(t, err, ErrTestimonyForbidden)

	// 본인은 가능
	updated, err := svc.UpdateTestimony(testimony.ID, resolvedActor(author.ID, model.LevelDefault), &UpdateTestimonyRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "고친 제목", updated.Title)

	// 관리 권한자는 남의 글도 가능
	managerTitle := "관리자가 고침"
	_, err = svc.UpdateTestimony(testimony.ID, resolvedActor(stranger.ID, model.LevelManageUsers), &UpdateTestimonyRequest{Title: &managerTitle})
	assert.NoError(t, err)
}

func TestTestimonyService_ToggleLike(t *testing.T) {
	svc, notificationSvc, testDB := setupTestimonyServiceTest(t)
	author := createTestUser(t, testDB, "글쓴이", "01011110000")
	liker := createTestUser(t, testDB, "좋아요", "01011110001")

	testimony, _, err := svc.CreateTestimony(author, &CreateTestimonyRequest{Title: "제목", Content: "내용"})
	require.NoError(t, err)

	liked, count, err := svc.ToggleLike(testimony.ID, liker)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	// 작성자에게 좋아요 알림이 간다
	unread, err := notificationSvc.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// 취소: 알림은 다시 만들지 않는다
	liked, count, err = svc.ToggleLike(testimony.ID, liker)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, count)

	unread, err = notificationSvc.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// 본인 글 좋아요는 알림이 없다
	_, _, err = svc.ToggleLike(testimony.ID, author)
	require.NoError(t, err)
	unread, err = notificationSvc.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestTestimonyService_Comments(t *testing.T) {
	svc, notificationSvc, testDB := setupTestimonyServiceTest(t)
	author := createTestUser(t, testDB, "글쓴이", "01011110000")
	commenter := createTestUser(t, testDB, "댓글러", "01011110001")
	replier := createTestUser(t, testDB, "답글러", "01011110002")

	testimony, _, err := svc.CreateTestimony(author, &CreateTestimonyRequest{Title: "제목", Content: "내용"})
	require.NoError(t, err)

	comment, err := svc.CreateComment(testimony.ID, commenter, &CreateCommentRequest{Content: "은혜받았습니다"})
	require.NoError(t, err)
	assert.Nil(t, comment.ParentID)

	reply, err := svc.CreateComment(testimony.ID, replier, &CreateCommentRequest{
		Content:  "아멘",
		ParentID: &comment.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)

	// 댓글 알림은 글쓴이에게, 답글 알림은 원 댓글 작성자에게
	authorUnread, err := notificationSvc.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), authorUnread)
	commenterUnread, err := notificationSvc.GetUnreadCount(commenter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), commenterUnread)

	comments, total, err := svc.GetComments(testimony.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, int64(2), total)

	// 남의 글 댓글에 다른 글의 댓글 ID를 부모로 달 수 없다
	other, _, err := svc.CreateTestimony(author, &CreateTestimonyRequest{Title: "다른 글", Content: "내용"})
	require.NoError(t, err)
	_, err = svc.CreateComment(other.ID, replier, &CreateCommentRequest{Content: "아멘", ParentID: &comment.ID})
	assert.ErrorIs(t, err, ErrInvalidParent)

	// 수정은 본인만
	_, err = svc.UpdateComment(comment.ID, replier.ID, "바꾼 내용")
	assert.ErrorIs(t, err, ErrCommentForbidden)
	updated, err := svc.UpdateComment(comment.ID, commenter.ID, "바꾼 내용")
	require.NoError(t, err)
	assert.Equal(t, "바꾼 내용", updated.Content)

	// 삭제는 본인 또는 관리 권한자
	assert.ErrorIs(t, svc.DeleteComment(comment.ID, resolvedActor(replier.ID, model.LevelDefault)), ErrCommentForbidden)
	require.NoError(t, svc.DeleteComment(comment.ID, resolvedActor(author.ID, model.LevelManageUsers)))
}

func TestTestimonyService_DeleteWithDependents(t *testing.T) {
	svc, _, testDB := setupTestimonyServiceTest(t)
	author := createTestUser(t, testDB, "글쓴이", "01011110000")
	liker := createTestUser(t, testDB, "좋아요", "01011110001")

	testimony, _, err := svc.CreateTestimony(author, &CreateTestimonyRequest{Title: "제목", Content: "내용"})
	require.NoError(t, err)

	_, _, err = svc.ToggleLike(testimony.ID, liker)
	require.NoError(t, err)
	_, err = svc.CreateComment(testimony.ID, liker, &CreateCommentRequest{Content: "댓글"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTestimony(testimony.ID, resolvedActor(author.ID, model.LevelDefault)))

	_, err = svc.GetTestimony(testimony.ID, author.ID)
	assert.ErrorIs(t, err, ErrTestimonyNotFound)

	var likeCount, commentCount int64
	require.NoError(t, testDB.Model(&model.TestimonyLike{}).Where("testimony_id = ?", testimony.ID).Count(&likeCount).Error)
	require.NoError(t, testDB.Unscoped().Model(&model.Comment{}).
		Where("testimony_id = ? AND deleted_at IS NULL", testimony.ID).Count(&commentCount).Error)
	assert.Zero(t, likeCount)
	assert.Zero(t, commentCount)
}
