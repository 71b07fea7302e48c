package service

import (
	"strings"
	"testing"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/sehyunahn/seum-backend/pkg/push/fcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testPushToken 형식 검증을 통과하는 토큰 생성
func testPushToken(seed string) string {
	return seed + strings.Repeat("x", 150-len(seed))
}

func setupNotificationServiceTest(t *testing.T, pushConfigured bool) (NotificationService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	config := fcm.Config{}
	if pushConfigured {
		config.ServerKey = "test-server-key"
	}

	svc := NewNotificationService(
		repository.NewNotificationRepository(testDB),
		repository.NewUserRepository(testDB),
		fcm.NewClient(config),
		nil, // 테스트에서는 실제 발송 큐 없이 돌린다
		nil,
	)
	return svc, testDB
}

func createNotificationTestUser(t *testing.T, testDB *gorm.DB, name, phone, pushToken string) *model.User {
	user := &model.User{
		Phone:        phone,
		PasswordHash: "hashed",
		Name:         name,
		Authority:    model.DefaultAuthorityDisplayName,
		PushToken:    pushToken,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestNotificationService_Broadcast_CreatesRowsForValidTokensOnly(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, true)

	author := createNotificationTestUser(t, testDB, "작성자", "01011110000", testPushToken("author"))
	valid1 := createNotificationTestUser(t, testDB, "수신자1", "01011110001", testPushToken("one"))
	valid2 := createNotificationTestUser(t, testDB, "수신자2", "01011110002", testPushToken("two"))
	invalid := createNotificationTestUser(t, testDB, "깨진토큰", "01011110003", "null")
	createNotificationTestUser(t, testDB, "토큰없음", "01011110004", "")

	notice := &model.Notice{ID: 1, AuthorID: author.ID, Title: "수련회 안내", Content: "이번 주 토요일입니다"}
	result := svc.BroadcastNoticeCreated(notice, author)

	// 작성자 포함 유효 토큰 보유자 3명에게만 행이 생긴다
	assert.Equal(t, 3, result.Recipients)
	assert.Equal(t, 3, result.Queued)
	assert.Empty(t, result.Warning)

	for _, u := range []*model.User{author, valid1, valid2} {
		count, err := svc.GetUnreadCount(u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "user %s", u.Name)
	}

	// 토큰이 깨진 수신자는 행도 만들지 않는다
	count, err := svc.GetUnreadCount(invalid.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_Broadcast_ProviderUnavailable(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, false)

	author := createNotificationTestUser(t, testDB, "작성자", "01011110000", testPushToken("author"))
	recipient := createNotificationTestUser(t, testDB, "수신자", "01011110001", testPushToken("one"))

	notice := &model.Notice{ID: 1, AuthorID: author.ID, Title: "공지", Content: "내용"}
	result := svc.BroadcastNoticeCreated(notice, author)

	// 제공자가 없으면 수신자 열거 전에 중단: 행이 하나도 안 생긴다
	assert.Zero(t, result.Recipients)
	assert.Zero(t, result.Queued)
	assert.Equal(t, WarningPushUnavailable, result.Warning)

	count, err := svc.GetUnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_Broadcast_BadgeAccumulates(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, true)

	author := createNotificationTestUser(t, testDB, "작성자", "01011110000", "")
	recipient := createNotificationTestUser(t, testDB, "수신자", "01011110001", testPushToken("one"))

	for i := 0; i < 3; i++ {
		notice := &model.Notice{ID: uint(i + 1), AuthorID: author.ID, Title: "공지", Content: "내용"}
		svc.BroadcastNoticeCreated(notice, author)
	}

	count, err := svc.GetUnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestNotificationService_Broadcast_TruncatesFeedMessage(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, true)

	author := createNotificationTestUser(t, testDB, "작성자", "01011110000", "")
	recipient := createNotificationTestUser(t, testDB, "수신자", "01011110001", testPushToken("one"))

	longBody := strings.Repeat("가", 300)
	testimony := &model.Testimony{ID: 1, AuthorID: author.ID, Title: "간증", Content: longBody}
	svc.BroadcastTestimonyCreated(testimony, author)

	notifications, _, _, err := svc.GetNotifications(recipient.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.LessOrEqual(t, len([]rune(notifications[0].Message)), 100)
	assert.True(t, strings.HasSuffix(notifications[0].Message, "..."))
}

func TestNotificationService_NotifyTestimonyLiked_SelfLikeSkipped(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, true)

	author := createNotificationTestUser(t, testDB, "작성자", "01011110000", testPushToken("author"))

	testimony := &model.Testimony{ID: 1, AuthorID: author.ID, Title: "간증"}
	svc.NotifyTestimonyLiked(testimony, author)

	count, err := svc.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_NotifyTestimonyLiked_RowAlwaysCreated(t *testing.T) {
	// 제공자가 없고 수신자 토큰이 없어도 대상 지정 알림 행은 생긴다
	svc, testDB := setupNotificationServiceTest(t, false)

	author := createNotificationTestUser(t, testDB, "작성자", "01011110000", "")
	liker := createNotificationTestUser(t, testDB, "좋아요누른사람", "01011110001", "")

	testimony := &model.Testimony{ID: 1, AuthorID: author.ID, Title: "은혜로운 간증"}
	svc.NotifyTestimonyLiked(testimony, liker)

	notifications, _, unread, err := svc.GetNotifications(author.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, model.NotificationTypeLike, notifications[0].Type)
	assert.Contains(t, notifications[0].Title, liker.Name)
	assert.Equal(t, liker.ID, *notifications[0].SenderID)
}

func TestNotificationService_NotifyCommentAndReply(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, false)

	author := createNotificationTestUser(t, testDB, "글쓴이", "01011110000", "")
	commenter := createNotificationTestUser(t, testDB, "댓글러", "01011110001", "")
	replier := createNotificationTestUser(t, testDB, "답글러", "01011110002", "")

	testimony := &model.Testimony{ID: 7, AuthorID: author.ID, Title: "간증"}
	comment := &model.Comment{ID: 1, TestimonyID: testimony.ID, UserID: commenter.ID, Content: "은혜받았습니다"}

	// 댓글 → 글 작성자에게
	svc.NotifyCommentCreated(comment, testimony, commenter)
	notifications, _, _, err := svc.GetNotifications(author.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeComment, notifications[0].Type)
	assert.Equal(t, testimony.ID, *notifications[0].RelatedID)

	// 대댓글 → 원 댓글 작성자에게 (글 작성자가 아니라)
	reply := &model.Comment{ID: 2, TestimonyID: testimony.ID, UserID: replier.ID, ParentID: &comment.ID, Content: "아멘"}
	svc.NotifyReplyCreated(reply, comment, replier)

	commenterFeed, _, _, err := svc.GetNotifications(commenter.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, commenterFeed, 1)
	assert.Equal(t, model.NotificationTypeReply, commenterFeed[0].Type)

	authorFeed, _, _, err := svc.GetNotifications(author.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, authorFeed, 1) // 댓글 알림 하나 그대로
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, false)

	author := createNotificationTestUser(t, testDB, "글쓴이", "01011110000", "")
	liker := createNotificationTestUser(t, testDB, "좋아요", "01011110001", "")
	other := createNotificationTestUser(t, testDB, "남", "01011110002", "")

	testimony := &model.Testimony{ID: 1, AuthorID: author.ID, Title: "간증"}
	svc.NotifyTestimonyLiked(testimony, liker)

	notifications, _, _, err := svc.GetNotifications(author.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	notifID := notifications[0].ID

	// 남의 알림은 읽음 처리 불가
	_, err = svc.MarkAsRead(notifID, other.ID)
	assert.ErrorIs(t, err, ErrNotificationForbidden)

	read, err := svc.MarkAsRead(notifID, author.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	// 읽음 처리는 멱등
	read, err = svc.MarkAsRead(notifID, author.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	count, err := svc.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.MarkAsRead(99999, author.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, false)

	author := createNotificationTestUser(t, testDB, "글쓴이", "01011110000", "")
	liker := createNotificationTestUser(t, testDB, "좋아요", "01011110001", "")

	for i := 0; i < 3; i++ {
		testimony := &model.Testimony{ID: uint(i + 1), AuthorID: author.ID, Title: "간증"}
		svc.NotifyTestimonyLiked(testimony, liker)
	}

	require.NoError(t, svc.MarkAllAsRead(author.ID))

	count, err := svc.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_MarkRelatedAsRead(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, false)

	author := createNotificationTestUser(t, testDB, "글쓴이", "01011110000", "")
	likerA := createNotificationTestUser(t, testDB, "가", "01011110001", "")
	likerB := createNotificationTestUser(t, testDB, "나", "01011110002", "")

	target := &model.Testimony{ID: 5, AuthorID: author.ID, Title: "간증5"}
	other := &model.Testimony{ID: 6, AuthorID: author.ID, Title: "간증6"}
	svc.NotifyTestimonyLiked(target, likerA)
	svc.NotifyTestimonyLiked(target, likerB)
	svc.NotifyTestimonyLiked(other, likerA)

	require.NoError(t, svc.MarkRelatedAsRead(author.ID, model.NotificationTypeLike, target.ID))

	count, err := svc.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count) // 다른 글의 알림만 남는다
}

func TestNotificationService_DeleteNotification(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, false)

	author := createNotificationTestUser(t, testDB, "글쓴이", "01011110000", "")
	liker := createNotificationTestUser(t, testDB, "좋아요", "01011110001", "")
	other := createNotificationTestUser(t, testDB, "남", "01011110002", "")

	testimony := &model.Testimony{ID: 1, AuthorID: author.ID, Title: "간증"}
	svc.NotifyTestimonyLiked(testimony, liker)

	notifications, _, _, err := svc.GetNotifications(author.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	assert.ErrorIs(t, svc.DeleteNotification(notifications[0].ID, other.ID), ErrNotificationForbidden)
	require.NoError(t, svc.DeleteNotification(notifications[0].ID, author.ID))
	assert.ErrorIs(t, svc.DeleteNotification(notifications[0].ID, author.ID), ErrNotificationNotFound)
}

func TestNotificationService_GetNotifications_FilterAndPaging(t *testing.T) {
	svc, testDB := setupNotificationServiceTest(t, false)

	author := createNotificationTestUser(t, testDB, "글쓴이", "01011110000", "")
	liker := createNotificationTestUser(t, testDB, "좋아요", "01011110001", "")

	for i := 0; i < 5; i++ {
		testimony := &model.Testimony{ID: uint(i + 1), AuthorID: author.ID, Title: "간증"}
		svc.NotifyTestimonyLiked(testimony, liker)
	}
	comment := &model.Comment{ID: 1, TestimonyID: 1, UserID: liker.ID, Content: "댓글"}
	svc.NotifyCommentCreated(comment, &model.Testimony{ID: 1, AuthorID: author.ID}, liker)

	// 타입 필터
	likeType := model.NotificationTypeLike
	notifications, total, unread, err := svc.GetNotifications(author.ID, &likeType, nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 5)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(6), unread) // unread는 필터와 무관한 전체 기준

	// 페이지네이션
	notifications, total, _, err = svc.GetNotifications(author.ID, nil, nil, 2, 4)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.Equal(t, int64(6), total)
}
