package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/app/service"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/sehyunahn/seum-backend/internal/middleware"
	"github.com/sehyunahn/seum-backend/pkg/push/fcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationControllerTest(t *testing.T) (*gin.Engine, service.NotificationService, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	notificationService := service.NewNotificationService(
		repository.NewNotificationRepository(testDB),
		repository.NewUserRepository(testDB),
		fcm.NewClient(fcm.Config{}),
		nil,
		nil,
	)
	ctrl := NewNotificationController(notificationService)

	router := gin.New()
	authed := router.Group("", func(c *gin.Context) {
		// 테스트에서는 user_id 헤더로 인증을 대신한다
		c.Set(middleware.UserIDKey, uint(1))
		c.Next()
	})
	authed.GET("/notifications", ctrl.GetNotifications)
	authed.GET("/notifications/unread-count", ctrl.GetUnreadCount)
	authed.PUT("/notifications/:id/read", ctrl.MarkAsRead)
	authed.PUT("/notifications/read-all", ctrl.MarkAllAsRead)
	authed.DELETE("/notifications/:id", ctrl.DeleteNotification)

	return router, notificationService, testDB
}

func seedNotifications(t *testing.T, testDB *gorm.DB, userID uint, count int) []model.Notification {
	created := make([]model.Notification, 0, count)
	for i := 0; i < count; i++ {
		relatedID := uint(i + 1)
		n := model.Notification{
			UserID:     userID,
			Type:       model.NotificationTypeLike,
			Title:      "알림",
			Message:    "내용",
			RelatedID:  &relatedID,
			SenderName: "보낸사람",
		}
		require.NoError(t, testDB.Create(&n).Error)
		created = append(created, n)
	}
	return created
}

func TestNotificationController_List(t *testing.T) {
	router, _, testDB := setupNotificationControllerTest(t)
	seedNotifications(t, testDB, 1, 25)
	seedNotifications(t, testDB, 2, 5) // 남의 알림은 보이면 안 된다

	req := httptest.NewRequest(http.MethodGet, "/notifications?page=1&limit=20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":25`)
	assert.Contains(t, w.Body.String(), `"unread_count":25`)
	assert.Contains(t, w.Body.String(), `"has_more":true`)

	req = httptest.NewRequest(http.MethodGet, "/notifications?page=2&limit=20", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"has_more":false`)
}

func TestNotificationController_ReadFlow(t *testing.T) {
	router, svc, testDB := setupNotificationControllerTest(t)
	seedNotifications(t, testDB, 1, 3)

	req := httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"unread_count":3`)

	// 하나 읽음
	req = httptest.NewRequest(http.MethodPut, "/notifications/1/read", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	count, err := svc.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 전체 읽음
	req = httptest.NewRequest(http.MethodPut, "/notifications/read-all", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	count, err = svc.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// 삭제
	req = httptest.NewRequest(http.MethodDelete, "/notifications/2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/notifications/999/read", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationController_ForbiddenOnOthers(t *testing.T) {
	router, _, testDB := setupNotificationControllerTest(t)
	others := seedNotifications(t, testDB, 2, 1)

	req := httptest.NewRequest(http.MethodPut, "/notifications/1/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	// ID 1은 user 2의 알림이다
	require.Equal(t, others[0].ID, uint(1))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
