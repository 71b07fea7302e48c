package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/sehyunahn/seum-backend/pkg/push/fcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fcmMessage struct {
	To string `json:"to"`
}

// newFakeFCM는 deadToken에 대해서만 NotRegistered를 돌려주는 가짜 FCM 서버를 띄운다.
func newFakeFCM(t *testing.T, deadToken string) (*httptest.Server, *fcm.Client) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg fcmMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := map[string]interface{}{"success": 1, "failure": 0}
		if msg.To == deadToken {
			resp = map[string]interface{}{
				"success": 0,
				"failure": 1,
				"results": []map[string]string{{"error": "NotRegistered"}},
			}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	client := fcm.NewClient(fcm.Config{
		ServerKey: "test-server-key",
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
	})
	return srv, client
}

func TestPushDispatcher_ClearsPermanentlyInvalidTokens(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)

	liveToken := "live-" + strings.Repeat("a", 120)
	deadToken := "dead-" + strings.Repeat("b", 120)

	liveUser := createTestUser(t, testDB, "김성실", "01011110001")
	require.NoError(t, userRepo.UpdatePushToken(liveUser.ID, liveToken))
	deadUser := createTestUser(t, testDB, "이믿음", "01011110002")
	require.NoError(t, userRepo.UpdatePushToken(deadUser.ID, deadToken))

	_, client := newFakeFCM(t, deadToken)

	dispatcher := NewPushDispatcher(client, userRepo)
	dispatcher.Start()

	dispatcher.Enqueue(&deliveryJob{
		Targets: []deliveryTarget{
			{Token: liveToken, Badge: 1},
			{Token: deadToken, Badge: 2},
		},
		Notification: fcm.Notification{Title: "새 공지", Body: "본문"},
		Data:         map[string]string{"type": "notice"},
	})

	// Stop은 큐를 닫고 남은 잡이 다 처리될 때까지 기다린다
	dispatcher.Stop()

	var live, dead string
	require.NoError(t, testDB.Table("users").Select("push_token").
		Where("id = ?", liveUser.ID).Scan(&live).Error)
	require.NoError(t, testDB.Table("users").Select("push_token").
		Where("id = ?", deadUser.ID).Scan(&dead).Error)

	assert.Equal(t, liveToken, live, "deliverable token stays")
	assert.Empty(t, dead, "permanently invalid token is cleared")
}

func TestPushDispatcher_QueueFullDropsJob(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	client := fcm.NewClient(fcm.Config{})

	// 워커를 띄우지 않아 큐가 소비되지 않는 상태
	dispatcher := NewPushDispatcher(client, userRepo)

	for i := 0; i < 300; i++ {
		dispatcher.Enqueue(&deliveryJob{
			Targets: []deliveryTarget{{Token: "t", Badge: 1}},
		})
	}
	// Enqueue가 블로킹하지 않고 돌아오면 통과다
}
