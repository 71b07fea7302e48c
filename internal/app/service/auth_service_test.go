package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/sehyunahn/seum-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryTokenStore Redis 없이 돌리는 테스트용 토큰 저장소
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]uint
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]uint)}
}

func (m *memoryTokenStore) Save(_ context.Context, token string, userID uint, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = userID
	return nil
}

func (m *memoryTokenStore) Lookup(_ context.Context, token string) (uint, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tokens[token]
	return userID, ok, nil
}

func (m *memoryTokenStore) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, *memoryTokenStore, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store := newMemoryTokenStore()
	svc := NewAuthService(
		repository.NewUserRepository(testDB),
		store,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	return svc, store, testDB
}

func TestAuthService_Join(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	user, tokens, err := svc.Join(ctx, &JoinRequest{
		Phone:    "010-1234-5678",
		Password: "password123",
		Name:     "김철수",
	})
	require.NoError(t, err)

	// 전화번호는 숫자만 남아 저장된다
	assert.Equal(t, "01012345678", user.Phone)
	assert.Equal(t, "리더", user.Authority)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.True(t, util.IsValidRefreshTokenFormat(tokens.RefreshToken))

	claims, err := util.ValidateToken(tokens.AccessToken, "test-jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "01012345678", claims.Phone)

	// 같은 번호는 서식이 달라도 중복이다
	_, _, err = svc.Join(ctx, &JoinRequest{
		Phone:    "01012345678",
		Password: "password456",
		Name:     "다른사람",
	})
	assert.ErrorIs(t, err, ErrPhoneAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	_, _, err := svc.Join(ctx, &JoinRequest{
		Phone:    "01012345678",
		Password: "password123",
		Name:     "김철수",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		phone    string
		password string
		wantErr  error
	}{
		{name: "정상 로그인", phone: "01012345678", password: "password123"},
		{name: "서식 있는 번호로 로그인", phone: "010-1234-5678", password: "password123"},
		{name: "없는 번호", phone: "01000000000", password: "password123", wantErr: ErrInvalidCredentials},
		{name: "틀린 비밀번호", phone: "01012345678", password: "wrong", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := svc.Login(ctx, tt.phone, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "김철수", user.Name)
			assert.NotEmpty(t, tokens.AccessToken)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, store, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	_, tokens, err := svc.Join(ctx, &JoinRequest{
		Phone:    "01012345678",
		Password: "password123",
		Name:     "김철수",
	})
	require.NoError(t, err)

	newTokens, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, newTokens.RefreshToken)

	// 회전: 사용한 토큰은 재사용 불가
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// 형식이 어긋난 토큰은 저장소 조회 전에 거른다
	_, err = svc.Refresh(ctx, "not-a-hex-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	store.mu.Lock()
	storeSize := len(store.tokens)
	store.mu.Unlock()
	assert.Equal(t, 1, storeSize) // 회전 후 새 토큰 하나만 남는다
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	_, tokens, err := svc.Join(ctx, &JoinRequest{
		Phone:    "01012345678",
		Password: "password123",
		Name:     "김철수",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// 모르는 토큰 로그아웃도 성공 처리
	assert.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestAuthService_UpdateProfile_Sparse(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	user, _, err := svc.Join(ctx, &JoinRequest{
		Phone:    "01012345678",
		Password: "password123",
		Name:     "김철수",
		Email:    "old@example.com",
		School:   "서울대학교",
	})
	require.NoError(t, err)

	newEmail := "new@example.com"
	updated, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{Email: &newEmail})
	require.NoError(t, err)

	// 지정한 필드만 바뀌고 나머지는 유지된다
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "김철수", updated.Name)
	assert.Equal(t, "서울대학교", updated.School)

	_, err = svc.UpdateProfile(99999, &UpdateProfileRequest{Email: &newEmail})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	user, _, err := svc.Join(ctx, &JoinRequest{
		Phone:    "01012345678",
		Password: "password123",
		Name:     "김철수",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, "wrong-current", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(user.ID, "password123", "newpassword1"))

	_, _, err = svc.Login(ctx, "01012345678", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "01012345678", "newpassword1")
	assert.NoError(t, err)
}

func TestAuthService_UpdatePushToken(t *testing.T) {
	svc, _, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	user, _, err := svc.Join(ctx, &JoinRequest{
		Phone:    "01012345678",
		Password: "password123",
		Name:     "김철수",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePushToken(user.ID, "fcm-token-value"))

	var reloaded struct{ PushToken string }
	require.NoError(t, testDB.Table("users").Select("push_token").
		Where("id = ?", user.ID).Scan(&reloaded).Error)
	assert.Equal(t, "fcm-token-value", reloaded.PushToken)

	// 빈 문자열은 토큰 제거
	require.NoError(t, svc.UpdatePushToken(user.ID, ""))
	require.NoError(t, testDB.Table("users").Select("push_token").
		Where("id = ?", user.ID).Scan(&reloaded).Error)
	assert.Empty(t, reloaded.PushToken)

	assert.ErrorIs(t, svc.UpdatePushToken(99999, "tok"), ErrUserNotFound)
}
