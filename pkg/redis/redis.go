package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sehyunahn/seum-backend/config"
	"github.com/sehyunahn/seum-backend/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// ==================== 리프레시 토큰 저장소 ====================

// RefreshTokenStore Redis 기반 리프레시 토큰 저장소
// 키: refresh:<64자 hex 토큰>, 값: 사용자 ID, TTL: 토큰 만료 기간
type RefreshTokenStore struct{}

// NewRefreshTokenStore creates a Redis-backed refresh token store
func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{}
}

func refreshKey(token string) string {
	return fmt.Sprintf("refresh:%s", token)
}

// Save stores a refresh token for a user with the given expiry
func (s *RefreshTokenStore) Save(ctx context.Context, token string, userID uint, expiry time.Duration) error {
	return client.Set(ctx, refreshKey(token), strconv.FormatUint(uint64(userID), 10), expiry).Err()
}

// Lookup returns the user ID owning the token, or found=false when absent/expired
func (s *RefreshTokenStore) Lookup(ctx context.Context, token string) (uint, bool, error) {
	val, err := client.Get(ctx, refreshKey(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, false, err
	}
	return uint(userID), true, nil
}

// Revoke deletes a refresh token. Deleting an absent token is not an error.
func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	return client.Del(ctx, refreshKey(token)).Err()
}

// ==================== 액세스 토큰 블랙리스트 ====================

// BlacklistToken adds an access token to the blacklist (used on logout)
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	err := client.Set(ctx, key, "revoked", expiry).Err()
	if err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if an access token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	return val == "revoked", nil
}

// TokenBlacklist 액세스 토큰 차단 목록. 미들웨어/컨트롤러가 기대하는
// 인터페이스 형태로 패키지 함수를 감싼다.
type TokenBlacklist struct{}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{}
}

func (b *TokenBlacklist) BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	return BlacklistToken(ctx, token, expiry)
}

func (b *TokenBlacklist) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return IsTokenBlacklisted(ctx, token)
}
