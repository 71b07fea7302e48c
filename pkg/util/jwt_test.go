package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateAccessToken(t *testing.T) {
	tests := []struct {
		name   string
		userID uint
		phone  string
		role   string
	}{
		{
			name:   "Leader role",
			userID: 1,
			phone:  "01012345678",
			role:   "리더",
		},
		{
			name:   "Team leader role",
			userID: 2,
			phone:  "01087654321",
			role:   "팀장",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateAccessToken(tt.userID, tt.phone, tt.role, testSecret, 15*time.Minute)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.phone, claims.Phone)
			assert.Equal(t, tt.role, claims.Role)
		})
	}
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateAccessToken(123, "01011112222", "리더", testSecret, 15*time.Minute)
	require.NoError(t, err)

	expired, err := GenerateAccessToken(123, "01011112222", "리더", testSecret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Invalid secret",
			token:   token,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Expired token",
			token:   expired,
			secret:  testSecret,
			wantErr: ErrExpiredToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
			}
		})
	}
}

func TestRefreshTokenFormat(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.True(t, IsValidRefreshTokenFormat(token))

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "Uppercase hex", token: "ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789", want: true},
		{name: "Too short", token: "abc123", want: false},
		{name: "Non-hex characters", token: "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", want: false},
		{name: "Empty", token: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRefreshTokenFormat(tt.token))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "01012345678", NormalizePhone("010-1234-5678"))
	assert.Equal(t, "01012345678", NormalizePhone("010 1234 5678"))
	assert.Equal(t, "821012345678", NormalizePhone("+82-10-1234-5678"))
	assert.Equal(t, "", NormalizePhone(""))
}
