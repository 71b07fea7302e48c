package util

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

// 리프레시 토큰 형식: 64자리 16진수 불투명 문자열
var refreshTokenPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// GenerateRefreshToken returns a 64-character lowercase hex opaque token
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IsValidRefreshTokenFormat checks the token shape before any store lookup
func IsValidRefreshTokenFormat(token string) bool {
	return refreshTokenPattern.MatchString(token)
}
