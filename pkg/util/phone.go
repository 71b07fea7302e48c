package util

import "strings"

// NormalizePhone strips every non-digit character from a phone number.
// 전화번호는 로그인 키이므로 저장/비교 전에 항상 숫자만 남긴다.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
