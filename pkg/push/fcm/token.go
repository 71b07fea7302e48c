package fcm

// 클라이언트가 올려보낸 푸시 토큰에 대한 방어적 형식 검사.
// 실제 유효성은 FCM 발송 결과로만 알 수 있고, 여기서는 명백히 잘못된
// 값만 걸러낸다. 네트워크 호출 없음.

const (
	minTokenLength = 100
	maxTokenLength = 300
)

var placeholderTokens = map[string]bool{
	"null":       true,
	"undefined":  true,
	"(null)":     true,
	"test_token": true,
}

// IsValidPushToken reports whether a stored push token looks deliverable:
// length within provider bounds, restricted character class, not a known
// placeholder value.
func IsValidPushToken(token string) bool {
	if placeholderTokens[token] {
		return false
	}
	if len(token) < minTokenLength || len(token) > maxTokenLength {
		return false
	}
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == ':':
		default:
			return false
		}
	}
	return true
}
