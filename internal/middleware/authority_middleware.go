package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sehyunahn/seum-backend/internal/app/service"
	"github.com/sehyunahn/seum-backend/internal/errors"
)

// AuthoritySetKey 컨텍스트에 실리는 해석된 권한 집합의 키
const AuthoritySetKey = "authority_set"

// AuthorityMiddleware 다중 권한 모델 기반 접근 제어.
// 판단은 항상 배정 테이블에서 해석한 집합으로 한다.
// 토큰에 실린 레거시 role 문자열은 쓰지 않는다.
type AuthorityMiddleware struct {
	authorityService service.AuthorityService
}

func NewAuthorityMiddleware(authorityService service.AuthorityService) *AuthorityMiddleware {
	return &AuthorityMiddleware{authorityService: authorityService}
}

// resolve 인증된 사용자의 권한 집합을 해석해 컨텍스트에 싣는다
func (m *AuthorityMiddleware) resolve(c *gin.Context) (*service.ResolvedAuthoritySet, bool) {
	if cached, exists := c.Get(AuthoritySetKey); exists {
		if set, ok := cached.(*service.ResolvedAuthoritySet); ok {
			return set, true
		}
	}

	userID, ok := GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		c.Abort()
		return nil, false
	}

	set, err := m.authorityService.Resolve(userID)
	if err != nil {
		log := GetLoggerFromContext(c)
		log.Error("Failed to resolve user authorities", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		c.Abort()
		return nil, false
	}

	c.Set(AuthoritySetKey, set)
	return set, true
}

// RequireUserManager 사용자 관리 권한(팀장 이상) 검사
func (m *AuthorityMiddleware) RequireUserManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		set, ok := m.resolve(c)
		if !ok {
			return
		}
		if !set.CanManageUsers() {
			errors.Forbidden(c, "사용자 관리 권한이 없습니다")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireTrainingManager 훈련 관리 권한(지부장 이상) 검사
func (m *AuthorityMiddleware) RequireTrainingManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		set, ok := m.resolve(c)
		if !ok {
			return
		}
		if !set.CanManageTraining() {
			errors.Forbidden(c, "관리 권한이 없습니다")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireMaster 최상위 권한(대표/총괄) 검사
func (m *AuthorityMiddleware) RequireMaster() gin.HandlerFunc {
	return func(c *gin.Context) {
		set, ok := m.resolve(c)
		if !ok {
			return
		}
		if !set.IsMasterAuthority() {
			errors.Forbidden(c, "최상위 권한이 필요합니다")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ResolveAuthorities 검사 없이 권한 집합만 컨텍스트에 싣는다.
// 핸들러 안에서 소유자-또는-관리자 분기가 필요한 경로에 쓴다.
func (m *AuthorityMiddleware) ResolveAuthorities() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.resolve(c); !ok {
			return
		}
		c.Next()
	}
}

// GetAuthoritySet extracts the resolved authority set from context
func GetAuthoritySet(c *gin.Context) (*service.ResolvedAuthoritySet, bool) {
	value, exists := c.Get(AuthoritySetKey)
	if !exists {
		return nil, false
	}
	set, ok := value.(*service.ResolvedAuthoritySet)
	return set, ok
}
