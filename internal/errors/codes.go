package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 앱에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 전화번호/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthPhoneExists        = "AUTH_PHONE_EXISTS"        // 전화번호 중복
	AuthRefreshInvalid     = "AUTH_REFRESH_INVALID"     // 잘못된 리프레시 토큰
	AuthPasswordTooShort   = "AUTH_PASSWORD_TOO_SHORT"  // 비밀번호 너무 짧음

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // 작업 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 작성자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"       // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"  // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"        // 충돌

	// ==================== 사용자/권한 배정 (USER_) ====================
	UserNotFound      = "USER_NOT_FOUND"      // 사용자 없음
	AuthorityNotFound = "AUTHORITY_NOT_FOUND" // 권한(역할) 없음

	// ==================== 공지 (NOTICE_) ====================
	NoticeNotFound = "NOTICE_NOT_FOUND" // 공지 없음

	// ==================== 간증 (TESTIMONY_) ====================
	TestimonyNotFound = "TESTIMONY_NOT_FOUND" // 간증글 없음
	CommentNotFound   = "COMMENT_NOT_FOUND"   // 댓글 없음

	// ==================== 행사 (EVENT_) ====================
	EventNotFound = "EVENT_NOT_FOUND" // 행사 없음

	// ==================== 조직 (ORG_) ====================
	OrgBranchNotFound = "ORG_BRANCH_NOT_FOUND" // 지부 없음
	OrgTeamNotFound   = "ORG_TEAM_NOT_FOUND"   // 팀 없음

	// ==================== 알림 (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND" // 알림 없음

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
