package service

import (
	"context"
	"errors"
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"github.com/sehyunahn/seum-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrPhoneAlreadyExists  = errors.New("phone number already exists")
	ErrInvalidCredentials  = errors.New("invalid phone number or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// TokenStore 리프레시 토큰 저장소 (Redis 구현이 기본, 테스트는 인메모리)
type TokenStore interface {
	Save(ctx context.Context, token string, userID uint, expiry time.Duration) error
	Lookup(ctx context.Context, token string) (uint, bool, error)
	Revoke(ctx context.Context, token string) error
}

// JoinRequest 가입 요청
type JoinRequest struct {
	Phone        string     `json:"phone" binding:"required"`
	Password     string     `json:"password" binding:"required,min=8"`
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email"`
	Birthday     *time.Time `json:"birthday"`
	Gender       string     `json:"gender"`
	School       string     `json:"school"`
	AcademicYear int        `json:"academic_year"`
	RegionID     *uint      `json:"region_id"`
	GroupID      *uint      `json:"group_id"`
}

// UpdateProfileRequest 프로필 부분 수정 요청.
// 포인터 필드만 갱신된다 (sparse patch): nil은 "건드리지 않음"이다.
type UpdateProfileRequest struct {
	Name         *string    `json:"name"`
	Email        *string    `json:"email"`
	Birthday     *time.Time `json:"birthday"`
	Gender       *string    `json:"gender"`
	School       *string    `json:"school"`
	AcademicYear *int       `json:"academic_year"`
	RegionID     *uint      `json:"region_id"`
	GroupID      *uint      `json:"group_id"`
}

// fields 존재하는 필드만 컬럼 맵으로 변환
func (r *UpdateProfileRequest) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.Birthday != nil {
		fields["birthday"] = *r.Birthday
	}
	if r.Gender != nil {
		fields["gender"] = *r.Gender
	}
	if r.School != nil {
		fields["school"] = *r.School
	}
	if r.AcademicYear != nil {
		fields["academic_year"] = *r.AcademicYear
	}
	if r.RegionID != nil {
		fields["region_id"] = *r.RegionID
	}
	if r.GroupID != nil {
		fields["group_id"] = *r.GroupID
	}
	return fields
}

// AuthService 인증 서비스 인터페이스
type AuthService interface {
	Join(ctx context.Context, req *JoinRequest) (*model.User, *util.TokenPair, error)
	Login(ctx context.Context, phone, password string) (*model.User, *util.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, req *UpdateProfileRequest) (*model.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
	UpdatePushToken(userID uint, token string) error
}

type authService struct {
	userRepo      repository.UserRepository
	tokenStore    TokenStore
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService 인증 서비스 생성자
func NewAuthService(
	userRepo repository.UserRepository,
	tokenStore TokenStore,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		tokenStore:    tokenStore,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Join 가입. 전화번호는 숫자만 남겨 저장/비교한다.
func (s *authService) Join(ctx context.Context, req *JoinRequest) (*model.User, *util.TokenPair, error) {
	phone := util.NormalizePhone(req.Phone)

	logger.Info("Attempting user join", map[string]interface{}{
		"phone": phone,
		"name":  req.Name,
	})

	existing, err := s.userRepo.FindByPhone(phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, err
	}
	if existing != nil {
		logger.Warn("Join failed: phone already exists", map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, ErrPhoneAlreadyExists
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Phone:        phone,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Email:        req.Email,
		Birthday:     req.Birthday,
		Gender:       model.Gender(req.Gender),
		School:       req.School,
		AcademicYear: req.AcademicYear,
		Authority:    model.DefaultAuthorityDisplayName, // 레거시 미러 초기값
		RegionID:     req.RegionID,
		GroupID:      req.GroupID,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User joined successfully", map[string]interface{}{
		"user_id": user.ID,
		"phone":   phone,
	})
	return user, tokens, nil
}

// Login 로그인
func (s *authService) Login(ctx context.Context, phone, password string) (*model.User, *util.TokenPair, error) {
	phone = util.NormalizePhone(phone)

	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"phone": phone,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

// Refresh 리프레시 토큰 교환. 형식 검사를 저장소 조회보다 먼저 한다.
// 사용한 토큰은 폐기하고 새 쌍을 발급한다 (회전).
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	if !util.IsValidRefreshTokenFormat(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	userID, found, err := s.tokenStore.Lookup(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if err := s.tokenStore.Revoke(ctx, refreshToken); err != nil {
		logger.Warn("Failed to revoke used refresh token", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	return s.issueTokens(ctx, user)
}

// Logout 리프레시 토큰 폐기. 모르는 토큰이어도 성공 처리한다.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if !util.IsValidRefreshTokenFormat(refreshToken) {
		return nil
	}
	return s.tokenStore.Revoke(ctx, refreshToken)
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile 프로필 부분 수정 (존재하는 필드만 반영)
func (s *authService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*model.User, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateFields(userID, req.fields()); err != nil {
		logger.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

// ChangePassword 비밀번호 변경 (현재 비밀번호 확인 후)
func (s *authService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(userID, hashed)
}

// UpdatePushToken 푸시 토큰 갱신. 빈 문자열은 토큰 제거다.
func (s *authService) UpdatePushToken(userID uint, token string) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.UpdatePushToken(userID, token)
}

// issueTokens 액세스 + 리프레시 토큰 쌍 발급.
// 액세스 토큰의 role은 레거시 표시용 라벨이다.
func (s *authService) issueTokens(ctx context.Context, user *model.User) (*util.TokenPair, error) {
	accessToken, err := util.GenerateAccessToken(user.ID, user.Phone, user.Authority, s.jwtSecret, s.accessExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := util.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.Save(ctx, refreshToken, user.ID, s.refreshExpiry); err != nil {
		return nil, err
	}

	return &util.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
