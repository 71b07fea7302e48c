package service

import (
	"errors"
	"strings"
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrAuthorityNotFound = errors.New("authority not found")
)

// ResolvedAuthority 권한 배정의 외부 표현.
// 모든 필드는 방어적으로 기본값이 채워진다: 외부로 나가는 표현에
// null/결손 필드가 없어야 한다는 계약이다 (표시명 없으면 이름으로,
// 레벨 없으면 999, 시각 없으면 현재 시각).
type ResolvedAuthority struct {
	ID          uint      `json:"id"`
	CategoryID  uint      `json:"categoryId"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Level       int       `json:"level"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ResolvedAuthoritySet 사용자의 유효 권한 집합 (파생 데이터, 저장 안 함).
// 존재하는 사용자에 대해 authorities는 절대 비지 않는다: 활성 배정이
// 없으면 기본 권한(리더) 한 개로 채운다.
type ResolvedAuthoritySet struct {
	UserID                uint                `json:"userId"`
	UserName              string              `json:"userName"`
	Authorities           []ResolvedAuthority `json:"authorities"`
	HighestAuthorityLevel int                 `json:"highestAuthorityLevel"`
	AuthorityDisplayNames string              `json:"authorityDisplayNames"`
	// Authority 레거시 단일 권한 문자열: 최상위 권한의 표시명 미러
	Authority string `json:"authority"`
}

// HasAuthority 이름이 일치하는 활성 권한 보유 여부
func (s *ResolvedAuthoritySet) HasAuthority(name string) bool {
	for _, a := range s.Authorities {
		if a.Name == name {
			return true
		}
	}
	return false
}

// CanAccessByLevel requiredLevel 이상으로 상위인지 검사.
// 레벨 숫자가 낮을수록 상위이므로 <= 비교다.
func (s *ResolvedAuthoritySet) CanAccessByLevel(requiredLevel int) bool {
	return s.HighestAuthorityLevel <= requiredLevel
}

// IsMasterAuthority 최상위 두 권한(대표/총괄) 중 하나라도 보유하는지
func (s *ResolvedAuthoritySet) IsMasterAuthority() bool {
	return s.HasAuthority(model.AuthorityRepresentative) || s.HasAuthority(model.AuthorityGeneralDirector)
}

// CanManageUsers 사용자 관리 가능 여부 (팀장 이상)
func (s *ResolvedAuthoritySet) CanManageUsers() bool {
	return s.CanAccessByLevel(model.LevelManageUsers)
}

// CanManageTraining 훈련 관리 가능 여부 (지부장 이상)
func (s *ResolvedAuthoritySet) CanManageTraining() bool {
	return s.CanAccessByLevel(model.LevelManageTraining)
}

// AuthorityService 권한 조회/배정 서비스 인터페이스.
// 레거시 단일 권한 컬럼에서 다중 권한 모델로의 이행을 감싼다:
// 판단의 근거는 언제나 여기서 계산한 다중 권한 집합이고,
// users.authority 컬럼은 쓰기 전용 미러다.
type AuthorityService interface {
	Resolve(userID uint) (*ResolvedAuthoritySet, error)
	AddAuthority(userID, authorityID, assignedBy uint) error
	RemoveAuthority(userID, authorityID uint) error
	ListAuthorities() ([]model.Authority, error)
}

type authorityService struct {
	repo     repository.AuthorityRepository
	userRepo repository.UserRepository
}

// NewAuthorityService 권한 서비스 생성자
func NewAuthorityService(repo repository.AuthorityRepository, userRepo repository.UserRepository) AuthorityService {
	return &authorityService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// Resolve 사용자의 유효 권한 집합 계산 (읽기 전용).
// 사용자가 없으면 ErrUserNotFound: "없는 사용자"와 "권한 없는 사용자"는
// 구분되는 결과다. 권한 없는 사용자에게는 기본 권한을 합성해 돌려준다.
func (s *authorityService) Resolve(userID uint) (*ResolvedAuthoritySet, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	assignments, err := s.repo.FindActiveByUserID(userID)
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedAuthority, 0, len(assignments))
	for _, assignment := range assignments {
		resolved = append(resolved, toResolvedAuthority(assignment))
	}

	// 활성 배정이 없으면 기본 권한(리더)으로 채운다
	if len(resolved) == 0 {
		fallback, err := s.repo.FindAuthorityByName(model.AuthorityLeader)
		if err != nil {
			// 기준 데이터 누락: 폴백 정책상 도달하면 안 되는 상태
			logger.Error("Default authority missing from reference data", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
		resolved = append(resolved, ResolvedAuthority{
			ID:          fallback.ID,
			CategoryID:  fallback.CategoryID,
			Name:        fallback.Name,
			DisplayName: defaultString(fallback.DisplayName, fallback.Name),
			Level:       fallback.Level,
			IsActive:    true,
			CreatedAt:   time.Now(),
		})
	}

	highest := model.NoPrivilegeLevel
	displayNames := make([]string, 0, len(resolved))
	for _, a := range resolved {
		if a.Level < highest {
			highest = a.Level
		}
		displayNames = append(displayNames, a.DisplayName)
	}

	set := &ResolvedAuthoritySet{
		UserID:                user.ID,
		UserName:              user.Name,
		Authorities:           resolved,
		HighestAuthorityLevel: highest,
		AuthorityDisplayNames: strings.Join(displayNames, ", "),
		Authority:             resolved[0].DisplayName, // 레벨 오름차순 정렬이므로 첫 항목이 최상위
	}
	return set, nil
}

// AddAuthority 권한 배정 (멱등). 같은 쌍의 비활성 배정이 있으면 재활성화.
// 배정이 바뀌면 레거시 미러 컬럼도 따라 갱신한다.
func (s *authorityService) AddAuthority(userID, authorityID, assignedBy uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if _, err := s.repo.FindAuthorityByID(authorityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorityNotFound
		}
		return err
	}

	if err := s.repo.UpsertAssignment(userID, authorityID, assignedBy); err != nil {
		return err
	}

	s.refreshLegacyAuthority(userID)

	logger.Info("Authority assigned", map[string]interface{}{
		"user_id":      userID,
		"authority_id": authorityID,
		"assigned_by":  assignedBy,
	})
	return nil
}

// RemoveAuthority 권한 해제 (soft-deactivation). 배정이 없어도 성공.
func (s *authorityService) RemoveAuthority(userID, authorityID uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.DeactivateAssignment(userID, authorityID); err != nil {
		return err
	}

	s.refreshLegacyAuthority(userID)

	logger.Info("Authority removed", map[string]interface{}{
		"user_id":      userID,
		"authority_id": authorityID,
	})
	return nil
}

func (s *authorityService) ListAuthorities() ([]model.Authority, error) {
	return s.repo.ListAuthorities()
}

// refreshLegacyAuthority 레거시 단일 권한 컬럼을 최상위 표시명으로 갱신.
// 미러 갱신 실패는 본 작업을 되돌리지 않는다.
func (s *authorityService) refreshLegacyAuthority(userID uint) {
	set, err := s.Resolve(userID)
	if err != nil {
		logger.Warn("Failed to resolve authorities for legacy mirror", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}
	if err := s.userRepo.UpdateLegacyAuthority(userID, set.Authority); err != nil {
		logger.Warn("Failed to update legacy authority column", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

func toResolvedAuthority(assignment model.UserAuthority) ResolvedAuthority {
	resolved := ResolvedAuthority{
		ID:        assignment.AuthorityID,
		Level:     model.NoPrivilegeLevel,
		IsActive:  assignment.IsActive,
		CreatedAt: assignment.AssignedAt,
	}
	if resolved.CreatedAt.IsZero() {
		resolved.CreatedAt = time.Now()
	}
	if assignment.Authority != nil {
		resolved.CategoryID = assignment.Authority.CategoryID
		resolved.Name = assignment.Authority.Name
		resolved.DisplayName = defaultString(assignment.Authority.DisplayName, assignment.Authority.Name)
		resolved.Level = assignment.Authority.Level
	}
	return resolved
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
