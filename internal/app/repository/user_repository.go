package repository

import (
	"github.com/sehyunahn/seum-backend/internal/app/model"
	"gorm.io/gorm"
)

// UserRepository 사용자 저장소 인터페이스
type UserRepository interface {
	Create(user *model.User) error
	BulkCreate(users []model.User, batchSize int) error
	FindByID(id uint) (*model.User, error)
	FindByPhone(phone string) (*model.User, error)
	FindAll(search string, limit, offset int) ([]model.User, int64, error)
	Update(user *model.User) error
	UpdateFields(userID uint, fields map[string]interface{}) error
	UpdatePassword(userID uint, passwordHash string) error
	UpdatePushToken(userID uint, token string) error
	ClearPushTokenByValue(token string) error
	UpdateLegacyAuthority(userID uint, displayName string) error
	FindAllWithPushTokens() ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 사용자 저장소 생성자
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// BulkCreate 명단 일괄 등록 (시드 커맨드에서 사용)
func (r *userRepository) BulkCreate(users []model.User, batchSize int) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.CreateInBatches(users, batchSize).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Region").Preload("Group").Preload("Teams").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll 사용자 목록 조회 (이름/전화번호 검색 + 페이지네이션)
func (r *userRepository) FindAll(search string, limit, offset int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.db.Model(&model.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Region").Preload("Group").Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// UpdateFields 프로필 부분 수정. 존재하는 필드만 갱신한다 (sparse patch).
func (r *userRepository) UpdateFields(userID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *userRepository) UpdatePassword(userID uint, passwordHash string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) UpdatePushToken(userID uint, token string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Update("push_token", token).Error
}

// ClearPushTokenByValue FCM이 영구 무효로 보고한 토큰을 비운다.
// 같은 토큰이 어느 사용자에게 저장되어 있든 전부 정리한다.
func (r *userRepository) ClearPushTokenByValue(token string) error {
	return r.db.Model(&model.User{}).Where("push_token = ?", token).
		Update("push_token", "").Error
}

// UpdateLegacyAuthority 레거시 단일 권한 컬럼 미러 갱신 (쓰기 전용)
func (r *userRepository) UpdateLegacyAuthority(userID uint, displayName string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Update("authority", displayName).Error
}

// FindAllWithPushTokens 푸시 토큰이 저장된 모든 사용자 (브로드캐스트 대상 후보)
func (r *userRepository) FindAllWithPushTokens() ([]model.User, error) {
	var users []model.User
	err := r.db.Where("push_token IS NOT NULL AND push_token <> ''").Find(&users).Error
	return users, err
}
