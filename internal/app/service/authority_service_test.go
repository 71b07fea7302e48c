package service

import (
	"testing"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthorityServiceTest(t *testing.T) (AuthorityService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	authorityRepo := repository.NewAuthorityRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	return NewAuthorityService(authorityRepo, userRepo), testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, name, phone string) *model.User {
	user := &model.User{
		Phone:        phone,
		PasswordHash: "hashed",
		Name:         name,
		Authority:    model.DefaultAuthorityDisplayName,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func findAuthority(t *testing.T, testDB *gorm.DB, name string) *model.Authority {
	var authority model.Authority
	require.NoError(t, testDB.Where("name = ?", name).First(&authority).Error)
	return &authority
}

func TestAuthorityService_Resolve_DefaultFallback(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "김철수", "01011112222")

	set, err := svc.Resolve(user.ID)
	require.NoError(t, err)

	// 배정이 없어도 권한 집합은 비지 않는다
	require.Len(t, set.Authorities, 1)
	assert.Equal(t, model.AuthorityLeader, set.Authorities[0].Name)
	assert.Equal(t, "리더", set.Authorities[0].DisplayName)
	assert.Equal(t, model.LevelDefault, set.HighestAuthorityLevel)
	assert.Equal(t, "리더", set.Authority)
	assert.Equal(t, user.Name, set.UserName)
}

func TestAuthorityService_Resolve_UserNotFound(t *testing.T) {
	svc, _ := setupAuthorityServiceTest(t)

	set, err := svc.Resolve(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, set)
}

func TestAuthorityService_Resolve_MultipleAuthorities(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "박영희", "01022223333")
	admin := createTestUser(t, testDB, "관리자", "01099998888")

	branchDirector := findAuthority(t, testDB, model.AuthorityBranchDirector)
	teamLeader := findAuthority(t, testDB, model.AuthorityTeamLeader)

	require.NoError(t, svc.AddAuthority(user.ID, teamLeader.ID, admin.ID))
	require.NoError(t, svc.AddAuthority(user.ID, branchDirector.ID, admin.ID))

	set, err := svc.Resolve(user.ID)
	require.NoError(t, err)

	require.Len(t, set.Authorities, 2)
	// 레벨 오름차순 정렬 = 상위 권한이 먼저
	assert.Equal(t, model.AuthorityBranchDirector, set.Authorities[0].Name)
	assert.Equal(t, 2, set.HighestAuthorityLevel)
	assert.Equal(t, "지부장", set.Authority)
	assert.Equal(t, "지부장, 팀장", set.AuthorityDisplayNames)

	assert.True(t, set.HasAuthority(model.AuthorityTeamLeader))
	assert.False(t, set.HasAuthority(model.AuthorityRepresentative))
	assert.True(t, set.CanManageUsers())
	assert.True(t, set.CanManageTraining())
	assert.False(t, set.IsMasterAuthority())
}

func TestAuthorityService_CanAccessByLevel_Monotonic(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "이민준", "01033334444")
	admin := createTestUser(t, testDB, "관리자", "01099998888")

	regionDirector := findAuthority(t, testDB, model.AuthorityRegionDirector)
	require.NoError(t, svc.AddAuthority(user.ID, regionDirector.ID, admin.ID))

	set, err := svc.Resolve(user.ID)
	require.NoError(t, err)

	// 지역장(3): 레벨 3 이상 느슨한 요구는 전부 통과, 2 이하 엄격한 요구는 전부 실패
	for required := 0; required < set.HighestAuthorityLevel; required++ {
		assert.False(t, set.CanAccessByLevel(required), "level %d", required)
	}
	for required := set.HighestAuthorityLevel; required <= model.LevelDefault; required++ {
		assert.True(t, set.CanAccessByLevel(required), "level %d", required)
	}
}

func TestAuthorityService_AddAuthority_Idempotent(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "최지우", "01044445555")
	admin := createTestUser(t, testDB, "관리자", "01099998888")

	teamLeader := findAuthority(t, testDB, model.AuthorityTeamLeader)

	require.NoError(t, svc.AddAuthority(user.ID, teamLeader.ID, admin.ID))
	require.NoError(t, svc.AddAuthority(user.ID, teamLeader.ID, admin.ID))

	set, err := svc.Resolve(user.ID)
	require.NoError(t, err)
	assert.Len(t, set.Authorities, 1)
}

func TestAuthorityService_AddAuthority_ReactivatesInactive(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "정수빈", "01055556666")
	admin := createTestUser(t, testDB, "관리자", "01099998888")

	teamLeader := findAuthority(t, testDB, model.AuthorityTeamLeader)

	require.NoError(t, svc.AddAuthority(user.ID, teamLeader.ID, admin.ID))
	require.NoError(t, svc.RemoveAuthority(user.ID, teamLeader.ID))
	require.NoError(t, svc.AddAuthority(user.ID, teamLeader.ID, admin.ID))

	set, err := svc.Resolve(user.ID)
	require.NoError(t, err)
	assert.Len(t, set.Authorities, 1)

	// 행은 하나만 유지된다 (재활성화이지 중복 삽입이 아니다)
	var count int64
	require.NoError(t, testDB.Model(&model.UserAuthority{}).
		Where("user_id = ? AND authority_id = ?", user.ID, teamLeader.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthorityService_AddAuthority_UnknownAuthority(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "한서연", "01066667777")

	err := svc.AddAuthority(user.ID, 99999, user.ID)
	assert.ErrorIs(t, err, ErrAuthorityNotFound)
}

func TestAuthorityService_RemoveAuthority_NoAssignment(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "오하린", "01077778888")

	teamLeader := findAuthority(t, testDB, model.AuthorityTeamLeader)

	// 배정된 적 없는 권한 해제는 no-op 성공이다
	assert.NoError(t, svc.RemoveAuthority(user.ID, teamLeader.ID))
}

func TestAuthorityService_LegacyMirrorFollowsAssignments(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "서도윤", "01088889999")
	admin := createTestUser(t, testDB, "관리자", "01099998888")

	representative := findAuthority(t, testDB, model.AuthorityRepresentative)
	require.NoError(t, svc.AddAuthority(user.ID, representative.ID, admin.ID))

	var reloaded model.User
	require.NoError(t, testDB.First(&reloaded, user.ID).Error)
	assert.Equal(t, "대표", reloaded.Authority)

	require.NoError(t, svc.RemoveAuthority(user.ID, representative.ID))
	require.NoError(t, testDB.First(&reloaded, user.ID).Error)
	assert.Equal(t, "리더", reloaded.Authority)

	// 미러는 판단에 쓰이지 않는다: 컬럼을 손으로 망가뜨려도 해석 결과는 그대로
	require.NoError(t, testDB.Model(&model.User{}).Where("id = ?", user.ID).
		Update("authority", "대표").Error)
	set, err := svc.Resolve(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LevelDefault, set.HighestAuthorityLevel)
	assert.False(t, set.IsMasterAuthority())
}

func TestAuthorityService_IsMasterAuthority(t *testing.T) {
	svc, testDB := setupAuthorityServiceTest(t)
	user := createTestUser(t, testDB, "대표님", "01010101010")
	admin := createTestUser(t, testDB, "관리자", "01099998888")

	generalDirector := findAuthority(t, testDB, model.AuthorityGeneralDirector)
	require.NoError(t, svc.AddAuthority(user.ID, generalDirector.ID, admin.ID))

	set, err := svc.Resolve(user.ID)
	require.NoError(t, err)
	assert.True(t, set.IsMasterAuthority())
	assert.True(t, set.CanManageUsers())
	assert.True(t, set.CanManageTraining())
}

func TestAuthorityService_ListAuthorities(t *testing.T) {
	svc, _ := setupAuthorityServiceTest(t)

	authorities, err := svc.ListAuthorities()
	require.NoError(t, err)
	require.Len(t, authorities, 6)

	// 레벨 오름차순
	for i := 1; i < len(authorities); i++ {
		assert.LessOrEqual(t, authorities[i-1].Level, authorities[i].Level)
	}
}
