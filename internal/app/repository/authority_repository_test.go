package repository

import (
	"testing"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthorityTest(t *testing.T) (*gorm.DB, AuthorityRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	repo := NewAuthorityRepository(testDB)
	return testDB, repo
}

func mustAuthority(t *testing.T, repo AuthorityRepository, name string) *model.Authority {
	t.Helper()
	authority, err := repo.FindAuthorityByName(name)
	require.NoError(t, err)
	return authority
}

func TestAuthorityRepository_ListAuthorities(t *testing.T) {
	_, repo := setupAuthorityTest(t)

	authorities, err := repo.ListAuthorities()
	require.NoError(t, err)
	require.Len(t, authorities, 6)

	// 레벨 오름차순: 상위 권한이 먼저 온다
	assert.Equal(t, model.AuthorityRepresentative, authorities[0].Name)
	assert.Equal(t, 0, authorities[0].Level)
	assert.Equal(t, model.AuthorityLeader, authorities[5].Name)
	assert.Equal(t, model.LevelDefault, authorities[5].Level)

	for _, a := range authorities {
		assert.NotNil(t, a.Category, "category should be preloaded for %s", a.Name)
	}
}

func TestAuthorityRepository_FindAuthorityByName(t *testing.T) {
	_, repo := setupAuthorityTest(t)

	authority := mustAuthority(t, repo, model.AuthorityTeamLeader)
	assert.Equal(t, "팀장", authority.DisplayName)
	assert.Equal(t, 4, authority.Level)

	_, err := repo.FindAuthorityByName("NO_SUCH_AUTHORITY")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthorityRepository_UpsertAssignment(t *testing.T) {
	testDB, repo := setupAuthorityTest(t)

	teamLeader := mustAuthority(t, repo, model.AuthorityTeamLeader)
	const userID, assignerID = uint(10), uint(1)

	require.NoError(t, repo.UpsertAssignment(userID, teamLeader.ID, assignerID))

	t.Run("Assignment is active", func(t *testing.T) {
		assignments, err := repo.FindActiveByUserID(userID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, teamLeader.ID, assignments[0].AuthorityID)
		assert.True(t, assignments[0].IsActive)
	})

	t.Run("Repeated upsert keeps a single row", func(t *testing.T) {
		require.NoError(t, repo.UpsertAssignment(userID, teamLeader.ID, assignerID))

		var count int64
		err := testDB.Model(&model.UserAuthority{}).
			Where("user_id = ? AND authority_id = ?", userID, teamLeader.ID).
			Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Deactivate then reassign reactivates the same row", func(t *testing.T) {
		require.NoError(t, repo.DeactivateAssignment(userID, teamLeader.ID))

		assignments, err := repo.FindActiveByUserID(userID)
		require.NoError(t, err)
		assert.Empty(t, assignments)

		require.NoError(t, repo.UpsertAssignment(userID, teamLeader.ID, assignerID))

		assignments, err = repo.FindActiveByUserID(userID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)

		var count int64
		err = testDB.Model(&model.UserAuthority{}).
			Where("user_id = ? AND authority_id = ?", userID, teamLeader.ID).
			Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "reactivation must not create a second row")
	})
}

func TestAuthorityRepository_FindActiveByUserID_Order(t *testing.T) {
	_, repo := setupAuthorityTest(t)

	teamLeader := mustAuthority(t, repo, model.AuthorityTeamLeader)
	branchDirector := mustAuthority(t, repo, model.AuthorityBranchDirector)
	const userID = uint(10)

	// 하위 권한을 먼저 배정해도 조회는 레벨 순
	require.NoError(t, repo.UpsertAssignment(userID, teamLeader.ID, 1))
	require.NoError(t, repo.UpsertAssignment(userID, branchDirector.ID, 1))

	assignments, err := repo.FindActiveByUserID(userID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, branchDirector.ID, assignments[0].AuthorityID)
	assert.Equal(t, teamLeader.ID, assignments[1].AuthorityID)
	require.NotNil(t, assignments[0].Authority)
	assert.Equal(t, "지부장", assignments[0].Authority.DisplayName)
}

func TestAuthorityRepository_DeactivateAssignment_NoActiveRow(t *testing.T) {
	_, repo := setupAuthorityTest(t)

	teamLeader := mustAuthority(t, repo, model.AuthorityTeamLeader)

	// 활성 배정이 없어도 에러가 아니다
	assert.NoError(t, repo.DeactivateAssignment(99, teamLeader.ID))
}
