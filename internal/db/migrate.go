package db

import (
	"errors"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.AuthorityCategory{},
		&model.Authority{},
		&model.UserAuthority{},
		&model.Branch{},
		&model.Region{},
		&model.Group{},
		&model.Team{},
		&model.Notice{},
		&model.Testimony{},
		&model.TestimonyLike{},
		&model.Comment{},
		&model.Event{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedAuthorities(DB); err != nil {
		logger.Error("Failed to seed authority reference data", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedAuthorities ensures the authority reference data exists.
// 권한 기준 데이터가 없으면 기본 권한 폴백이 동작할 수 없으므로
// 마이그레이션의 일부로 항상 채워 넣는다.
func SeedAuthorities(db *gorm.DB) error {
	categories := []model.AuthorityCategory{
		{Name: "ministry", DisplayName: "사역"},
		{Name: "organization", DisplayName: "조직"},
	}
	for i := range categories {
		var existing model.AuthorityCategory
		err := db.Where("name = ?", categories[i].Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&categories[i]).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		categories[i] = existing
	}

	ministryID := categories[0].ID
	organizationID := categories[1].ID

	authorities := []model.Authority{
		{CategoryID: ministryID, Name: model.AuthorityRepresentative, DisplayName: "대표", Level: 0},
		{CategoryID: ministryID, Name: model.AuthorityGeneralDirector, DisplayName: "총괄", Level: 1},
		{CategoryID: organizationID, Name: model.AuthorityBranchDirector, DisplayName: "지부장", Level: 2},
		{CategoryID: organizationID, Name: model.AuthorityRegionDirector, DisplayName: "지역장", Level: 3},
		{CategoryID: organizationID, Name: model.AuthorityTeamLeader, DisplayName: "팀장", Level: 4},
		{CategoryID: organizationID, Name: model.AuthorityLeader, DisplayName: "리더", Level: model.LevelDefault},
	}
	for i := range authorities {
		var existing model.Authority
		err := db.Where("name = ?", authorities[i].Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&authorities[i]).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	return nil
}
