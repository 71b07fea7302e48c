package db

import (
	"fmt"
	"log"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Run migrations
	err = db.AutoMigrate(
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
		&model.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	// 권한 기준 데이터는 테스트에서도 전제 조건이다
	if err := SeedAuthorities(db); err != nil {
		return nil, fmt.Errorf("failed to seed authorities: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}
