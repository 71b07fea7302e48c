package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sehyunahn/seum-backend/config"
	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/sehyunahn/seum-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// 시드 계정의 초기 비밀번호. 첫 로그인 후 변경을 안내한다.
const defaultSeedPassword = "seum1234!"

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Repository 생성
	userRepo := repository.NewUserRepository(db.GetDB())

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	users, err := readMembersFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total members to import: %d\n", len(users))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 배치로 저장
	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := userRepo.BulkCreate(users, batchSize); err != nil {
		log.Fatal("Failed to bulk create members:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total members imported: %d\n", len(users))
}

// readMembersFromXLSX 명단 파일에서 사용자 목록을 읽는다.
// 컬럼: 이름 | 전화번호 | 이메일 | 학교 | 학년 (명단 내보내기 양식과 동일한 순서)
func readMembersFromXLSX(filePath string) ([]model.User, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	passwordHash, err := util.HashPassword(defaultSeedPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}

	var users []model.User
	seenPhones := make(map[string]bool) // 중복 제거용
	skippedCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		phone := util.NormalizePhone(strings.TrimSpace(row[1]))

		// 이름과 전화번호는 필수
		if name == "" || phone == "" {
			skippedCount++
			continue
		}

		// 전화번호 중복 제거 (먼저 나온 행 우선)
		if seenPhones[phone] {
			skippedCount++
			continue
		}
		seenPhones[phone] = true

		user := model.User{
			Name:         name,
			Phone:        phone,
			PasswordHash: passwordHash,
			Authority:    model.DefaultAuthorityDisplayName,
		}

		if len(row) > 2 {
			user.Email = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			user.School = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			if year, err := strconv.Atoi(strings.TrimSpace(row[4])); err == nil {
				user.AcademicYear = year
			}
		}

		users = append(users, user)
	}

	fmt.Printf("Skipped rows: %d\n", skippedCount)
	return users, nil
}
