package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sehyunahn/seum-backend/internal/app/model"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// UserService 구성원 조회/내보내기 서비스
type UserService interface {
	GetUsers(search string, page, limit int) ([]model.User, int64, error)
	GetUser(id uint) (*model.User, error)
	ExportRoster() ([]byte, string, error)
}

type userService struct {
	userRepo      repository.UserRepository
	authorityRepo repository.AuthorityRepository
}

func NewUserService(userRepo repository.UserRepository, authorityRepo repository.AuthorityRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		authorityRepo: authorityRepo,
	}
}

func (s *userService) GetUsers(search string, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	return s.userRepo.FindAll(search, limit, offset)
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ExportRoster 전체 구성원 명단을 엑셀 파일로 생성한다.
// 권한 열에는 활성 권한 표시명을 쉼표로 이어 적고, 없으면 기본 권한을 적는다.
func (s *userService) ExportRoster() ([]byte, string, error) {
	users, _, err := s.userRepo.FindAll("", -1, 0)
	if err != nil {
		logger.Error("Failed to load users for roster export", err, nil)
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "명단"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "이름", "전화번호", "이메일", "학교", "학년", "권한", "지역", "그룹", "가입일"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", endCell, headerStyle)
	}

	for i, user := range users {
		row := i + 2
		regionName := ""
		if user.Region != nil {
			regionName = user.Region.Name
		}
		groupName := ""
		if user.Group != nil {
			groupName = user.Group.Name
		}

		values := []interface{}{
			user.ID,
			user.Name,
			user.Phone,
			user.Email,
			user.School,
			user.AcademicYear,
			s.authorityLabel(user.ID),
			regionName,
			groupName,
			user.CreatedAt.Format("2006-01-02"),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("roster_%s.xlsx", time.Now().Format("20060102"))

	logger.Info("Roster exported", map[string]interface{}{
		"users":    len(users),
		"filename": filename,
	})
	return buf.Bytes(), filename, nil
}

// authorityLabel 활성 권한 표시명 목록. 실패하거나 비어 있으면 기본 권한.
func (s *userService) authorityLabel(userID uint) string {
	assignments, err := s.authorityRepo.FindActiveByUserID(userID)
	if err != nil || len(assignments) == 0 {
		return model.DefaultAuthorityDisplayName
	}
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.Authority != nil {
			names = append(names, a.Authority.DisplayName)
		}
	}
	if len(names) == 0 {
		return model.DefaultAuthorityDisplayName
	}
	return strings.Join(names, ", ")
}
