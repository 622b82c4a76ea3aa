package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
)

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

const dateFormat = "2006-01-02 15:04"

// ExportUsers renders all student and teacher accounts as an xlsx
// workbook with one sheet per role.
func (s *exportService) ExportUsers(ctx context.Context, caller auth.Session) ([]byte, error) {
	if caller.UserID == 0 {
		return nil, ErrMissingIdentity
	}

	students, err := s.repo.User().ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	teachers, err := s.repo.User().ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	if err := writeUserSheet(wb, "Students", students, true); err != nil {
		return nil, err
	}
	if err := writeUserSheet(wb, "Teachers", teachers, false); err != nil {
		return nil, err
	}
	// The default sheet is replaced by the two role sheets.
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to finalize workbook: %w", err)
	}

	if err := s.recordExport(ctx, caller, "users"); err != nil {
		return nil, err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("users exported",
		"students", len(students), "teachers", len(teachers), "actor_id", caller.UserID)
	return buf.Bytes(), nil
}

// ExportWhitelist renders both allow-lists as an xlsx workbook.
func (s *exportService) ExportWhitelist(ctx context.Context, caller auth.Session) ([]byte, error) {
	if caller.UserID == 0 {
		return nil, ErrMissingIdentity
	}

	students, err := s.repo.Whitelist().ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed students: %w", err)
	}
	teachers, err := s.repo.Whitelist().ListTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed teachers: %w", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	sheet := "Allowed Students"
	if _, err := wb.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	headers := []string{"Student Number", "Registered", "Added"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write sheet header: %w", err)
		}
	}
	for row, entry := range students {
		values := []interface{}{
			entry.StudentNumber,
			entry.IsRegistered,
			entry.AddedDate.Format(dateFormat),
		}
		if err := writeRow(wb, sheet, row+2, values); err != nil {
			return nil, err
		}
	}

	sheet = "Allowed Teachers"
	if _, err := wb.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	headers = []string{"University Email", "Registered", "Added"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write sheet header: %w", err)
		}
	}
	for row, entry := range teachers {
		values := []interface{}{
			entry.UniversityEmail,
			entry.IsRegistered,
			entry.AddedDate.Format(dateFormat),
		}
		if err := writeRow(wb, sheet, row+2, values); err != nil {
			return nil, err
		}
	}

	if err := wb.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to finalize workbook: %w", err)
	}

	if err := s.recordExport(ctx, caller, "whitelist"); err != nil {
		return nil, err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("whitelist exported",
		"students", len(students), "teachers", len(teachers), "actor_id", caller.UserID)
	return buf.Bytes(), nil
}

func writeUserSheet(wb *excelize.File, sheet string, users []*models.User, withUniversityID bool) error {
	if _, err := wb.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"ID", "Username", "Email", "Full Name", "Created"}
	if withUniversityID {
		headers = []string{"ID", "Username", "Email", "Full Name", "University ID", "Created"}
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write sheet header: %w", err)
		}
	}

	for row, u := range users {
		fullName := ""
		if u.FullName != nil {
			fullName = *u.FullName
		}
		values := []interface{}{u.ID, u.Username, u.Email, fullName}
		if withUniversityID {
			universityID := ""
			if u.UniversityID != nil {
				universityID = *u.UniversityID
			}
			values = append(values, universityID)
		}
		values = append(values, u.CreatedAt.Format(dateFormat))

		if err := writeRow(wb, sheet, row+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(wb *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := wb.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

func (s *exportService) recordExport(ctx context.Context, caller auth.Session, kind string) error {
	details, err := json.Marshal(map[string]interface{}{"export": kind})
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}
	event := &models.AuditEvent{
		Action:  models.AuditSupervisorExport,
		ActorID: caller.UserID,
		Details: details,
	}
	if err := s.repo.Audit().Record(ctx, event); err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}
