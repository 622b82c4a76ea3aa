package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
)

type whitelistPostgreSQL struct {
	db *gorm.DB
}

func NewWhitelistPostgreSQL(db *gorm.DB) repositories.WhitelistRepository {
	return &whitelistPostgreSQL{db: db}
}

// ===== STUDENTS =====

func (r *whitelistPostgreSQL) CreateStudent(ctx context.Context, entry *models.AllowedStudent) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create allowed student: %w", err)
	}
	return nil
}

func (r *whitelistPostgreSQL) StudentExists(ctx context.Context, studentNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AllowedStudent{}).
		Where("student_number = ?", studentNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check allowed student existence: %w", err)
	}
	return count > 0, nil
}

func (r *whitelistPostgreSQL) ListStudents(ctx context.Context) ([]*models.AllowedStudent, error) {
	var entries []*models.AllowedStudent
	err := r.db.WithContext(ctx).
		Order("added_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed students: %w", err)
	}
	return entries, nil
}

// ConsumeStudentSlot claims the slot with one conditional update. Two
// signups racing on the same number cannot both see RowsAffected == 1.
func (r *whitelistPostgreSQL) ConsumeStudentSlot(ctx context.Context, studentNumber string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AllowedStudent{}).
		Where("student_number = ? AND is_registered = ?", studentNumber, false).
		Update("is_registered", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume student slot: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *whitelistPostgreSQL) ReleaseStudentSlot(ctx context.Context, studentNumber string) error {
	err := r.db.WithContext(ctx).
		Model(&models.AllowedStudent{}).
		Where("student_number = ?", studentNumber).
		Update("is_registered", false).Error
	if err != nil {
		return fmt.Errorf("failed to release student slot: %w", err)
	}
	return nil
}

func (r *whitelistPostgreSQL) GetStudent(ctx context.Context, studentNumber string) (*models.AllowedStudent, error) {
	var entry models.AllowedStudent
	err := r.db.WithContext(ctx).
		Where("student_number = ?", studentNumber).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allowed student: %w", err)
	}
	return &entry, nil
}

// ===== TEACHERS =====

func (r *whitelistPostgreSQL) CreateTeacher(ctx context.Context, entry *models.AllowedTeacher) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create allowed teacher: %w", err)
	}
	return nil
}

func (r *whitelistPostgreSQL) TeacherExists(ctx context.Context, universityEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AllowedTeacher{}).
		Where("university_email = ?", universityEmail).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check allowed teacher existence: %w", err)
	}
	return count > 0, nil
}

func (r *whitelistPostgreSQL) ListTeachers(ctx context.Context) ([]*models.AllowedTeacher, error) {
	var entries []*models.AllowedTeacher
	err := r.db.WithContext(ctx).
		Order("added_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed teachers: %w", err)
	}
	return entries, nil
}

func (r *whitelistPostgreSQL) ConsumeTeacherSlot(ctx context.Context, universityEmail string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AllowedTeacher{}).
		Where("university_email = ? AND is_registered = ?", universityEmail, false).
		Update("is_registered", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume teacher slot: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *whitelistPostgreSQL) ReleaseTeacherSlot(ctx context.Context, universityEmail string) error {
	err := r.db.WithContext(ctx).
		Model(&models.AllowedTeacher{}).
		Where("university_email = ?", universityEmail).
		Update("is_registered", false).Error
	if err != nil {
		return fmt.Errorf("failed to release teacher slot: %w", err)
	}
	return nil
}

func (r *whitelistPostgreSQL) GetTeacher(ctx context.Context, universityEmail string) (*models.AllowedTeacher, error) {
	var entry models.AllowedTeacher
	err := r.db.WithContext(ctx).
		Where("university_email = ?", universityEmail).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allowed teacher: %w", err)
	}
	return &entry, nil
}
