package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
)

type filePostgreSQL struct {
	db *gorm.DB
}

func NewFilePostgreSQL(db *gorm.DB) repositories.FileRepository {
	return &filePostgreSQL{db: db}
}

func (r *filePostgreSQL) Create(ctx context.Context, file *models.UploadedFile) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("failed to create uploaded file: %w", err)
	}
	return nil
}

func (r *filePostgreSQL) GetByID(ctx context.Context, id uint) (*models.UploadedFile, error) {
	var file models.UploadedFile
	err := r.db.WithContext(ctx).Preload("UploadedBy").First(&file, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get uploaded file: %w", err)
	}
	return &file, nil
}

func (r *filePostgreSQL) List(ctx context.Context, filters repositories.FileFilters) ([]*models.UploadedFile, error) {
	query := r.db.WithContext(ctx).Model(&models.UploadedFile{}).Preload("UploadedBy")

	if filters.Semester != "" {
		query = query.Where("semester = ?", filters.Semester)
	}
	if filters.FileType != nil {
		query = query.Where("file_type = ?", *filters.FileType)
	}

	var files []*models.UploadedFile
	if err := query.Order("upload_date DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list uploaded files: %w", err)
	}
	return files, nil
}

func (r *filePostgreSQL) ListByUploader(ctx context.Context, uploaderID uint) ([]*models.UploadedFile, error) {
	var files []*models.UploadedFile
	err := r.db.WithContext(ctx).
		Where("uploaded_by_id = ?", uploaderID).
		Order("upload_date DESC").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list files by uploader: %w", err)
	}
	return files, nil
}

func (r *filePostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.UploadedFile{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete uploaded file: %w", err)
	}
	return nil
}

func (r *filePostgreSQL) DeleteByUploader(ctx context.Context, uploaderID uint) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&models.UploadedFile{}).
		Where("uploaded_by_id = ?", uploaderID).
		Pluck("file_path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("failed to collect file paths: %w", err)
	}

	err = r.db.WithContext(ctx).
		Where("uploaded_by_id = ?", uploaderID).
		Delete(&models.UploadedFile{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to delete files by uploader: %w", err)
	}

	return paths, nil
}

func (r *filePostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UploadedFile{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count uploaded files: %w", err)
	}
	return count, nil
}

// ===== SEMESTER RESULTS =====

type resultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &resultPostgreSQL{db: db}
}

func (r *resultPostgreSQL) Create(ctx context.Context, result *models.SemesterResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create semester result: %w", err)
	}
	return nil
}

func (r *resultPostgreSQL) GetByID(ctx context.Context, id uint) (*models.SemesterResult, error) {
	var result models.SemesterResult
	err := r.db.WithContext(ctx).Preload("UploadedBy").First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get semester result: %w", err)
	}
	return &result, nil
}

func (r *resultPostgreSQL) List(ctx context.Context, semester string) ([]*models.SemesterResult, error) {
	query := r.db.WithContext(ctx).Model(&models.SemesterResult{}).Preload("UploadedBy")
	if semester != "" {
		query = query.Where("semester = ?", semester)
	}

	var results []*models.SemesterResult
	if err := query.Order("upload_date DESC").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list semester results: %w", err)
	}
	return results, nil
}

func (r *resultPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.SemesterResult{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete semester result: %w", err)
	}
	return nil
}

func (r *resultPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SemesterResult{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count semester results: %w", err)
	}
	return count, nil
}
