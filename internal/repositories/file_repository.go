package repositories

import (
	"context"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
)

// FileFilters narrows file listings.
type FileFilters struct {
	Semester string
	FileType *models.FileType
}

// FileRepository persists metadata for teacher-uploaded files.
type FileRepository interface {
	Create(ctx context.Context, file *models.UploadedFile) error
	GetByID(ctx context.Context, id uint) (*models.UploadedFile, error)
	List(ctx context.Context, filters FileFilters) ([]*models.UploadedFile, error)
	ListByUploader(ctx context.Context, uploaderID uint) ([]*models.UploadedFile, error)
	Delete(ctx context.Context, id uint) error

	// DeleteByUploader removes all rows owned by uploaderID and returns
	// the on-disk paths of the deleted files so the caller can clean up
	// the filesystem after the transaction commits.
	DeleteByUploader(ctx context.Context, uploaderID uint) (paths []string, err error)

	Count(ctx context.Context) (int64, error)
}

// ResultRepository persists supervisor-published semester results.
type ResultRepository interface {
	Create(ctx context.Context, result *models.SemesterResult) error
	GetByID(ctx context.Context, id uint) (*models.SemesterResult, error)
	List(ctx context.Context, semester string) ([]*models.SemesterResult, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
