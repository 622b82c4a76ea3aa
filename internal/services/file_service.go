package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/config"
	"github.com/nilevalley-edu/fileshare-service/internal/events"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
)

type fileService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	cfg       *config.Config
	logger    utils.Logger
}

func NewFileService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	cfg *config.Config,
	logger utils.Logger,
) FileService {
	return &fileService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// storedName builds the unique on-disk filename. The timestamp keeps
// directory listings roughly chronological; the random fragment prevents
// collisions when the same file is uploaded twice in one second.
func storedName(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	return fmt.Sprintf("%s_%s_%s",
		time.Now().UTC().Format("20060102150405"),
		uuid.NewString()[:8],
		base,
	)
}

// humanizeSize renders a byte count the way the dashboards display it.
func humanizeSize(size int64) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// saveToDisk streams the upload into dir under name, refusing to write
// more than limit bytes. Returns the full path and the byte count.
func saveToDisk(dir, name string, content io.Reader, limit int64) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	// One extra byte so we can tell "exactly limit" from "over limit".
	written, err := io.Copy(out, io.LimitReader(content, limit+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}
	if written > limit {
		_ = os.Remove(path)
		return "", 0, ErrFileTooLarge
	}

	return path, written, nil
}

func (s *fileService) Upload(ctx context.Context, caller auth.Session, input *UploadFileInput) (*FileInfo, error) {
	if caller.UserID == 0 {
		return nil, ErrMissingIdentity
	}
	if input == nil || strings.TrimSpace(input.Filename) == "" {
		return nil, ErrNoFileProvided
	}
	if !models.ValidFileType(input.FileType) {
		return nil, ErrInvalidFileType
	}
	if !models.ValidSemester(input.Semester) {
		return nil, ErrInvalidSemester
	}
	if input.Size > s.cfg.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	stored := storedName(input.Filename)
	path, written, err := saveToDisk(s.cfg.UploadDir, stored, input.Content, s.cfg.MaxUploadSize)
	if err != nil {
		return nil, err
	}

	file := &models.UploadedFile{
		Filename:       filepath.Base(input.Filename),
		StoredFilename: stored,
		FileType:       models.FileType(input.FileType),
		Description:    strings.TrimSpace(input.Description),
		Semester:       input.Semester,
		UploadedByID:   caller.UserID,
		FileSize:       written,
		FilePath:       path,
	}
	if err := s.repo.File().Create(ctx, file); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to store file metadata: %w", err)
	}

	s.logger.Info("file uploaded",
		"file_id", file.ID, "file_type", file.FileType, "semester", file.Semester,
		"size", written, "uploader_id", caller.UserID)
	s.publish(events.EventFileUploaded, map[string]interface{}{
		"file_id":   file.ID,
		"file_type": file.FileType,
		"semester":  file.Semester,
	})

	info := toFileInfo(file)
	info.UploadedBy = caller.Username
	return &info, nil
}

func (s *fileService) List(ctx context.Context, semester string, fileType string) ([]FileInfo, error) {
	filters := repositories.FileFilters{Semester: semester}
	if fileType != "" {
		if !models.ValidFileType(fileType) {
			return nil, ErrInvalidFileType
		}
		ft := models.FileType(fileType)
		filters.FileType = &ft
	}
	if semester != "" && !models.ValidSemester(semester) {
		return nil, ErrInvalidSemester
	}

	files, err := s.repo.File().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	infos := make([]FileInfo, 0, len(files))
	for _, f := range files {
		infos = append(infos, toFileInfo(f))
	}
	return infos, nil
}

func (s *fileService) ResolveDownload(ctx context.Context, fileID uint) (*Download, error) {
	file, err := s.repo.File().GetByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up file: %w", err)
	}
	if file == nil {
		return nil, ErrFileNotFound
	}
	if _, err := os.Stat(file.FilePath); err != nil {
		return nil, ErrFileNotFound
	}

	return &Download{Path: file.FilePath, Filename: file.Filename}, nil
}

// Delete removes a file row and its bytes. Teachers may delete only
// their own uploads; supervisors may delete any.
func (s *fileService) Delete(ctx context.Context, caller auth.Session, fileID uint) error {
	if caller.UserID == 0 {
		return ErrMissingIdentity
	}

	file, err := s.repo.File().GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to look up file: %w", err)
	}
	if file == nil {
		return ErrFileNotFound
	}
	if caller.Role != models.RoleSupervisor && file.UploadedByID != caller.UserID {
		return ErrFileAccessDenied
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.File().Delete(ctx, file.ID); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		details, err := json.Marshal(map[string]interface{}{
			"file_id":  file.ID,
			"filename": file.Filename,
			"kind":     "file",
		})
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
		audit := &models.AuditEvent{
			Action:  models.AuditFileDeleted,
			ActorID: caller.UserID,
			Details: details,
		}
		if err := tx.Audit().Record(ctx, audit); err != nil {
			return fmt.Errorf("failed to record audit event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove file from disk", "path", file.FilePath, "error", err)
	}

	s.logger.Info("file deleted", "file_id", file.ID, "actor_id", caller.UserID)
	return nil
}

func (s *fileService) UploadResult(ctx context.Context, caller auth.Session, input *UploadResultInput) (*ResultInfo, error) {
	if caller.UserID == 0 {
		return nil, ErrMissingIdentity
	}
	if input == nil || strings.TrimSpace(input.Filename) == "" {
		return nil, ErrNoFileProvided
	}
	if !models.ValidSemester(input.Semester) {
		return nil, ErrInvalidSemester
	}
	if input.Size > s.cfg.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	stored := storedName(input.Filename)
	path, written, err := saveToDisk(s.cfg.ResultsDir, stored, input.Content, s.cfg.MaxUploadSize)
	if err != nil {
		return nil, err
	}

	result := &models.SemesterResult{
		Filename:       filepath.Base(input.Filename),
		StoredFilename: stored,
		Description:    strings.TrimSpace(input.Description),
		Semester:       input.Semester,
		UploadedByID:   caller.UserID,
		FileSize:       written,
		FilePath:       path,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Result().Create(ctx, result); err != nil {
			return fmt.Errorf("failed to store result metadata: %w", err)
		}
		details, err := json.Marshal(map[string]interface{}{
			"result_id": result.ID,
			"semester":  result.Semester,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
		audit := &models.AuditEvent{
			Action:  models.AuditResultPublished,
			ActorID: caller.UserID,
			Details: details,
		}
		if err := tx.Audit().Record(ctx, audit); err != nil {
			return fmt.Errorf("failed to record audit event: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	s.logger.Info("result published",
		"result_id", result.ID, "semester", result.Semester, "actor_id", caller.UserID)
	s.publish(events.EventResultPublished, map[string]interface{}{
		"result_id": result.ID,
		"semester":  result.Semester,
	})

	info := toResultInfo(result)
	info.UploadedBy = caller.Username
	return &info, nil
}

func (s *fileService) ListResults(ctx context.Context, semester string) ([]ResultInfo, error) {
	if semester != "" && !models.ValidSemester(semester) {
		return nil, ErrInvalidSemester
	}

	results, err := s.repo.Result().List(ctx, semester)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	infos := make([]ResultInfo, 0, len(results))
	for _, r := range results {
		infos = append(infos, toResultInfo(r))
	}
	return infos, nil
}

func (s *fileService) ResolveResultDownload(ctx context.Context, resultID uint) (*Download, error) {
	result, err := s.repo.Result().GetByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up result: %w", err)
	}
	if result == nil {
		return nil, ErrResultNotFound
	}
	if _, err := os.Stat(result.FilePath); err != nil {
		return nil, ErrResultNotFound
	}

	return &Download{Path: result.FilePath, Filename: result.Filename}, nil
}

func (s *fileService) DeleteResult(ctx context.Context, caller auth.Session, resultID uint) error {
	if caller.UserID == 0 {
		return ErrMissingIdentity
	}

	result, err := s.repo.Result().GetByID(ctx, resultID)
	if err != nil {
		return fmt.Errorf("failed to look up result: %w", err)
	}
	if result == nil {
		return ErrResultNotFound
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Result().Delete(ctx, result.ID); err != nil {
			return fmt.Errorf("failed to delete result: %w", err)
		}
		details, err := json.Marshal(map[string]interface{}{
			"result_id": result.ID,
			"filename":  result.Filename,
			"kind":      "result",
		})
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
		audit := &models.AuditEvent{
			Action:  models.AuditFileDeleted,
			ActorID: caller.UserID,
			Details: details,
		}
		if err := tx.Audit().Record(ctx, audit); err != nil {
			return fmt.Errorf("failed to record audit event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.Remove(result.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove result from disk", "path", result.FilePath, "error", err)
	}

	s.logger.Info("result deleted", "result_id", result.ID, "actor_id", caller.UserID)
	return nil
}

func (s *fileService) publish(eventType string, data interface{}) {
	if err := s.publisher.Publish(context.Background(), eventType, data); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}

func toFileInfo(f *models.UploadedFile) FileInfo {
	info := FileInfo{
		ID:          f.ID,
		Filename:    f.Filename,
		Description: f.Description,
		Semester:    f.Semester,
		FileType:    f.FileType,
		UploadDate:  f.UploadDate,
		FileSize:    humanizeSize(f.FileSize),
	}
	if f.UploadedBy != nil {
		info.UploadedBy = f.UploadedBy.Username
	}
	return info
}

func toResultInfo(r *models.SemesterResult) ResultInfo {
	info := ResultInfo{
		ID:          r.ID,
		Filename:    r.Filename,
		Description: r.Description,
		Semester:    r.Semester,
		UploadDate:  r.UploadDate,
		FileSize:    humanizeSize(r.FileSize),
	}
	if r.UploadedBy != nil {
		info.UploadedBy = r.UploadedBy.Username
	}
	return info
}
