package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/config"
	"github.com/nilevalley-edu/fileshare-service/internal/events"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
	"github.com/nilevalley-edu/fileshare-service/internal/validator"
)

type whitelistService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	cfg       *config.Config
	logger    utils.Logger
}

func NewWhitelistService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	cfg *config.Config,
	logger utils.Logger,
) WhitelistService {
	return &whitelistService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// splitEntries parses a comma-separated batch, dropping empty fragments.
func splitEntries(raw string) []string {
	var entries []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// AddStudentNumbers adds a comma-separated batch of 6-digit student
// numbers. Invalid and duplicate entries are skipped with a warning each;
// the rest are stored. The whole batch commits atomically.
func (s *whitelistService) AddStudentNumbers(ctx context.Context, caller auth.Session, raw string) (*WhitelistBatchResult, error) {
	if caller.UserID == 0 {
		return nil, ErrMissingIdentity
	}

	entries := splitEntries(raw)
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}

	result := &WhitelistBatchResult{}
	seen := make(map[string]bool)

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for _, number := range entries {
			if !validator.ValidStudentNumber(number) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: must be exactly 6 digits", number))
				continue
			}
			if seen[number] {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: duplicated in this batch", number))
				continue
			}
			seen[number] = true

			exists, err := tx.Whitelist().StudentExists(ctx, number)
			if err != nil {
				return fmt.Errorf("failed to check whitelist: %w", err)
			}
			if exists {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: already in whitelist", number))
				continue
			}

			entry := &models.AllowedStudent{
				StudentNumber: number,
				AddedByID:     caller.UserID,
			}
			if err := tx.Whitelist().CreateStudent(ctx, entry); err != nil {
				return fmt.Errorf("failed to add %s to whitelist: %w", number, err)
			}
			result.Added++
		}

		if result.Added > 0 {
			return s.recordWhitelistAudit(ctx, tx, caller, "students", result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Added > 0 {
		s.publishUpdate("students", result.Added)
	}
	s.logger.Info("student whitelist batch processed",
		"added", result.Added, "skipped", len(result.Warnings), "actor_id", caller.UserID)

	return result, nil
}

// AddTeacherEmails adds a comma-separated batch of institutional email
// addresses. Every address must carry the configured university domain.
func (s *whitelistService) AddTeacherEmails(ctx context.Context, caller auth.Session, raw string) (*WhitelistBatchResult, error) {
	if caller.UserID == 0 {
		return nil, ErrMissingIdentity
	}

	entries := splitEntries(raw)
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}

	result := &WhitelistBatchResult{}
	seen := make(map[string]bool)

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for _, entry := range entries {
			// The domain suffix must match exactly, case included;
			// "@NILEVALLEY.EDU.SD" is rejected, not normalized.
			if !strings.HasSuffix(entry, s.cfg.TeacherEmailDomain) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: must end with %s", entry, s.cfg.TeacherEmailDomain))
				continue
			}
			email := strings.ToLower(entry)
			if local := strings.TrimSuffix(email, s.cfg.TeacherEmailDomain); local == "" || strings.Contains(local, "@") {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: not a valid email address", entry))
				continue
			}
			if seen[email] {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: duplicated in this batch", entry))
				continue
			}
			seen[email] = true

			exists, err := tx.Whitelist().TeacherExists(ctx, email)
			if err != nil {
				return fmt.Errorf("failed to check whitelist: %w", err)
			}
			if exists {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: already in whitelist", entry))
				continue
			}

			row := &models.AllowedTeacher{
				UniversityEmail: email,
				AddedByID:       caller.UserID,
			}
			if err := tx.Whitelist().CreateTeacher(ctx, row); err != nil {
				return fmt.Errorf("failed to add %s to whitelist: %w", entry, err)
			}
			result.Added++
		}

		if result.Added > 0 {
			return s.recordWhitelistAudit(ctx, tx, caller, "teachers", result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Added > 0 {
		s.publishUpdate("teachers", result.Added)
	}
	s.logger.Info("teacher whitelist batch processed",
		"added", result.Added, "skipped", len(result.Warnings), "actor_id", caller.UserID)

	return result, nil
}

func (s *whitelistService) ListAllowedStudents(ctx context.Context) ([]*models.AllowedStudent, error) {
	entries, err := s.repo.Whitelist().ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed students: %w", err)
	}
	return entries, nil
}

func (s *whitelistService) ListAllowedTeachers(ctx context.Context) ([]*models.AllowedTeacher, error) {
	entries, err := s.repo.Whitelist().ListTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed teachers: %w", err)
	}
	return entries, nil
}

func (s *whitelistService) recordWhitelistAudit(ctx context.Context, tx repositories.Repository, caller auth.Session, list string, result *WhitelistBatchResult) error {
	details, err := json.Marshal(map[string]interface{}{
		"list":    list,
		"added":   result.Added,
		"skipped": len(result.Warnings),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	event := &models.AuditEvent{
		Action:  models.AuditWhitelistAdded,
		ActorID: caller.UserID,
		Details: details,
	}
	if err := tx.Audit().Record(ctx, event); err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

func (s *whitelistService) publishUpdate(list string, added int) {
	err := s.publisher.Publish(context.Background(), events.EventWhitelistUpdated, map[string]interface{}{
		"list":  list,
		"added": added,
	})
	if err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventWhitelistUpdated, "error", err)
	}
}
