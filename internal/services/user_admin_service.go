package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/events"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
)

// maxAuditPageSize caps how many audit events a single listing returns.
const maxAuditPageSize = 100

type userAdminService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewUserAdminService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger utils.Logger,
) UserAdminService {
	return &userAdminService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *userAdminService) ListUsersByRole(ctx context.Context, role models.UserRole) ([]UserInfo, error) {
	if !models.ValidRole(string(role)) {
		return nil, ErrRoleMismatch
	}

	users, err := s.repo.User().ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, toUserInfo(u))
	}
	return infos, nil
}

// DeleteUser removes an account and everything hanging off it: file rows
// owned by the user are deleted in the same transaction and the matching
// whitelist slot is released so the identifier can register again. The
// on-disk files are removed after commit, best-effort.
func (s *userAdminService) DeleteUser(ctx context.Context, caller auth.Session, userID uint) error {
	if caller.UserID == 0 {
		return ErrMissingIdentity
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Role == models.RoleSupervisor {
		return ErrSupervisorImmutable
	}

	var orphanedPaths []string

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		paths, err := tx.File().DeleteByUploader(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to delete user files: %w", err)
		}
		orphanedPaths = paths

		switch user.Role {
		case models.RoleStudent:
			if user.UniversityID != nil {
				if err := tx.Whitelist().ReleaseStudentSlot(ctx, *user.UniversityID); err != nil {
					return fmt.Errorf("failed to release whitelist slot: %w", err)
				}
			}
		case models.RoleTeacher:
			if err := tx.Whitelist().ReleaseTeacherSlot(ctx, user.Email); err != nil {
				return fmt.Errorf("failed to release whitelist slot: %w", err)
			}
		}

		if err := tx.User().Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		details, err := json.Marshal(map[string]interface{}{
			"deleted_user_id": user.ID,
			"username":        user.Username,
			"role":            user.Role,
			"files_removed":   len(orphanedPaths),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
		audit := &models.AuditEvent{
			Action:  models.AuditUserDeleted,
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

	// Disk cleanup happens outside the transaction; a leftover file is
	// harmless, a dangling DB row is not.
	for _, path := range orphanedPaths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove orphaned file", "path", path, "error", err)
		}
	}

	s.logger.Info("user deleted",
		"user_id", user.ID, "role", user.Role, "actor_id", caller.UserID)

	if err := s.publisher.Publish(context.Background(), events.EventUserDeleted, map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	}); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventUserDeleted, "error", err)
	}

	return nil
}

// ListRecentAudit returns the newest audit events. The limit is clamped
// so a careless query parameter cannot drag the whole table back.
func (s *userAdminService) ListRecentAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	events, err := s.repo.Audit().ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}

	entries := make([]AuditEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, AuditEntry{
			ID:        e.ID,
			Action:    e.Action,
			ActorID:   e.ActorID,
			Details:   json.RawMessage(e.Details),
			CreatedAt: e.CreatedAt,
		})
	}
	return entries, nil
}

func toUserInfo(u *models.User) UserInfo {
	info := UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	if u.FullName != nil {
		info.FullName = *u.FullName
	}
	if u.UniversityID != nil {
		info.UniversityID = *u.UniversityID
	}
	return info
}
