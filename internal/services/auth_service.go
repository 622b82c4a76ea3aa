package services

import (
	"context"
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

// dashboardPathFor maps a role to the landing page the client should
// redirect to after a successful login or signup.
func dashboardPathFor(role models.UserRole) string {
	switch role {
	case models.RoleStudent:
		return "/student-dashboard"
	case models.RoleTeacher:
		return "/teacher-dashboard"
	case models.RoleSupervisor:
		return "/supervisor-dashboard"
	}
	return "/"
}

type authService struct {
	repo      repositories.Repository
	sessions  auth.SessionStore
	hasher    *auth.PasswordHasher
	publisher events.EventPublisher
	cfg       *config.Config
	logger    utils.Logger
}

func NewAuthService(
	repo repositories.Repository,
	sessions auth.SessionStore,
	hasher *auth.PasswordHasher,
	publisher events.EventPublisher,
	cfg *config.Config,
	logger utils.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		sessions:  sessions,
		hasher:    hasher,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	universityID := strings.TrimSpace(req.UniversityID)

	if (username == "" && universityID == "") || req.Password == "" {
		return nil, ErrEmptyInput
	}
	if !models.ValidRole(req.Role) {
		return nil, ErrRoleMismatch
	}

	// Students identify themselves by university number, everyone else
	// by username. Username wins when both are supplied.
	var (
		user *models.User
		err  error
	)
	if username != "" {
		user, err = s.repo.User().GetByUsername(ctx, username)
	} else {
		user, err = s.repo.User().GetByUniversityID(ctx, universityID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil || !s.hasher.Verify(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	// Checked only after the password so the response does not reveal
	// which roles an account holds to someone guessing passwords.
	if user.Role != models.UserRole(req.Role) {
		return nil, ErrRoleMismatch
	}

	token, err := s.sessions.Create(ctx, auth.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)

	fullName := ""
	if user.FullName != nil {
		fullName = *user.FullName
	}

	return &LoginResponse{
		Token:      token,
		UserID:     user.ID,
		Username:   user.Username,
		FullName:   fullName,
		Role:       user.Role,
		RedirectTo: dashboardPathFor(user.Role),
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

func (s *authService) SignupStudent(ctx context.Context, req *StudentSignupRequest) (*SignupResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	universityID := strings.TrimSpace(req.UniversityID)

	if username == "" || email == "" || req.Password == "" || universityID == "" {
		return nil, ErrMissingRequiredFields
	}
	if !validator.ValidStudentNumber(universityID) {
		return nil, ErrInvalidStudentNumber
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		UniversityID: &universityID,
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = &name
	}

	// Slot consumption and account creation commit or roll back together,
	// so a failed signup never leaves a student number marked registered.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		consumed, err := tx.Whitelist().ConsumeStudentSlot(ctx, universityID)
		if err != nil {
			return fmt.Errorf("failed to claim whitelist slot: %w", err)
		}
		if !consumed {
			entry, err := tx.Whitelist().GetStudent(ctx, universityID)
			if err != nil {
				return fmt.Errorf("failed to check whitelist: %w", err)
			}
			if entry == nil {
				return ErrStudentNumberNotAllowed
			}
			return ErrStudentNumberConsumed
		}

		if taken, err := tx.User().ExistsByUsername(ctx, username); err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		} else if taken {
			return ErrUsernameTaken
		}
		if taken, err := tx.User().ExistsByEmail(ctx, email); err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		} else if taken {
			return ErrEmailTaken
		}

		if err := tx.User().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("student registered", "user_id", user.ID, "university_id", universityID)
	s.publishAsync(events.EventUserRegistered, map[string]interface{}{
		"user_id": user.ID,
		"role":    models.RoleStudent,
	})

	return &SignupResponse{
		UserID:     user.ID,
		Message:    "account created successfully",
		RedirectTo: "/login",
	}, nil
}

func (s *authService) SignupTeacher(ctx context.Context, req *TeacherSignupRequest) (*SignupResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return nil, ErrMissingRequiredFields
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleTeacher,
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = &name
	}
	if id := strings.TrimSpace(req.UniversityID); id != "" {
		user.UniversityID = &id
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		consumed, err := tx.Whitelist().ConsumeTeacherSlot(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to claim whitelist slot: %w", err)
		}
		if !consumed {
			entry, err := tx.Whitelist().GetTeacher(ctx, email)
			if err != nil {
				return fmt.Errorf("failed to check whitelist: %w", err)
			}
			if entry == nil {
				return ErrTeacherEmailNotAllowed
			}
			return ErrTeacherEmailConsumed
		}

		if taken, err := tx.User().ExistsByUsername(ctx, username); err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		} else if taken {
			return ErrUsernameTaken
		}
		if taken, err := tx.User().ExistsByEmail(ctx, email); err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		} else if taken {
			return ErrEmailTaken
		}

		if err := tx.User().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("teacher registered", "user_id", user.ID, "email", email)
	s.publishAsync(events.EventUserRegistered, map[string]interface{}{
		"user_id": user.ID,
		"role":    models.RoleTeacher,
	})

	return &SignupResponse{
		UserID:     user.ID,
		Message:    "account created successfully",
		RedirectTo: "/login",
	}, nil
}

func (s *authService) EnsureDefaultSupervisor(ctx context.Context) error {
	seed := s.cfg.DefaultSupervisor

	existing, err := s.repo.User().GetByUsername(ctx, seed.Username)
	if err != nil {
		return fmt.Errorf("failed to check for default supervisor: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := s.hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("failed to hash default supervisor password: %w", err)
	}

	fullName := seed.FullName
	user := &models.User{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: hash,
		Role:         models.RoleSupervisor,
		FullName:     &fullName,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create default supervisor: %w", err)
	}

	s.logger.Warn("default supervisor account created; change its password",
		"username", seed.Username)
	return nil
}

// publishAsync fires a domain event without letting a broker hiccup fail
// the request that triggered it.
func (s *authService) publishAsync(eventType string, data interface{}) {
	if err := s.publisher.Publish(context.Background(), eventType, data); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}
