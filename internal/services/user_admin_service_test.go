package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nilevalley-edu/fileshare-service/internal/events"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
)

func (d *testDeps) userAdminService() UserAdminService {
	return NewUserAdminService(d.repo, d.publisher, d.logger)
}

func TestUserAdminService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("student deletion releases the whitelist slot", func(t *testing.T) {
		deps := newTestDeps()
		deps.allowStudent("123456")
		authSvc := deps.authService()
		svc := deps.userAdminService()

		signup, err := authSvc.SignupStudent(ctx, studentSignup("123456"))
		if err != nil {
			t.Fatalf("seed student: %v", err)
		}
		deps.publisher.ClearEvents()

		if err := svc.DeleteUser(ctx, supervisorSession(), signup.UserID); err != nil {
			t.Fatalf("DeleteUser() error = %v", err)
		}

		if u, _ := deps.repo.User().GetByID(ctx, signup.UserID); u != nil {
			t.Error("user should be gone")
		}
		entry, _ := deps.repo.Whitelist().GetStudent(ctx, "123456")
		if entry == nil || entry.IsRegistered {
			t.Error("whitelist slot should be released, not removed")
		}

		published := deps.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventUserDeleted {
			t.Errorf("expected one %s event, got %v", events.EventUserDeleted, published)
		}
		if len(deps.repo.state.audits) == 0 {
			t.Error("expected an audit event")
		}
	})

	t.Run("teacher deletion removes owned files from db and disk", func(t *testing.T) {
		deps := newTestDeps()
		deps.allowTeacher("ahmed@nilevalley.edu.sd")
		authSvc := deps.authService()
		svc := deps.userAdminService()

		signup, err := authSvc.SignupTeacher(ctx, &TeacherSignupRequest{
			Username:        "dr_ahmed",
			Email:           "ahmed@nilevalley.edu.sd",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		})
		if err != nil {
			t.Fatalf("seed teacher: %v", err)
		}

		// A file row whose bytes exist on disk
		path := filepath.Join(t.TempDir(), "lecture1.pdf")
		if err := os.WriteFile(path, []byte("pdf"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := deps.repo.File().Create(ctx, &models.UploadedFile{
			Filename:       "lecture1.pdf",
			StoredFilename: "20250101_abc_lecture1.pdf",
			FileType:       models.FileTypeLecture,
			Semester:       models.Semesters[0],
			UploadedByID:   signup.UserID,
			FilePath:       path,
		}); err != nil {
			t.Fatal(err)
		}

		if err := svc.DeleteUser(ctx, supervisorSession(), signup.UserID); err != nil {
			t.Fatalf("DeleteUser() error = %v", err)
		}

		if n, _ := deps.repo.File().Count(ctx); n != 0 {
			t.Errorf("file rows = %d, want 0", n)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file bytes should be removed from disk")
		}
		entry, _ := deps.repo.Whitelist().GetTeacher(ctx, "ahmed@nilevalley.edu.sd")
		if entry == nil || entry.IsRegistered {
			t.Error("teacher whitelist slot should be released")
		}
	})

	t.Run("supervisors cannot be deleted", func(t *testing.T) {
		deps := newTestDeps()
		authSvc := deps.authService()
		svc := deps.userAdminService()

		if err := authSvc.EnsureDefaultSupervisor(ctx); err != nil {
			t.Fatal(err)
		}
		admin, _ := deps.repo.User().GetByUsername(ctx, "admin")

		err := svc.DeleteUser(ctx, supervisorSession(), admin.ID)
		if !errors.Is(err, ErrSupervisorImmutable) {
			t.Errorf("error = %v, want ErrSupervisorImmutable", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.userAdminService()

		if err := svc.DeleteUser(ctx, supervisorSession(), 42); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestUserAdminService_ListUsersByRole(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	deps.allowStudent("123456")
	authSvc := deps.authService()
	svc := deps.userAdminService()

	if _, err := authSvc.SignupStudent(ctx, studentSignup("123456")); err != nil {
		t.Fatal(err)
	}

	students, err := svc.ListUsersByRole(ctx, models.RoleStudent)
	if err != nil {
		t.Fatalf("ListUsersByRole() error = %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("students = %d, want 1", len(students))
	}
	if students[0].UniversityID != "123456" {
		t.Errorf("UniversityID = %q, want 123456", students[0].UniversityID)
	}

	if _, err := svc.ListUsersByRole(ctx, models.UserRole("janitor")); !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("error = %v, want ErrRoleMismatch", err)
	}
}

func TestUserAdminService_ListRecentAudit(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	deps.allowStudent("123456")
	authSvc := deps.authService()
	svc := deps.userAdminService()

	signup, err := authSvc.SignupStudent(ctx, studentSignup("123456"))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteUser(ctx, supervisorSession(), signup.UserID); err != nil {
		t.Fatal(err)
	}

	entries, err := svc.ListRecentAudit(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentAudit() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Action != models.AuditUserDeleted {
		t.Errorf("action = %q, want %q", entries[0].Action, models.AuditUserDeleted)
	}
	if entries[0].ActorID != supervisorSession().UserID {
		t.Errorf("actor = %d, want %d", entries[0].ActorID, supervisorSession().UserID)
	}

	// A non-positive limit falls back to the default page size instead of
	// returning nothing.
	entries, err = svc.ListRecentAudit(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("entries with default limit = %d, want 1", len(entries))
	}
}
