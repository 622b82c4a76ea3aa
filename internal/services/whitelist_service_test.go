package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/events"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
)

func supervisorSession() auth.Session {
	return auth.Session{UserID: 1, Username: "admin", Role: models.RoleSupervisor}
}

func (d *testDeps) whitelistService() WhitelistService {
	return NewWhitelistService(d.repo, d.publisher, d.cfg, d.logger)
}

func TestWhitelistService_AddStudentNumbers(t *testing.T) {
	ctx := context.Background()

	t.Run("mixed batch adds valid entries and warns on the rest", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.whitelistService()

		result, err := svc.AddStudentNumbers(ctx, supervisorSession(), "123456, 12345, 123456, 654321")
		if err != nil {
			t.Fatalf("AddStudentNumbers() error = %v", err)
		}
		if result.Added != 2 {
			t.Errorf("Added = %d, want 2", result.Added)
		}
		if len(result.Warnings) != 2 {
			t.Errorf("Warnings = %v, want 2 entries", result.Warnings)
		}

		entries, _ := svc.ListAllowedStudents(ctx)
		if len(entries) != 2 {
			t.Fatalf("stored entries = %d, want 2", len(entries))
		}
		for _, e := range entries {
			if e.IsRegistered {
				t.Errorf("entry %s should start unregistered", e.StudentNumber)
			}
			if e.AddedByID != 1 {
				t.Errorf("entry %s AddedByID = %d, want 1", e.StudentNumber, e.AddedByID)
			}
		}

		if len(deps.repo.state.audits) != 1 {
			t.Errorf("audit events = %d, want 1", len(deps.repo.state.audits))
		}
		published := deps.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventWhitelistUpdated {
			t.Errorf("expected one %s event, got %v", events.EventWhitelistUpdated, published)
		}
	})

	t.Run("re-adding an existing number only warns", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.whitelistService()

		if _, err := svc.AddStudentNumbers(ctx, supervisorSession(), "123456"); err != nil {
			t.Fatalf("seed: %v", err)
		}
		deps.publisher.ClearEvents()

		result, err := svc.AddStudentNumbers(ctx, supervisorSession(), "123456")
		if err != nil {
			t.Fatalf("AddStudentNumbers() error = %v", err)
		}
		if result.Added != 0 || len(result.Warnings) != 1 {
			t.Errorf("result = %+v, want 0 added 1 warning", result)
		}
		if len(deps.publisher.GetPublishedEvents()) != 0 {
			t.Error("no event should be published when nothing was added")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.whitelistService()

		if _, err := svc.AddStudentNumbers(ctx, supervisorSession(), " , , "); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("error = %v, want ErrEmptyInput", err)
		}
	})

	t.Run("anonymous caller", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.whitelistService()

		if _, err := svc.AddStudentNumbers(ctx, auth.Session{}, "123456"); !errors.Is(err, ErrMissingIdentity) {
			t.Errorf("error = %v, want ErrMissingIdentity", err)
		}
	})
}

func TestWhitelistService_AddTeacherEmails(t *testing.T) {
	ctx := context.Background()

	t.Run("domain is enforced per entry", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.whitelistService()

		result, err := svc.AddTeacherEmails(ctx, supervisorSession(),
			"ahmed@nilevalley.edu.sd, sara@gmail.com, FATIMA@nilevalley.edu.sd")
		if err != nil {
			t.Fatalf("AddTeacherEmails() error = %v", err)
		}
		if result.Added != 2 {
			t.Errorf("Added = %d, want 2", result.Added)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("Warnings = %v, want 1 entry", result.Warnings)
		}

		// Emails are stored lowercased
		entry, _ := deps.repo.Whitelist().GetTeacher(ctx, "fatima@nilevalley.edu.sd")
		if entry == nil {
			t.Error("expected lowercased entry for FATIMA@nilevalley.edu.sd")
		}
	})

	t.Run("domain match is case-sensitive", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.whitelistService()

		result, err := svc.AddTeacherEmails(ctx, supervisorSession(),
			"AHMED@NILEVALLEY.EDU.SD, ahmed@Nilevalley.edu.sd")
		if err != nil {
			t.Fatalf("AddTeacherEmails() error = %v", err)
		}
		if result.Added != 0 {
			t.Errorf("Added = %d, want 0", result.Added)
		}
		if len(result.Warnings) != 2 {
			t.Errorf("Warnings = %v, want 2 entries", result.Warnings)
		}
		for _, w := range result.Warnings {
			if !strings.Contains(w, "must end with") {
				t.Errorf("warning %q should name the required domain", w)
			}
		}
	})

	t.Run("duplicate within batch", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.whitelistService()

		result, err := svc.AddTeacherEmails(ctx, supervisorSession(),
			"ahmed@nilevalley.edu.sd, ahmed@nilevalley.edu.sd")
		if err != nil {
			t.Fatalf("AddTeacherEmails() error = %v", err)
		}
		if result.Added != 1 || len(result.Warnings) != 1 {
			t.Errorf("result = %+v, want 1 added 1 warning", result)
		}
	})
}
