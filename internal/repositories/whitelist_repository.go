package repositories

import (
	"context"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
)

// WhitelistRepository persists the two registration allow-lists.
//
// Slot consumption and release are single conditional updates, not
// read-then-write, so two signups racing on the same identifier cannot
// both claim the slot.
type WhitelistRepository interface {
	// Students
	CreateStudent(ctx context.Context, entry *models.AllowedStudent) error
	StudentExists(ctx context.Context, studentNumber string) (bool, error)
	ListStudents(ctx context.Context) ([]*models.AllowedStudent, error)

	// ConsumeStudentSlot atomically flips is_registered false→true.
	// Returns false when no unconsumed entry matches.
	ConsumeStudentSlot(ctx context.Context, studentNumber string) (bool, error)
	// ReleaseStudentSlot flips is_registered back to false; no-op when
	// no matching entry exists.
	ReleaseStudentSlot(ctx context.Context, studentNumber string) error

	// GetStudent returns the entry or nil when absent.
	GetStudent(ctx context.Context, studentNumber string) (*models.AllowedStudent, error)

	// Teachers (same lifecycle, keyed by institutional email)
	CreateTeacher(ctx context.Context, entry *models.AllowedTeacher) error
	TeacherExists(ctx context.Context, universityEmail string) (bool, error)
	ListTeachers(ctx context.Context) ([]*models.AllowedTeacher, error)
	ConsumeTeacherSlot(ctx context.Context, universityEmail string) (bool, error)
	ReleaseTeacherSlot(ctx context.Context, universityEmail string) error
	GetTeacher(ctx context.Context, universityEmail string) (*models.AllowedTeacher, error)
}
