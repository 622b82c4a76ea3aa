package services

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
	"github.com/nilevalley-edu/fileshare-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Request shapes live with the validator so the tags stay in one place.
type LoginRequest = validator.LoginRequest
type StudentSignupRequest = validator.StudentSignupRequest
type TeacherSignupRequest = validator.TeacherSignupRequest

// ===== RESPONSE DTOs =====

type LoginResponse struct {
	Token      string          `json:"token"`
	UserID     uint            `json:"user_id"`
	Username   string          `json:"username"`
	FullName   string          `json:"full_name"`
	Role       models.UserRole `json:"role"`
	RedirectTo string          `json:"redirect_to"`
}

type SignupResponse struct {
	UserID     uint   `json:"user_id"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to"`
}

// WhitelistBatchResult reports a batch insert: how many entries were
// stored and one warning per skipped entry.
type WhitelistBatchResult struct {
	Added    int      `json:"added"`
	Warnings []string `json:"warnings"`
}

type FileInfo struct {
	ID          uint            `json:"id"`
	Filename    string          `json:"filename"`
	Description string          `json:"description"`
	Semester    string          `json:"semester"`
	FileType    models.FileType `json:"file_type"`
	UploadDate  time.Time       `json:"upload_date"`
	UploadedBy  string          `json:"uploaded_by"`
	FileSize    string          `json:"file_size"`
}

type ResultInfo struct {
	ID          uint      `json:"id"`
	Filename    string    `json:"filename"`
	Description string    `json:"description"`
	Semester    string    `json:"semester"`
	UploadDate  time.Time `json:"upload_date"`
	UploadedBy  string    `json:"uploaded_by"`
	FileSize    string    `json:"file_size"`
}

// Download points the handler at the bytes to serve and the name the
// browser should save them as.
type Download struct {
	Path     string
	Filename string
}

type UserInfo struct {
	ID           uint            `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
	FullName     string          `json:"full_name"`
	UniversityID string          `json:"university_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AuditEntry is a recorded administrative action, details included verbatim.
type AuditEntry struct {
	ID        uint               `json:"id"`
	Action    models.AuditAction `json:"action"`
	ActorID   uint               `json:"actor_id"`
	Details   json.RawMessage    `json:"details,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type UploadFileInput struct {
	Filename    string
	Content     io.Reader
	Size        int64
	Description string
	Semester    string
	FileType    string
}

type UploadResultInput struct {
	Filename    string
	Content     io.Reader
	Size        int64
	Description string
	Semester    string
}

// ===== SERVICE INTERFACES =====

// AuthService covers login, signup and the bootstrap supervisor.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	SignupStudent(ctx context.Context, req *StudentSignupRequest) (*SignupResponse, error)
	SignupTeacher(ctx context.Context, req *TeacherSignupRequest) (*SignupResponse, error)

	// EnsureDefaultSupervisor creates the seed supervisor account when
	// no account with the reserved username exists yet.
	EnsureDefaultSupervisor(ctx context.Context) error
}

// WhitelistService manages the registration allow-lists.
type WhitelistService interface {
	AddStudentNumbers(ctx context.Context, caller auth.Session, raw string) (*WhitelistBatchResult, error)
	AddTeacherEmails(ctx context.Context, caller auth.Session, raw string) (*WhitelistBatchResult, error)
	ListAllowedStudents(ctx context.Context) ([]*models.AllowedStudent, error)
	ListAllowedTeachers(ctx context.Context) ([]*models.AllowedTeacher, error)
}

// UserAdminService covers supervisor user management.
type UserAdminService interface {
	ListUsersByRole(ctx context.Context, role models.UserRole) ([]UserInfo, error)

	// DeleteUser removes a user and cascades: owned file rows are
	// deleted (disk cleanup is best-effort), the matching whitelist
	// slot is released. Supervisors cannot be deleted.
	DeleteUser(ctx context.Context, caller auth.Session, userID uint) error

	// ListRecentAudit returns the newest audit events, capped at limit.
	ListRecentAudit(ctx context.Context, limit int) ([]AuditEntry, error)
}

// FileService covers teacher uploads and downloads.
type FileService interface {
	Upload(ctx context.Context, caller auth.Session, input *UploadFileInput) (*FileInfo, error)
	List(ctx context.Context, semester string, fileType string) ([]FileInfo, error)
	ResolveDownload(ctx context.Context, fileID uint) (*Download, error)
	Delete(ctx context.Context, caller auth.Session, fileID uint) error

	UploadResult(ctx context.Context, caller auth.Session, input *UploadResultInput) (*ResultInfo, error)
	ListResults(ctx context.Context, semester string) ([]ResultInfo, error)
	ResolveResultDownload(ctx context.Context, resultID uint) (*Download, error)
	DeleteResult(ctx context.Context, caller auth.Session, resultID uint) error
}

// DashboardService answers the aggregate queries behind dashboards.
type DashboardService interface {
	GetCounts(ctx context.Context) (*repositories.DashboardCounts, error)
}

// ExportService renders supervisor exports as xlsx workbooks.
type ExportService interface {
	ExportUsers(ctx context.Context, caller auth.Session) ([]byte, error)
	ExportWhitelist(ctx context.Context, caller auth.Session) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Whitelist() WhitelistService
	UserAdmin() UserAdminService
	File() FileService
	Dashboard() DashboardService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
