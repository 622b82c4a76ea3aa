package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
)

// fakeState is the in-memory backing store shared by the fake
// sub-repositories.
type fakeState struct {
	mu sync.Mutex

	users      map[uint]*models.User
	nextUserID uint

	allowedStudents map[string]*models.AllowedStudent
	allowedTeachers map[string]*models.AllowedTeacher
	nextEntryID     uint

	files      map[uint]*models.UploadedFile
	nextFileID uint

	results      map[uint]*models.SemesterResult
	nextResultID uint

	audits []*models.AuditEvent
}

type fakeRepo struct {
	state *fakeState
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{state: &fakeState{
		users:           make(map[uint]*models.User),
		allowedStudents: make(map[string]*models.AllowedStudent),
		allowedTeachers: make(map[string]*models.AllowedTeacher),
		files:           make(map[uint]*models.UploadedFile),
		results:         make(map[uint]*models.SemesterResult),
	}}
}

func (f *fakeRepo) User() repositories.UserRepository           { return &fakeUserRepo{f.state} }
func (f *fakeRepo) Whitelist() repositories.WhitelistRepository { return &fakeWhitelistRepo{f.state} }
func (f *fakeRepo) File() repositories.FileRepository           { return &fakeFileRepo{f.state} }
func (f *fakeRepo) Result() repositories.ResultRepository       { return &fakeResultRepo{f.state} }
func (f *fakeRepo) Audit() repositories.AuditRepository         { return &fakeAuditRepo{f.state} }
func (f *fakeRepo) Dashboard() repositories.DashboardRepository { return &fakeDashboardRepo{f.state} }

func (f *fakeRepo) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) Ping(_ context.Context) error { return nil }
func (f *fakeRepo) Close() error                 { return nil }

// ===== USERS =====

type fakeUserRepo struct{ s *fakeState }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.CreatedAt = time.Now()
	copied := *user
	r.s.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUniversityID(_ context.Context, universityID string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.UniversityID != nil && *u.UniversityID == universityID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, _ := r.GetByUsername(ctx, username)
	return u != nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role models.UserRole) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*models.User
	for _, u := range r.s.users {
		if u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.users, id)
	return nil
}

// ===== WHITELIST =====

type fakeWhitelistRepo struct{ s *fakeState }

func (r *fakeWhitelistRepo) CreateStudent(_ context.Context, entry *models.AllowedStudent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextEntryID++
	entry.ID = r.s.nextEntryID
	entry.AddedDate = time.Now()
	copied := *entry
	r.s.allowedStudents[entry.StudentNumber] = &copied
	return nil
}

func (r *fakeWhitelistRepo) StudentExists(_ context.Context, studentNumber string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.allowedStudents[studentNumber]
	return ok, nil
}

func (r *fakeWhitelistRepo) ListStudents(_ context.Context) ([]*models.AllowedStudent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*models.AllowedStudent
	for _, e := range r.s.allowedStudents {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWhitelistRepo) ConsumeStudentSlot(_ context.Context, studentNumber string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry, ok := r.s.allowedStudents[studentNumber]
	if !ok || entry.IsRegistered {
		return false, nil
	}
	entry.IsRegistered = true
	return true, nil
}

func (r *fakeWhitelistRepo) ReleaseStudentSlot(_ context.Context, studentNumber string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if entry, ok := r.s.allowedStudents[studentNumber]; ok {
		entry.IsRegistered = false
	}
	return nil
}

func (r *fakeWhitelistRepo) GetStudent(_ context.Context, studentNumber string) (*models.AllowedStudent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if e, ok := r.s.allowedStudents[studentNumber]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeWhitelistRepo) CreateTeacher(_ context.Context, entry *models.AllowedTeacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextEntryID++
	entry.ID = r.s.nextEntryID
	entry.AddedDate = time.Now()
	copied := *entry
	r.s.allowedTeachers[entry.UniversityEmail] = &copied
	return nil
}

func (r *fakeWhitelistRepo) TeacherExists(_ context.Context, universityEmail string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.allowedTeachers[universityEmail]
	return ok, nil
}

func (r *fakeWhitelistRepo) ListTeachers(_ context.Context) ([]*models.AllowedTeacher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*models.AllowedTeacher
	for _, e := range r.s.allowedTeachers {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWhitelistRepo) ConsumeTeacherSlot(_ context.Context, universityEmail string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry, ok := r.s.allowedTeachers[universityEmail]
	if !ok || entry.IsRegistered {
		return false, nil
	}
	entry.IsRegistered = true
	return true, nil
}

func (r *fakeWhitelistRepo) ReleaseTeacherSlot(_ context.Context, universityEmail string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if entry, ok := r.s.allowedTeachers[universityEmail]; ok {
		entry.IsRegistered = false
	}
	return nil
}

func (r *fakeWhitelistRepo) GetTeacher(_ context.Context, universityEmail string) (*models.AllowedTeacher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if e, ok := r.s.allowedTeachers[universityEmail]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

// ===== FILES =====

type fakeFileRepo struct{ s *fakeState }

func (r *fakeFileRepo) Create(_ context.Context, file *models.UploadedFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextFileID++
	file.ID = r.s.nextFileID
	file.UploadDate = time.Now()
	copied := *file
	r.s.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id uint) (*models.UploadedFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if f, ok := r.s.files[id]; ok {
		copied := *f
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeFileRepo) List(_ context.Context, filters repositories.FileFilters) ([]*models.UploadedFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*models.UploadedFile
	for _, f := range r.s.files {
		if filters.Semester != "" && f.Semester != filters.Semester {
			continue
		}
		if filters.FileType != nil && f.FileType != *filters.FileType {
			continue
		}
		copied := *f
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFileRepo) ListByUploader(_ context.Context, uploaderID uint) ([]*models.UploadedFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*models.UploadedFile
	for _, f := range r.s.files {
		if f.UploadedByID == uploaderID {
			copied := *f
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.files, id)
	return nil
}

func (r *fakeFileRepo) DeleteByUploader(_ context.Context, uploaderID uint) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var paths []string
	for id, f := range r.s.files {
		if f.UploadedByID == uploaderID {
			paths = append(paths, f.FilePath)
			delete(r.s.files, id)
		}
	}
	return paths, nil
}

func (r *fakeFileRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.s.files)), nil
}

// ===== RESULTS =====

type fakeResultRepo struct{ s *fakeState }

func (r *fakeResultRepo) Create(_ context.Context, result *models.SemesterResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextResultID++
	result.ID = r.s.nextResultID
	result.UploadDate = time.Now()
	copied := *result
	r.s.results[result.ID] = &copied
	return nil
}

func (r *fakeResultRepo) GetByID(_ context.Context, id uint) (*models.SemesterResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if res, ok := r.s.results[id]; ok {
		copied := *res
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeResultRepo) List(_ context.Context, semester string) ([]*models.SemesterResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*models.SemesterResult
	for _, res := range r.s.results {
		if semester != "" && res.Semester != semester {
			continue
		}
		copied := *res
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeResultRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.results, id)
	return nil
}

func (r *fakeResultRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.s.results)), nil
}

// ===== AUDIT =====

type fakeAuditRepo struct{ s *fakeState }

func (r *fakeAuditRepo) Record(_ context.Context, event *models.AuditEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event.ID = uint(len(r.s.audits) + 1)
	event.CreatedAt = time.Now()
	copied := *event
	r.s.audits = append(r.s.audits, &copied)
	return nil
}

func (r *fakeAuditRepo) ListRecent(_ context.Context, limit int) ([]*models.AuditEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*models.AuditEvent, 0, len(r.s.audits))
	for i := len(r.s.audits) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *r.s.audits[i]
		out = append(out, &copied)
	}
	return out, nil
}

// ===== DASHBOARD =====

type fakeDashboardRepo struct{ s *fakeState }

func (r *fakeDashboardRepo) GetCounts(_ context.Context) (*repositories.DashboardCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := &repositories.DashboardCounts{
		TotalAllowedStudents: int64(len(r.s.allowedStudents)),
		TotalAllowedTeachers: int64(len(r.s.allowedTeachers)),
		TotalFiles:           int64(len(r.s.files)),
		TotalResults:         int64(len(r.s.results)),
	}
	for _, u := range r.s.users {
		switch u.Role {
		case models.RoleStudent:
			counts.TotalStudents++
		case models.RoleTeacher:
			counts.TotalTeachers++
		}
	}
	return counts, nil
}
