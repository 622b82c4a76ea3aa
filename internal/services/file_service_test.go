package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
)

func (d *testDeps) fileService(t *testing.T) FileService {
	t.Helper()
	dir := t.TempDir()
	d.cfg.UploadDir = dir
	d.cfg.ResultsDir = dir + "/results"
	return NewFileService(d.repo, d.publisher, d.cfg, d.logger)
}

func teacherSession() auth.Session {
	return auth.Session{UserID: 7, Username: "dr_ahmed", Role: models.RoleTeacher}
}

func uploadInput(content string) *UploadFileInput {
	return &UploadFileInput{
		Filename:    "lecture1.pdf",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Description: "intro lecture",
		Semester:    models.Semesters[0],
		FileType:    "lecture",
	}
}

func TestHumanizeSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
		{int64(1.5 * (1 << 30)), "1.5 GB"},
	}
	for _, tt := range tests {
		if got := humanizeSize(tt.size); got != tt.want {
			t.Errorf("humanizeSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestStoredName(t *testing.T) {
	a := storedName("lecture1.pdf")
	b := storedName("lecture1.pdf")
	if a == b {
		t.Error("two uploads of the same file must get distinct stored names")
	}
	if !strings.HasSuffix(a, "_lecture1.pdf") {
		t.Errorf("stored name %q should keep the original filename", a)
	}
	// Path components in the client filename must not escape the upload dir
	if got := storedName("../../etc/passwd"); strings.Contains(got, "..") {
		t.Errorf("stored name %q should strip path components", got)
	}
}

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("writes bytes and metadata", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.fileService(t)

		info, err := svc.Upload(ctx, teacherSession(), uploadInput("hello"))
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		if info.Filename != "lecture1.pdf" {
			t.Errorf("Filename = %q, want lecture1.pdf", info.Filename)
		}
		if info.FileSize != "5 B" {
			t.Errorf("FileSize = %q, want 5 B", info.FileSize)
		}
		if info.UploadedBy != "dr_ahmed" {
			t.Errorf("UploadedBy = %q, want dr_ahmed", info.UploadedBy)
		}

		stored, _ := deps.repo.File().GetByID(ctx, info.ID)
		if stored == nil {
			t.Fatal("expected a metadata row")
		}
		data, err := os.ReadFile(stored.FilePath)
		if err != nil || !bytes.Equal(data, []byte("hello")) {
			t.Errorf("on-disk content = %q, %v", data, err)
		}
	})

	t.Run("rejects unknown file type and semester", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.fileService(t)

		in := uploadInput("x")
		in.FileType = "exam"
		if _, err := svc.Upload(ctx, teacherSession(), in); !errors.Is(err, ErrInvalidFileType) {
			t.Errorf("error = %v, want ErrInvalidFileType", err)
		}

		in = uploadInput("x")
		in.Semester = "summer"
		if _, err := svc.Upload(ctx, teacherSession(), in); !errors.Is(err, ErrInvalidSemester) {
			t.Errorf("error = %v, want ErrInvalidSemester", err)
		}
	})

	t.Run("enforces the size limit even when the declared size lies", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.fileService(t)
		deps.cfg.MaxUploadSize = 4

		in := uploadInput("this is longer than four bytes")
		in.Size = 1 // declared size under the limit, stream is not
		if _, err := svc.Upload(ctx, teacherSession(), in); !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("error = %v, want ErrFileTooLarge", err)
		}
		if n, _ := deps.repo.File().Count(ctx); n != 0 {
			t.Errorf("file rows = %d, want 0 after rejected upload", n)
		}
	})
}

func TestFileService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can delete, bytes go with the row", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.fileService(t)

		info, err := svc.Upload(ctx, teacherSession(), uploadInput("hello"))
		if err != nil {
			t.Fatal(err)
		}
		stored, _ := deps.repo.File().GetByID(ctx, info.ID)

		if err := svc.Delete(ctx, teacherSession(), info.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if f, _ := deps.repo.File().GetByID(ctx, info.ID); f != nil {
			t.Error("row should be gone")
		}
		if _, err := os.Stat(stored.FilePath); !os.IsNotExist(err) {
			t.Error("bytes should be gone")
		}
	})

	t.Run("another teacher cannot delete", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.fileService(t)

		info, err := svc.Upload(ctx, teacherSession(), uploadInput("hello"))
		if err != nil {
			t.Fatal(err)
		}

		other := auth.Session{UserID: 8, Username: "dr_sara", Role: models.RoleTeacher}
		if err := svc.Delete(ctx, other, info.ID); !errors.Is(err, ErrFileAccessDenied) {
			t.Errorf("error = %v, want ErrFileAccessDenied", err)
		}
	})

	t.Run("supervisor can delete any upload", func(t *testing.T) {
		deps := newTestDeps()
		svc := deps.fileService(t)

		info, err := svc.Upload(ctx, teacherSession(), uploadInput("hello"))
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.Delete(ctx, supervisorSession(), info.ID); err != nil {
			t.Errorf("Delete() error = %v", err)
		}
	})
}

func TestFileService_ListAndDownload(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	svc := deps.fileService(t)

	lecture := uploadInput("aaa")
	homework := uploadInput("bbbb")
	homework.Filename = "hw1.docx"
	homework.FileType = "homework"
	homework.Semester = models.Semesters[1]

	if _, err := svc.Upload(ctx, teacherSession(), lecture); err != nil {
		t.Fatal(err)
	}
	info, err := svc.Upload(ctx, teacherSession(), homework)
	if err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, "", "")
	if err != nil || len(all) != 2 {
		t.Fatalf("List all = %d files, err %v; want 2", len(all), err)
	}

	onlyHomework, err := svc.List(ctx, models.Semesters[1], "homework")
	if err != nil || len(onlyHomework) != 1 {
		t.Fatalf("filtered list = %d files, err %v; want 1", len(onlyHomework), err)
	}
	if onlyHomework[0].Filename != "hw1.docx" {
		t.Errorf("Filename = %q, want hw1.docx", onlyHomework[0].Filename)
	}

	if _, err := svc.List(ctx, "", "exam"); !errors.Is(err, ErrInvalidFileType) {
		t.Errorf("error = %v, want ErrInvalidFileType", err)
	}

	download, err := svc.ResolveDownload(ctx, info.ID)
	if err != nil {
		t.Fatalf("ResolveDownload() error = %v", err)
	}
	if download.Filename != "hw1.docx" {
		t.Errorf("download name = %q, want original filename", download.Filename)
	}

	if _, err := svc.ResolveDownload(ctx, 999); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestFileService_Results(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps()
	svc := deps.fileService(t)

	in := &UploadResultInput{
		Filename:    "results.xlsx",
		Content:     strings.NewReader("grades"),
		Size:        6,
		Description: "first semester results",
		Semester:    models.Semesters[0],
	}

	info, err := svc.UploadResult(ctx, supervisorSession(), in)
	if err != nil {
		t.Fatalf("UploadResult() error = %v", err)
	}
	if len(deps.repo.state.audits) == 0 {
		t.Error("publishing a result should be audited")
	}

	listed, err := svc.ListResults(ctx, models.Semesters[0])
	if err != nil || len(listed) != 1 {
		t.Fatalf("ListResults = %d, err %v; want 1", len(listed), err)
	}

	download, err := svc.ResolveResultDownload(ctx, info.ID)
	if err != nil {
		t.Fatalf("ResolveResultDownload() error = %v", err)
	}
	if download.Filename != "results.xlsx" {
		t.Errorf("download name = %q, want results.xlsx", download.Filename)
	}

	if err := svc.DeleteResult(ctx, supervisorSession(), info.ID); err != nil {
		t.Fatalf("DeleteResult() error = %v", err)
	}
	if _, err := svc.ResolveResultDownload(ctx, info.ID); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("error = %v, want ErrResultNotFound", err)
	}
}
