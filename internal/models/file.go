package models

import (
	"time"
)

type FileType string

const (
	FileTypeLecture  FileType = "lecture"
	FileTypeHomework FileType = "homework"
	FileTypeResult   FileType = "result"
)

// ValidFileType reports whether s is a known upload category.
func ValidFileType(s string) bool {
	switch FileType(s) {
	case FileTypeLecture, FileTypeHomework, FileTypeResult:
		return true
	}
	return false
}

// UploadedFile is the metadata row for a file a teacher uploaded.
// The bytes themselves live on disk at FilePath; StoredFilename is the
// unique on-disk name, Filename the original one shown to users.
type UploadedFile struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Filename       string    `json:"filename" gorm:"not null;size:255"`
	StoredFilename string    `json:"stored_filename" gorm:"uniqueIndex;not null;size:255"`
	FileType       FileType  `json:"file_type" gorm:"not null;size:20;index"`
	Description    string    `json:"description" gorm:"size:500"`
	Semester       string    `json:"semester" gorm:"not null;size:50;index"`
	UploadedByID   uint      `json:"uploaded_by_id" gorm:"not null;index"`
	UploadDate     time.Time `json:"upload_date" gorm:"autoCreateTime"`
	FileSize       int64     `json:"file_size"`
	FilePath       string    `json:"file_path" gorm:"not null;size:500"`

	UploadedBy *User `json:"uploaded_by,omitempty" gorm:"foreignKey:UploadedByID"`
}

func (UploadedFile) TableName() string {
	return "uploaded_files"
}

// SemesterResult is a supervisor-published results sheet. Same metadata
// shape as UploadedFile but a separate table so that results can be
// listed and retained independently of teacher uploads.
type SemesterResult struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Filename       string    `json:"filename" gorm:"not null;size:255"`
	StoredFilename string    `json:"stored_filename" gorm:"uniqueIndex;not null;size:255"`
	Description    string    `json:"description" gorm:"not null;size:500"`
	Semester       string    `json:"semester" gorm:"not null;size:50;index"`
	UploadedByID   uint      `json:"uploaded_by_id" gorm:"not null;index"`
	UploadDate     time.Time `json:"upload_date" gorm:"autoCreateTime"`
	FileSize       int64     `json:"file_size"`
	FilePath       string    `json:"file_path" gorm:"not null;size:500"`

	UploadedBy *User `json:"uploaded_by,omitempty" gorm:"foreignKey:UploadedByID"`
}

func (SemesterResult) TableName() string {
	return "semester_results"
}

// Semesters is the fixed list of academic semesters files and results
// can be filed under.
var Semesters = []string{
	"الفصل الأول", "الفصل الثاني", "الفصل الثالث", "الفصل الرابع",
	"الفصل الخامس", "الفصل السادس", "الفصل السابع", "الفصل الثامن",
	"الفصل التاسع", "الفصل العاشر",
}

// ValidSemester reports whether s is one of the known semesters.
func ValidSemester(s string) bool {
	for _, sem := range Semesters {
		if sem == s {
			return true
		}
	}
	return false
}
