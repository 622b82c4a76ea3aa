package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleTeacher    UserRole = "teacher"
	RoleSupervisor UserRole = "supervisor"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleStudent, RoleTeacher, RoleSupervisor:
		return true
	}
	return false
}

// User is a local account. Role is fixed at creation; there is no
// role-change flow anywhere in the service.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:100"`
	Role         UserRole `json:"role" gorm:"not null;size:20"`

	// Profile info
	FullName     *string `json:"full_name" gorm:"size:100"`
	UniversityID *string `json:"university_id" gorm:"index;size:20"`
	Semester     *string `json:"semester" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
