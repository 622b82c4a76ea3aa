package models

import (
	"time"
)

// AllowedStudent is a pre-approved student number. IsRegistered flips to
// true exactly once, when a student signup consumes the slot, and flips
// back to false if the resulting account is deleted.
type AllowedStudent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	StudentNumber string    `json:"student_number" gorm:"uniqueIndex;not null;size:6"`
	IsRegistered  bool      `json:"is_registered" gorm:"not null;default:false"`
	AddedByID     uint      `json:"added_by_id" gorm:"not null;index"`
	AddedDate     time.Time `json:"added_date" gorm:"autoCreateTime"`
}

func (AllowedStudent) TableName() string {
	return "allowed_students"
}

// AllowedTeacher is a pre-approved institutional email address with the
// same registration-flag lifecycle as AllowedStudent.
type AllowedTeacher struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UniversityEmail string    `json:"university_email" gorm:"uniqueIndex;not null;size:255"`
	IsRegistered    bool      `json:"is_registered" gorm:"not null;default:false"`
	AddedByID       uint      `json:"added_by_id" gorm:"not null;index"`
	AddedDate       time.Time `json:"added_date" gorm:"autoCreateTime"`
}

func (AllowedTeacher) TableName() string {
	return "allowed_teachers"
}
