package services

import "errors"

// Validation errors (malformed input)
var (
	ErrEmptyInput            = errors.New("please enter values")
	ErrInvalidStudentNumber  = errors.New("student number must be exactly 6 digits")
	ErrPasswordTooShort      = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrMissingRequiredFields = errors.New("please fill in all required fields")
	ErrInvalidFileType       = errors.New("unknown file type")
	ErrInvalidSemester       = errors.New("unknown semester")
	ErrNoFileProvided        = errors.New("please choose a file")
	ErrFileTooLarge          = errors.New("file exceeds the maximum allowed size")
)

// Conflict errors (duplicates)
var (
	ErrUsernameTaken         = errors.New("username already exists")
	ErrEmailTaken            = errors.New("email already exists")
	ErrStudentNumberConsumed = errors.New("this student number is already registered")
	ErrTeacherEmailConsumed  = errors.New("this email is already registered")
)

// Authorization errors
var (
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrRoleMismatch            = errors.New("this account does not have the selected role")
	ErrStudentNumberNotAllowed = errors.New("student number is not in the whitelist; contact the supervisor")
	ErrTeacherEmailNotAllowed  = errors.New("email is not in the teacher whitelist; contact the supervisor")
	ErrMissingIdentity         = errors.New("caller identity is required")
	ErrSupervisorImmutable     = errors.New("supervisor accounts cannot be deleted")
	ErrFileAccessDenied        = errors.New("you can only manage your own uploads")
)

// Not-found errors
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrFileNotFound   = errors.New("file not found")
	ErrResultNotFound = errors.New("result not found")
)
