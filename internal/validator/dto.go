package validator

// LoginRequest carries login credentials. Exactly one of Username or
// UniversityID identifies the account: students log in with their
// 6-digit university number, teachers and supervisors with a username.
type LoginRequest struct {
	Username     string `json:"username" validate:"omitempty,max=100"`
	UniversityID string `json:"university_id" validate:"omitempty,student_number"`
	Password     string `json:"password" validate:"required"`
	Role         string `json:"role" validate:"required,user_role"`
}

// StudentSignupRequest carries a student self-registration.
type StudentSignupRequest struct {
	Username        string `json:"username" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"omitempty,max=100"`
	UniversityID    string `json:"university_id" validate:"required,student_number"`
}

// TeacherSignupRequest carries a teacher self-registration. The email
// must be a whitelisted institutional address.
type TeacherSignupRequest struct {
	Username        string `json:"username" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"omitempty,max=100"`
	UniversityID    string `json:"university_id" validate:"required,max=20"`
}

// WhitelistAddRequest carries a comma-separated batch of identifiers
// (student numbers or teacher emails, depending on the endpoint).
type WhitelistAddRequest struct {
	Entries string `json:"entries" validate:"required"`
}

// FileUploadMeta carries the form fields accompanying a multipart file
// upload.
type FileUploadMeta struct {
	Description string `form:"description" validate:"required,max=500"`
	Semester    string `form:"semester" validate:"required,max=50"`
	FileType    string `form:"file_type" validate:"required,oneof=lecture homework result"`
}

// ResultUploadMeta carries the form fields for a semester result upload.
type ResultUploadMeta struct {
	Description string `form:"description" validate:"required,max=500"`
	Semester    string `form:"semester" validate:"required,max=50"`
}
