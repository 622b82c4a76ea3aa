package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var studentNumberPattern = regexp.MustCompile(`^[0-9]{6}$`)

// Validator wraps go-playground/validator with the service's custom
// rules registered.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// student_number: exactly 6 ASCII digits
	_ = validate.RegisterValidation("student_number", func(fl validator.FieldLevel) bool {
		return studentNumberPattern.MatchString(fl.Field().String())
	})

	// user_role: one of the three known roles
	_ = validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "student", "teacher", "supervisor":
			return true
		}
		return false
	})

	return &Validator{validate: validate}
}

// ValidStudentNumber reports whether s is exactly 6 ASCII digits.
// Exposed for the whitelist batch parser, which validates entries
// one by one rather than through struct tags.
func ValidStudentNumber(s string) bool {
	return studentNumberPattern.MatchString(s)
}

// Validate validates a struct against its tags and returns the
// accumulated field errors.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidationError describes one failed field rule.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ToValidationErrors converts validator library errors to the service's
// error type with human-readable messages.
func ToValidationErrors(err error) ValidationErrors {
	var result ValidationErrors

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "", Message: err.Error(), Rule: "unknown"}}
	}

	for _, fe := range fieldErrors {
		result = append(result, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageForTag(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}

	return result
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "student_number":
		return "must be exactly 6 digits"
	case "user_role":
		return "must be one of: student, teacher, supervisor"
	case "eqfield":
		return fmt.Sprintf("must match %s", strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
