package validator

import (
	"testing"
)

func TestValidStudentNumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"", false},
		{" 123456", false},
		{"١٢٣٤٥٦", false}, // arabic-indic digits are not accepted
	}
	for _, tt := range tests {
		if got := ValidStudentNumber(tt.input); got != tt.want {
			t.Errorf("ValidStudentNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidator_LoginRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{"username login", LoginRequest{Username: "admin", Password: "x", Role: "supervisor"}, false},
		{"student number login", LoginRequest{UniversityID: "123456", Password: "x", Role: "student"}, false},
		{"missing password", LoginRequest{Username: "admin", Role: "supervisor"}, true},
		{"bad role", LoginRequest{Username: "admin", Password: "x", Role: "janitor"}, true},
		{"bad student number", LoginRequest{UniversityID: "12", Password: "x", Role: "student"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(&tt.req)
			if errs.HasErrors() != tt.wantErr {
				t.Errorf("Validate() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidator_StudentSignupRequest(t *testing.T) {
	v := New()

	valid := StudentSignupRequest{
		Username:        "student1",
		Email:           "s1@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		UniversityID:    "123456",
	}

	if errs := v.Validate(&valid); errs.HasErrors() {
		t.Errorf("valid request should pass, got %v", errs)
	}

	mismatch := valid
	mismatch.ConfirmPassword = "different"
	errs := v.Validate(&mismatch)
	if !errs.HasErrors() {
		t.Fatal("password mismatch should fail")
	}
	if errs[0].Rule != "eqfield" {
		t.Errorf("rule = %q, want eqfield", errs[0].Rule)
	}

	short := valid
	short.Password = "abc"
	short.ConfirmPassword = "abc"
	if errs := v.Validate(&short); !errs.HasErrors() {
		t.Error("short password should fail")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if errs := v.Validate(&badEmail); !errs.HasErrors() {
		t.Error("malformed email should fail")
	}
}

func TestValidator_FileUploadMeta(t *testing.T) {
	v := New()

	valid := FileUploadMeta{Description: "lecture", Semester: "الفصل الأول", FileType: "lecture"}
	if errs := v.Validate(&valid); errs.HasErrors() {
		t.Errorf("valid meta should pass, got %v", errs)
	}

	badType := valid
	badType.FileType = "exam"
	if errs := v.Validate(&badType); !errs.HasErrors() {
		t.Error("unknown file type should fail")
	}
}
