package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/classmgmt/class-management-backend/internal/model"
	"github.com/classmgmt/class-management-backend/internal/repository"
)

const (
	minStudentAge = 16
	maxStudentAge = 100

	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// ValidationError reports every business-rule violation in a request,
// keyed by field name. Requests that fail validation never reach the
// repository.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// StudentService handles student business logic on top of the repository
// abstraction.
type StudentService struct {
	studentRepo repository.StudentRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo repository.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// Create validates and normalizes the request, then persists the student
// through the active backend. Propagates *ValidationError and
// *repository.DuplicateKeyError unchanged.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	fields := make(map[string]string)

	studentID := strings.TrimSpace(req.StudentID)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Binding validation enforces presence and length, but whitespace-only
	// values survive it.
	if studentID == "" {
		fields["student_id"] = "student_id is required"
	}
	if firstName == "" {
		fields["first_name"] = "first_name is required"
	}
	if lastName == "" {
		fields["last_name"] = "last_name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}

	dateOfBirth := s.validateDateOfBirth(req.DateOfBirth, fields)
	phone := s.validatePhone(req.Phone, fields)
	enrollmentDate := s.resolveEnrollmentDate(req.EnrollmentDate, fields)

	var address *string
	if req.Address != nil {
		if trimmed := strings.TrimSpace(*req.Address); trimmed != "" {
			address = &trimmed
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	student := &model.Student{
		StudentID:      studentID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		Phone:          phone,
		DateOfBirth:    dateOfBirth,
		Address:        address,
		EnrollmentDate: enrollmentDate,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetByStudentID retrieves a student by their external identifier.
func (s *StudentService) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	return s.studentRepo.GetByStudentID(ctx, strings.TrimSpace(studentID))
}

// List retrieves all students in the active backend's order.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

// validateDateOfBirth parses the optional date of birth and enforces the
// age rules: not in the future, between 16 and 100 years old.
func (s *StudentService) validateDateOfBirth(raw *string, fields map[string]string) *time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}

	dob, err := time.Parse(model.DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		fields["date_of_birth"] = "must be a valid date in YYYY-MM-DD format"
		return nil
	}

	today := time.Now().UTC()
	if dob.After(today) {
		fields["date_of_birth"] = "date of birth cannot be in the future"
		return nil
	}

	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	switch {
	case age < minStudentAge:
		fields["date_of_birth"] = fmt.Sprintf("student must be at least %d years old", minStudentAge)
		return nil
	case age > maxStudentAge:
		fields["date_of_birth"] = "invalid date of birth"
		return nil
	}

	return &dob
}

// validatePhone checks the optional phone number: digits, spaces, hyphens,
// parentheses and plus only, with 10-15 digits overall.
func (s *StudentService) validatePhone(raw *string, fields map[string]string) *string {
	if raw == nil {
		return nil
	}
	phone := strings.TrimSpace(*raw)
	if phone == "" {
		return nil
	}

	digits := 0
	for _, c := range phone {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == ' ' || c == '-' || c == '(' || c == ')' || c == '+':
		default:
			fields["phone"] = "phone number contains invalid characters"
			return nil
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		fields["phone"] = fmt.Sprintf("phone number must have between %d-%d digits", minPhoneDigits, maxPhoneDigits)
		return nil
	}

	return &phone
}

// resolveEnrollmentDate parses the optional enrollment date, defaulting to
// today when omitted.
func (s *StudentService) resolveEnrollmentDate(raw *string, fields map[string]string) time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	date, err := time.Parse(model.DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		fields["enrollment_date"] = "must be a valid date in YYYY-MM-DD format"
		return time.Time{}
	}
	return date
}
