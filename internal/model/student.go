package model

import "time"

// DateLayout is the wire format for calendar dates (date of birth,
// enrollment date). Timestamps use RFC 3339.
const DateLayout = "2006-01-02"

// Student represents a student record, independent of the storage backend.
//
// ID is the surrogate key assigned by the active backend: the bigserial
// primary key rendered as a string on PostgreSQL, the ObjectID hex on
// MongoDB. StudentID is the externally assigned identifier callers use.
type Student struct {
	ID             string
	StudentID      string
	FirstName      string
	LastName       string
	Email          string
	Phone          *string
	DateOfBirth    *time.Time
	Address        *string
	EnrollmentDate time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName returns the student's derived display name. It is computed,
// never stored.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// CreateStudentRequest is the payload for registering a new student.
// Dates are YYYY-MM-DD strings; enrollment_date defaults to today when
// omitted.
type CreateStudentRequest struct {
	StudentID      string  `json:"student_id" binding:"required,min=3,max=20"`
	FirstName      string  `json:"first_name" binding:"required,min=1,max=50"`
	LastName       string  `json:"last_name" binding:"required,min=1,max=50"`
	Email          string  `json:"email" binding:"required,email,max=100"`
	Phone          *string `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth    *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address        *string `json:"address" binding:"omitempty,max=200"`
	EnrollmentDate *string `json:"enrollment_date" binding:"omitempty,datetime=2006-01-02"`
}

// StudentResponse is the JSON shape of a student in API responses.
type StudentResponse struct {
	ID             string  `json:"id"`
	StudentID      string  `json:"student_id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"date_of_birth"`
	Address        *string `json:"address"`
	EnrollmentDate string  `json:"enrollment_date"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// NewStudentResponse converts a Student entity into its response shape,
// formatting dates and computing the full name.
func NewStudentResponse(s *Student) StudentResponse {
	resp := StudentResponse{
		ID:             s.ID,
		StudentID:      s.StudentID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		FullName:       s.FullName(),
		Email:          s.Email,
		Phone:          s.Phone,
		Address:        s.Address,
		EnrollmentDate: s.EnrollmentDate.Format(DateLayout),
		CreatedAt:      s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      s.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if s.DateOfBirth != nil {
		dob := s.DateOfBirth.Format(DateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

// NewStudentListResponse converts a slice of students, preserving the
// backend's ordering.
func NewStudentListResponse(students []Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, NewStudentResponse(&students[i]))
	}
	return out
}
