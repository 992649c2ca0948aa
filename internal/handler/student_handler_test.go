package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classmgmt/class-management-backend/internal/model"
	"github.com/classmgmt/class-management-backend/internal/repository"
	"github.com/classmgmt/class-management-backend/internal/service"
	"github.com/classmgmt/class-management-backend/internal/validator"
)

// memoryStudentRepository backs the handler tests without a live database.
type memoryStudentRepository struct {
	students []model.Student
}

func (r *memoryStudentRepository) Create(_ context.Context, s *model.Student) error {
	for _, existing := range r.students {
		if existing.StudentID == s.StudentID {
			return &repository.DuplicateKeyError{Field: "student_id"}
		}
		if existing.Email == s.Email {
			return &repository.DuplicateKeyError{Field: "email"}
		}
	}
	now := time.Now().UTC()
	s.ID = fmt.Sprintf("%d", len(r.students)+1)
	s.CreatedAt = now
	s.UpdatedAt = now
	r.students = append(r.students, *s)
	return nil
}

func (r *memoryStudentRepository) GetByStudentID(_ context.Context, studentID string) (*model.Student, error) {
	for i := range r.students {
		if r.students[i].StudentID == studentID {
			s := r.students[i]
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryStudentRepository) List(_ context.Context) ([]model.Student, error) {
	return append([]model.Student(nil), r.students...), nil
}

// envelope mirrors response.Response for decoding in assertions.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Setup()

	h := NewStudentHandler(service.NewStudentService(&memoryStudentRepository{}))

	r := gin.New()
	students := r.Group("/api/v1/students")
	{
		students.POST("", h.CreateStudent)
		students.GET("", h.ListStudents)
		students.GET("/:student_id", h.GetStudent)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func createPayload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":      "STU001",
		"first_name":      "John",
		"last_name":       "Doe",
		"email":           "john.doe@example.com",
		"enrollment_date": "2024-08-23",
	}
}

func TestCreateStudentEndpoint(t *testing.T) {
	r := newTestRouter()

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/students", createPayload())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Student John Doe created successfully", env.Message)

	var data struct {
		Student model.StudentResponse `json:"student"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "STU001", data.Student.StudentID)
	assert.Equal(t, "John Doe", data.Student.FullName)
	assert.Equal(t, "2024-08-23", data.Student.EnrollmentDate)
	assert.NotEmpty(t, data.Student.CreatedAt)
	assert.NotEmpty(t, data.Student.UpdatedAt)
}

func TestCreateStudentMissingFieldsEnumerated(t *testing.T) {
	r := newTestRouter()

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/students", map[string]interface{}{
		"first_name": "John",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	for _, field := range []string{"student_id", "last_name", "email"} {
		assert.Contains(t, env.Error.Fields, field)
	}
}

func TestCreateStudentInvalidEmail(t *testing.T) {
	r := newTestRouter()

	payload := createPayload()
	payload["email"] = "not-an-email"
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/students", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "email")
}

func TestCreateStudentBusinessRuleViolation(t *testing.T) {
	r := newTestRouter()

	payload := createPayload()
	payload["date_of_birth"] = "2999-01-01"
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/students", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "date_of_birth")
}

func TestCreateStudentDuplicateStudentID(t *testing.T) {
	r := newTestRouter()

	_, first := doJSON(t, r, http.MethodPost, "/api/v1/students", createPayload())
	require.True(t, first.Success)

	payload := createPayload()
	payload["email"] = "other@example.com"
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/students", payload)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_KEY", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "student_id")

	// First record is retrievable unchanged.
	w, env = doJSON(t, r, http.MethodGet, "/api/v1/students/STU001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Student model.StudentResponse `json:"student"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "john.doe@example.com", data.Student.Email)
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	r := newTestRouter()

	_, first := doJSON(t, r, http.MethodPost, "/api/v1/students", createPayload())
	require.True(t, first.Success)

	payload := createPayload()
	payload["student_id"] = "STU002"
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/students", payload)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "email")
}

func TestGetStudentNotFound(t *testing.T) {
	r := newTestRouter()

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/students/STU999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestListStudents(t *testing.T) {
	r := newTestRouter()

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/students", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Students []model.StudentResponse `json:"students"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Students)

	doJSON(t, r, http.MethodPost, "/api/v1/students", createPayload())
	second := createPayload()
	second["student_id"] = "STU002"
	second["email"] = "jane.smith@example.com"
	second["first_name"] = "Jane"
	second["last_name"] = "Smith"
	doJSON(t, r, http.MethodPost, "/api/v1/students", second)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/students", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Students, 2)
	assert.Equal(t, "STU001", data.Students[0].StudentID)
	assert.Equal(t, "Jane Smith", data.Students[1].FullName)
}
