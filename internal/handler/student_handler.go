package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classmgmt/class-management-backend/internal/model"
	"github.com/classmgmt/class-management-backend/internal/repository"
	"github.com/classmgmt/class-management-backend/internal/response"
	"github.com/classmgmt/class-management-backend/internal/service"
	"github.com/classmgmt/class-management-backend/internal/validator"
)

// StudentHandler handles student record endpoints.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// CreateStudent godoc
// POST /api/v1/students
// Registers a new student record.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), &req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, ve.Fields)
			return
		}
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			response.FailWithFields(c, http.StatusConflict, response.ErrDuplicate,
				map[string]string{dup.Field: dup.Error()})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated,
		fmt.Sprintf("Student %s created successfully", student.FullName()),
		gin.H{"student": model.NewStudentResponse(student)})
}

// GetStudent godoc
// GET /api/v1/students/:student_id
// Retrieves a single student by their external identifier.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentService.GetByStudentID(c.Request.Context(), c.Param("student_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, "Student retrieved successfully",
		gin.H{"student": model.NewStudentResponse(student)})
}

// ListStudents godoc
// GET /api/v1/students
// Lists all students in the active backend's order.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK,
		fmt.Sprintf("Retrieved %d students", len(students)),
		gin.H{"students": model.NewStudentListResponse(students)})
}
