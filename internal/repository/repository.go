package repository

import (
	"context"

	"github.com/classmgmt/class-management-backend/internal/config"
	"github.com/classmgmt/class-management-backend/internal/database"
	"github.com/classmgmt/class-management-backend/internal/model"
)

// StudentRepository is the storage-agnostic contract for student
// persistence. Callers depend on this interface only; which adapter backs
// it is decided once at process start.
type StudentRepository interface {
	// Create persists a new student and fills the surrogate ID and
	// timestamps on the passed record. Returns *DuplicateKeyError when
	// student_id or email already exists.
	Create(ctx context.Context, student *model.Student) error

	// GetByStudentID retrieves a student by their external identifier.
	// Returns ErrNotFound on miss.
	GetByStudentID(ctx context.Context, studentID string) (*model.Student, error)

	// List returns all students. Ordering is insertion order on PostgreSQL
	// and the store's natural order on MongoDB.
	List(ctx context.Context) ([]model.Student, error)
}

// New returns the adapter matching the connected backend.
func New(db *database.DB) StudentRepository {
	if db.Driver == config.DriverMongo {
		return NewMongoStudentRepository(db.Mongo)
	}
	return NewPostgresStudentRepository(db.Pool)
}
