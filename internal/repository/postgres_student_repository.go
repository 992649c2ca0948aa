package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classmgmt/class-management-backend/internal/model"
)

const pgUniqueViolation = "23505"

// PostgresStudentRepository stores students as rows in the students table,
// keyed by a bigserial surrogate id with unique indexes on student_id and
// email.
type PostgresStudentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStudentRepository creates a new PostgresStudentRepository.
func NewPostgresStudentRepository(pool *pgxpool.Pool) *PostgresStudentRepository {
	return &PostgresStudentRepository{pool: pool}
}

// Create inserts a new student. Timestamps are assigned here at write time.
func (r *PostgresStudentRepository) Create(ctx context.Context, s *model.Student) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (student_id, first_name, last_name, email, phone, date_of_birth, address, enrollment_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		s.StudentID, s.FirstName, s.LastName, s.Email, s.Phone, s.DateOfBirth, s.Address, s.EnrollmentDate, s.CreatedAt, s.UpdatedAt,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return &DuplicateKeyError{Field: fieldFromConstraint(pgErr.ConstraintName)}
		}
		return err
	}

	s.ID = strconv.FormatInt(id, 10)
	return nil
}

// GetByStudentID retrieves a student by their external identifier.
func (r *PostgresStudentRepository) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, student_id, first_name, last_name, email, phone, date_of_birth, address, enrollment_date, created_at, updated_at
		 FROM students WHERE student_id = $1`, studentID)

	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List retrieves all students in insertion order.
func (r *PostgresStudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, first_name, last_name, email, phone, date_of_birth, address, enrollment_date, created_at, updated_at
		 FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	var id int64
	err := row.Scan(&id, &s.StudentID, &s.FirstName, &s.LastName, &s.Email,
		&s.Phone, &s.DateOfBirth, &s.Address, &s.EnrollmentDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ID = strconv.FormatInt(id, 10)
	return s, nil
}

// fieldFromConstraint maps a unique constraint name back to the entity
// field it guards (students_student_id_key, students_email_key).
func fieldFromConstraint(constraint string) string {
	if strings.Contains(constraint, "email") {
		return "email"
	}
	return "student_id"
}
