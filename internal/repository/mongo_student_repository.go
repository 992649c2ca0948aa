package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/classmgmt/class-management-backend/internal/database"
	"github.com/classmgmt/class-management-backend/internal/model"
)

// studentDocument is the BSON shape of a student in the students
// collection. The collection carries unique indexes on student_id and
// email plus a $jsonSchema validator (see database.NewMongoDatabase).
type studentDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	StudentID      string             `bson:"student_id"`
	FirstName      string             `bson:"first_name"`
	LastName       string             `bson:"last_name"`
	Email          string             `bson:"email"`
	Phone          *string            `bson:"phone,omitempty"`
	DateOfBirth    *time.Time         `bson:"date_of_birth,omitempty"`
	Address        *string            `bson:"address,omitempty"`
	EnrollmentDate time.Time          `bson:"enrollment_date"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

// MongoStudentRepository stores students as documents in the students
// collection.
type MongoStudentRepository struct {
	coll *mongo.Collection
}

// NewMongoStudentRepository creates a new MongoStudentRepository.
func NewMongoStudentRepository(db *mongo.Database) *MongoStudentRepository {
	return &MongoStudentRepository{coll: db.Collection(database.StudentsCollection)}
}

// Create inserts a new student document. Timestamps are assigned here at
// write time, truncated to milliseconds since BSON dates carry no finer
// precision.
func (r *MongoStudentRepository) Create(ctx context.Context, s *model.Student) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	s.CreatedAt = now
	s.UpdatedAt = now

	doc := studentDocument{
		StudentID:      s.StudentID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		DateOfBirth:    s.DateOfBirth,
		Address:        s.Address,
		EnrollmentDate: s.EnrollmentDate,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{Field: fieldFromWriteError(err)}
		}
		return err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	return nil
}

// GetByStudentID retrieves a student by their external identifier.
func (r *MongoStudentRepository) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	var doc studentDocument
	err := r.coll.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

// List retrieves all students in the store's natural order.
func (r *MongoStudentRepository) List(ctx context.Context) ([]model.Student, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []model.Student
	for cursor.Next(ctx) {
		var doc studentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		students = append(students, *doc.toModel())
	}
	return students, cursor.Err()
}

func (d *studentDocument) toModel() *model.Student {
	s := &model.Student{
		ID:             d.ID.Hex(),
		StudentID:      d.StudentID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		Phone:          d.Phone,
		Address:        d.Address,
		EnrollmentDate: d.EnrollmentDate.UTC(),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	if d.DateOfBirth != nil {
		dob := d.DateOfBirth.UTC()
		s.DateOfBirth = &dob
	}
	return s
}

// fieldFromWriteError recovers which unique index a duplicate-key write
// error hit. The index name (uniq_student_id, uniq_email) appears in the
// server's error message.
func fieldFromWriteError(err error) string {
	if strings.Contains(err.Error(), "uniq_email") || strings.Contains(err.Error(), "email") {
		return "email"
	}
	return "student_id"
}
