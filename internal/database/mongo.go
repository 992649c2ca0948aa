package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/classmgmt/class-management-backend/internal/config"
)

// StudentsCollection is the MongoDB collection holding student documents.
const StudentsCollection = "students"

const namespaceExistsCode = 48

// NewMongoDatabase creates and validates a MongoDB client, then ensures the
// students collection carries its schema validator and unique indexes.
func NewMongoDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)

	if err := ensureStudentsCollection(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ensure students collection: %w", err)
	}

	log.Info().
		Str("database", cfg.MongoDatabase).
		Msg("MongoDB connected")

	return client, db, nil
}

// ensureStudentsCollection creates the students collection with a
// $jsonSchema validator and its indexes. The validator duplicates the
// entity-level validation at the storage layer so malformed documents are
// rejected even when written outside the API.
func ensureStudentsCollection(ctx context.Context, db *mongo.Database) error {
	validator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"student_id", "first_name", "last_name", "email", "enrollment_date", "created_at", "updated_at"},
			"properties": bson.M{
				"student_id": bson.M{"bsonType": "string", "minLength": 3, "maxLength": 20},
				"first_name": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 50},
				"last_name":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": 50},
				"email": bson.M{
					"bsonType": "string",
					"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
				},
				"phone":           bson.M{"bsonType": []string{"string", "null"}},
				"date_of_birth":   bson.M{"bsonType": []string{"date", "null"}},
				"address":         bson.M{"bsonType": []string{"string", "null"}},
				"enrollment_date": bson.M{"bsonType": "date"},
				"created_at":      bson.M{"bsonType": "date"},
				"updated_at":      bson.M{"bsonType": "date"},
			},
		},
	}

	err := db.CreateCollection(ctx, StudentsCollection,
		options.CreateCollection().SetValidator(validator))
	if err != nil {
		var cmdErr mongo.CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != namespaceExistsCode {
			return err
		}
		// Collection already exists: refresh the validator instead.
		res := db.RunCommand(ctx, bson.D{
			{Key: "collMod", Value: StudentsCollection},
			{Key: "validator", Value: validator},
		})
		if res.Err() != nil {
			return res.Err()
		}
	}

	coll := db.Collection(StudentsCollection)
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_student_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys: bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "enrollment_date", Value: 1}},
		},
	})
	return err
}
