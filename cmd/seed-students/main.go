package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/classmgmt/class-management-backend/internal/config"
	"github.com/classmgmt/class-management-backend/internal/database"
	"github.com/classmgmt/class-management-backend/internal/logger"
	"github.com/classmgmt/class-management-backend/internal/model"
	"github.com/classmgmt/class-management-backend/internal/repository"
	"github.com/classmgmt/class-management-backend/internal/service"
)

// Seeds sample students through the service layer, so it works against
// whichever backend DATABASE_DRIVER selects. Already-seeded students are
// skipped.
func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	studentService := service.NewStudentService(repository.New(db))

	names := []string{
		"John Doe", "Jane Smith", "Alice Johnson", "Bob Williams", "Carol Brown",
		"David Jones", "Emma Garcia", "Frank Miller", "Grace Davis", "Henry Wilson",
		"Isabel Moore", "Jack Taylor", "Karen Anderson", "Liam Thomas", "Mia Jackson",
		"Noah White", "Olivia Harris", "Peter Martin", "Quinn Thompson", "Rachel Lee",
	}

	fmt.Printf("=== Seeding %d students (%s backend) ===\n", len(names), cfg.DatabaseDriver)

	created := 0
	for i, name := range names {
		parts := strings.SplitN(name, " ", 2)
		first, last := parts[0], parts[1]
		email := fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), strings.ToLower(last))
		dob := fmt.Sprintf("%d-0%d-1%d", 2004+i%4, 1+i%9, i%10)
		phone := fmt.Sprintf("+1 555 %03d %04d", i+100, i+1000)

		req := &model.CreateStudentRequest{
			StudentID:   fmt.Sprintf("STU%03d", i+1),
			FirstName:   first,
			LastName:    last,
			Email:       email,
			Phone:       &phone,
			DateOfBirth: &dob,
		}

		if _, err := studentService.Create(ctx, req); err != nil {
			if repository.IsDuplicateKey(err) {
				fmt.Printf("skip %s: already exists\n", req.StudentID)
				continue
			}
			var ve *service.ValidationError
			if errors.As(err, &ve) {
				log.Fatal().Str("student_id", req.StudentID).Err(err).Msg("Seed data invalid")
			}
			log.Fatal().Str("student_id", req.StudentID).Err(err).Msg("Failed to create student")
		}
		created++
	}

	fmt.Printf("=== Done: %d created ===\n", created)
}
