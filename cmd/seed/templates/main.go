package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/ontrakhq/ontrak/internal/config"
	"github.com/ontrakhq/ontrak/internal/domain"
	"github.com/ontrakhq/ontrak/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds a demo training week. Times are base-zone wall clock with
// 15-minute breaks, so the conflict detector accepts them as-is.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	tplRepo := repository.NewMongoTemplateRepository(db)

	act := func(name string, day int, start string, duration int) *domain.Activity {
		return &domain.Activity{
			ID:        ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
			Name:      name,
			Day:       day,
			StartTime: start,
			Duration:  duration,
		}
	}

	tmpl := &domain.Template{
		Name:        "Intro Training Week",
		Description: "Three-day demo plan",
		Days:        3,
		CreatedBy:   "seed",
		Activities: []*domain.Activity{
			act("Morning Briefing", 1, "09:00", 30),
			act("Fundamentals Session", 1, "09:45", 90),
			act("Lunch Break", 1, "12:00", 60),
			act("Practice Drills", 1, "13:15", 120),

			act("Warmup", 2, "09:00", 30),
			act("Technique Workshop", 2, "09:45", 120),
			act("Review & Feedback", 2, "12:00", 45),

			act("Assessment Prep", 3, "09:00", 60),
			act("Final Assessment", 3, "10:15", 120),
			act("Wrap-up", 3, "12:30", 30),
		},
	}

	if conflicts, err := domain.DetectConflicts(tmpl.Activities); err != nil {
		log.Fatalf("Seed data invalid: %v", err)
	} else if len(conflicts) > 0 {
		log.Fatalf("Seed data has %d conflicts", len(conflicts))
	}

	if err := tplRepo.Create(ctx, tmpl); err != nil {
		log.Fatalf("Error creating template %s: %v", tmpl.Name, err)
	}
	fmt.Printf("Created Template: %s with %d activities\n", tmpl.Name, len(tmpl.Activities))
}
