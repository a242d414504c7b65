package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ontrakhq/ontrak/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScheduleRepository implements domain.ScheduleRepository
type MongoScheduleRepository struct {
	collection *mongo.Collection
}

func NewMongoScheduleRepository(db *mongo.Database) *MongoScheduleRepository {
	coll := db.Collection("schedules")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainer_id", Value: 1}, {Key: "start_date", Value: -1}}},
		{Keys: bson.D{{Key: "template_id", Value: 1}, {Key: "status", Value: 1}}},
	})

	return &MongoScheduleRepository{
		collection: coll,
	}
}

func (r *MongoScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	if schedule.Activities == nil {
		schedule.Activities = []*domain.Activity{}
	}

	objID := primitive.NewObjectID()
	schedule.ID = objID.Hex()

	doc := bson.M{
		"_id":         objID,
		"template_id": schedule.TemplateID,
		"trainer_id":  schedule.TrainerID,
		"name":        schedule.Name,
		"start_date":  schedule.StartDate,
		"days":        schedule.Days,
		"status":      schedule.Status,
		"activities":  schedule.Activities,
		"created_at":  schedule.CreatedAt,
		"updated_at":  schedule.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var schedule domain.Schedule
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&schedule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *MongoScheduleRepository) ListByTrainer(ctx context.Context, trainerID string, from, to time.Time) ([]*domain.Schedule, error) {
	filter := bson.M{"trainer_id": trainerID}
	if !from.IsZero() || !to.IsZero() {
		dateFilter := bson.M{}
		if !from.IsZero() {
			dateFilter["$gte"] = from
		}
		if !to.IsZero() {
			dateFilter["$lte"] = to
		}
		filter["start_date"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*domain.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *MongoScheduleRepository) ListByTrainerAndStatus(ctx context.Context, trainerID string, statuses []string) ([]*domain.Schedule, error) {
	filter := bson.M{"trainer_id": trainerID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules by status: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*domain.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *MongoScheduleRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *MongoScheduleRepository) UpdateActivityRun(ctx context.Context, scheduleID string, activity *domain.Activity) error {
	oid, err := primitive.ObjectIDFromHex(scheduleID)
	if err != nil {
		return domain.ErrInvalidID
	}

	filter := bson.M{"_id": oid, "activities.id": activity.ID}
	set := bson.M{
		"activities.$.completed": activity.Completed,
		"updated_at":             time.Now(),
	}
	if activity.ActualStartTime != nil {
		set["activities.$.actual_start_time"] = activity.ActualStartTime
	}
	if activity.ActualEndTime != nil {
		set["activities.$.actual_end_time"] = activity.ActualEndTime
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update activity run: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (r *MongoScheduleRepository) CancelByTemplate(ctx context.Context, templateID string) error {
	filter := bson.M{
		"template_id": templateID,
		"status":      domain.ScheduleStatusActive,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     domain.ScheduleStatusCancelled,
			"updated_at": time.Now(),
		},
	}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel schedules for template: %w", err)
	}
	return nil
}
