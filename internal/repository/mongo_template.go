package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ontrakhq/ontrak/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTemplateRepository implements domain.TemplateRepository. Activities
// are embedded in the template document, so activity mutations are array
// updates on the parent.
type MongoTemplateRepository struct {
	collection *mongo.Collection
}

func NewMongoTemplateRepository(db *mongo.Database) *MongoTemplateRepository {
	return &MongoTemplateRepository{
		collection: db.Collection("training_templates"),
	}
}

func (r *MongoTemplateRepository) Create(ctx context.Context, tmpl *domain.Template) error {
	tmpl.CreatedAt = time.Now()
	tmpl.UpdatedAt = time.Now()
	if tmpl.Activities == nil {
		tmpl.Activities = []*domain.Activity{}
	}

	objID := primitive.NewObjectID()
	tmpl.ID = objID.Hex()

	doc := bson.M{
		"_id":         objID,
		"name":        tmpl.Name,
		"description": tmpl.Description,
		"days":        tmpl.Days,
		"created_by":  tmpl.CreatedBy,
		"activities":  tmpl.Activities,
		"created_at":  tmpl.CreatedAt,
		"updated_at":  tmpl.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *MongoTemplateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var tmpl domain.Template
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&tmpl)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

func (r *MongoTemplateRepository) List(ctx context.Context) ([]*domain.Template, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []*domain.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *MongoTemplateRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Template, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"created_by": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []*domain.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *MongoTemplateRepository) Update(ctx context.Context, tmpl *domain.Template) error {
	oid, err := primitive.ObjectIDFromHex(tmpl.ID)
	if err != nil {
		return domain.ErrInvalidID
	}
	tmpl.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        tmpl.Name,
			"description": tmpl.Description,
			"days":        tmpl.Days,
			"updated_at":  tmpl.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *MongoTemplateRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *MongoTemplateRepository) AddActivity(ctx context.Context, templateID string, activity *domain.Activity) error {
	oid, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return domain.ErrInvalidID
	}

	update := bson.M{
		"$push": bson.M{"activities": activity},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *MongoTemplateRepository) AddActivities(ctx context.Context, templateID string, activities []*domain.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return domain.ErrInvalidID
	}

	update := bson.M{
		"$push": bson.M{"activities": bson.M{"$each": activities}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to add activities: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *MongoTemplateRepository) UpdateActivity(ctx context.Context, templateID string, activity *domain.Activity) error {
	oid, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return domain.ErrInvalidID
	}

	filter := bson.M{"_id": oid, "activities.id": activity.ID}
	update := bson.M{
		"$set": bson.M{
			"activities.$": activity,
			"updated_at":   time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (r *MongoTemplateRepository) RemoveActivity(ctx context.Context, templateID, activityID string) error {
	oid, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return domain.ErrInvalidID
	}

	update := bson.M{
		"$pull": bson.M{"activities": bson.M{"id": activityID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to remove activity: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTemplateNotFound
	}
	if result.ModifiedCount == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}
