package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookmark-backend/internal/reminder/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoReminderRepository implements ReminderRepository over a mongo collection
type mongoReminderRepository struct {
	collection *mongo.Collection
}

// NewMongoReminderRepository creates a ReminderRepository backed by the "reminders" collection
func NewMongoReminderRepository(db *mongo.Database) ReminderRepository {
	return &mongoReminderRepository{
		collection: db.Collection("reminders"),
	}
}

func (r *mongoReminderRepository) FindDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	filter := bson.M{
		"due_at":    bson.M{"$lte": now},
		"completed": false,
	}
	opts := options.Find().SetSort(bson.D{{Key: "due_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due reminders: %w", err)
	}
	defer cursor.Close(ctx)

	var reminders []*domain.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	return reminders, nil
}

func (r *mongoReminderRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Reminder, error) {
	update := bson.M{"$set": bson.M(patchValues(patch, time.Now()))}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var reminder domain.Reminder
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&reminder)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	return &reminder, nil
}

func (r *mongoReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	now := time.Now()
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = now
	}
	reminder.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, reminder); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *mongoReminderRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"completed":  true,
		"updated_at": bson.M{"$lt": cutoff},
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed reminders: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoReminderRepository) GroupByStats(ctx context.Context) ([]domain.StatsRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"channel":    "$channel",
				"completed":  "$completed",
				"email_sent": "$email_sent",
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":        0,
			"channel":    "$_id.channel",
			"completed":  "$_id.completed",
			"email_sent": "$_id.email_sent",
			"count":      1,
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "channel", Value: 1},
			{Key: "completed", Value: 1},
			{Key: "email_sent", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reminder stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []domain.StatsRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode reminder stats: %w", err)
	}
	return rows, nil
}

func (r *mongoReminderRepository) CountDue(ctx context.Context, now time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"due_at":    bson.M{"$lte": now},
		"completed": false,
	})
}

func (r *mongoReminderRepository) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"due_at":    bson.M{"$gt": now},
		"completed": false,
	})
}
