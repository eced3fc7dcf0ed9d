package repository

import (
	"context"

	authdomain "bookmark-backend/internal/auth/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// FCMTokenRepository defines the token operations the push notifier needs.
// Registration belongs to the device API.
type FCMTokenRepository interface {
	GetTokensByUserID(ctx context.Context, userID string) ([]authdomain.FCMToken, error)
	DeleteToken(ctx context.Context, token string) error
}

// fcmTokenRepository implements FCMTokenRepository interface
type fcmTokenRepository struct {
	db *gorm.DB
}

// NewFCMTokenRepository creates a new instance of fcmTokenRepository
func NewFCMTokenRepository(db *gorm.DB) FCMTokenRepository {
	return &fcmTokenRepository{
		db: db,
	}
}

// GetTokensByUserID returns all FCM tokens for a user
func (r *fcmTokenRepository) GetTokensByUserID(ctx context.Context, userID string) ([]authdomain.FCMToken, error) {
	var tokens []authdomain.FCMToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteToken removes a specific FCM token
func (r *fcmTokenRepository) DeleteToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&authdomain.FCMToken{}).Error
}

type mongoFCMTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoFCMTokenRepository creates an FCMTokenRepository over the "fcm_tokens" collection
func NewMongoFCMTokenRepository(db *mongo.Database) FCMTokenRepository {
	return &mongoFCMTokenRepository{
		collection: db.Collection("fcm_tokens"),
	}
}

func (r *mongoFCMTokenRepository) GetTokensByUserID(ctx context.Context, userID string) ([]authdomain.FCMToken, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []authdomain.FCMToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *mongoFCMTokenRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"token": token})
	return err
}
