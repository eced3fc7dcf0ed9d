package repository

import (
	"context"
	"errors"

	sitedomain "bookmark-backend/internal/site/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SiteRepository resolves the site a reminder points at. FindByID returns
// (nil, nil) when the site does not exist.
type SiteRepository interface {
	FindByID(ctx context.Context, id string) (*sitedomain.Site, error)
}

type gormSiteRepository struct {
	db *gorm.DB
}

// NewGormSiteRepository creates a GORM-based SiteRepository
func NewGormSiteRepository(db *gorm.DB) SiteRepository {
	return &gormSiteRepository{db: db}
}

func (r *gormSiteRepository) FindByID(ctx context.Context, id string) (*sitedomain.Site, error) {
	var site sitedomain.Site
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

type mongoSiteRepository struct {
	collection *mongo.Collection
}

// NewMongoSiteRepository creates a SiteRepository over the "sites" collection
func NewMongoSiteRepository(db *mongo.Database) SiteRepository {
	return &mongoSiteRepository{
		collection: db.Collection("sites"),
	}
}

func (r *mongoSiteRepository) FindByID(ctx context.Context, id string) (*sitedomain.Site, error) {
	var site sitedomain.Site
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&site)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}
