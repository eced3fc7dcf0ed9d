package domain

import "time"

// Site is a bookmarked site. Sites are owned by the organizer's CRUD API.
type Site struct {
	ID         string    `json:"id" gorm:"primaryKey" bson:"_id"`
	UserID     string    `json:"user_id" gorm:"index" bson:"user_id"`
	CategoryID string    `json:"category_id,omitempty" bson:"category_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	URL        string    `json:"url" bson:"url"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
