package domain

import "time"

// FCMToken represents a Firebase Cloud Messaging device token for push notifications
type FCMToken struct {
	ID         string    `json:"id" gorm:"primaryKey" bson:"_id"`
	UserID     string    `json:"user_id" gorm:"index;not null" bson:"user_id"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null" bson:"token"`
	DeviceInfo string    `json:"device_info" bson:"device_info"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
