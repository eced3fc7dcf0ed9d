package domain

import "time"

const RoleAdmin = "admin"

// User is the owner of reminders. Accounts are managed by the auth service;
// the reminder engine only reads them.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Name      string    `json:"name" bson:"name"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DisplayName falls back to the email address when no name is set
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// IsAdmin reports whether the user may read operational endpoints
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
