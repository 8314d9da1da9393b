package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/enums"
)

// User represents every account on the platform: customers, sellers and admins.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string           `gorm:"column:name;not null" json:"name"`
	Email        string           `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string           `gorm:"column:password_hash;not null" json:"-"`
	Image        *string          `gorm:"column:image" json:"image"`
	Role         enums.UserRole   `gorm:"column:role;type:text;not null;default:'CUSTOMER'" json:"role"`
	Status       enums.UserStatus `gorm:"column:status;type:text;not null;default:'ACTIVE'" json:"status"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// UserSummary is the public projection embedded in orders, medicines and reviews.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Summary projects the user for embedding in other payloads.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
