package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Image       *string          `json:"image"`
	Role        enums.UserRole   `json:"role"`
	Status      enums.UserStatus `json:"status"`
	LastLoginAt *time.Time       `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ProfileUpdate carries the optional self-service profile fields.
type ProfileUpdate struct {
	Name  *string
	Image *string
}

// IsEmpty reports whether no field was supplied.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Image == nil
}

// ListFilters narrows the admin user listing.
type ListFilters struct {
	Role   *enums.UserRole
	Status *enums.UserStatus
	Search string
}

// UserSortable whitelists sort keys for user listings.
var UserSortable = pagination.Sortable{
	Columns: map[string]string{
		"created_at": "created_at",
		"createdAt":  "created_at",
		"name":       "name",
		"email":      "email",
		"role":       "role",
		"status":     "status",
	},
	Default: "created_at",
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Image:       u.Image,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// FromModels maps a slice of users.
func FromModels(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
