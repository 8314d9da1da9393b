package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medistore/medistore-backend/pkg/config"
	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/security"
)

type sampleCategory struct {
	name        string
	description string
}

var sampleCategories = []sampleCategory{
	{"Pain Relief", "Analgesics and anti-inflammatory medicines"},
	{"Cold & Flu", "Decongestants, cough syrups and lozenges"},
	{"Vitamins & Supplements", "Daily vitamins, minerals and dietary supplements"},
	{"Digestive Health", "Antacids, laxatives and probiotics"},
	{"Allergy", "Antihistamines and allergy relief"},
	{"First Aid", "Antiseptics, bandages and wound care"},
	{"Skin Care", "Topical creams and ointments"},
}

type adminSeed struct {
	Name     string
	Email    string
	Password string
}

type seedResult struct {
	AdminCreated      bool
	CategoriesCreated int
}

// seed inserts the admin account and the sample categories. Existing rows are
// left untouched so the command can be re-run safely.
func seed(ctx context.Context, db *gorm.DB, admin adminSeed, passwords config.PasswordConfig) (seedResult, error) {
	var result seedResult
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		return result, errors.New("admin email required")
	}
	if err := security.CheckPolicy(admin.Password); err != nil {
		return result, fmt.Errorf("admin password: %w", err)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			if existing.Role != enums.UserRoleAdmin {
				return fmt.Errorf("user %s exists with role %s", email, existing.Role)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, err := security.HashPassword(admin.Password, passwords)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			user := &models.User{
				Name:         strings.TrimSpace(admin.Name),
				Email:        email,
				PasswordHash: hash,
				Role:         enums.UserRoleAdmin,
				Status:       enums.UserStatusActive,
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			result.AdminCreated = true
		default:
			return fmt.Errorf("lookup admin: %w", err)
		}

		for _, c := range sampleCategories {
			description := c.description
			row := &models.Category{Name: c.name, Description: &description}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(row)
			if res.Error != nil {
				return fmt.Errorf("create category %q: %w", c.name, res.Error)
			}
			result.CategoriesCreated += int(res.RowsAffected)
		}
		return nil
	})
	return result, err
}
