package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medistore/medistore-backend/pkg/config"
	"github.com/medistore/medistore-backend/pkg/db/dbtest"
	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/security"
)

var fastPasswords = config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

func TestSeedIsIdempotent(t *testing.T) {
	db := dbtest.Open(t, "seed")
	ctx := context.Background()
	admin := adminSeed{Name: "Root", Email: " Admin@MediStore.com ", Password: "supersecret"}

	first, err := seed(ctx, db, admin, fastPasswords)
	require.NoError(t, err)
	assert.True(t, first.AdminCreated)
	assert.Equal(t, len(sampleCategories), first.CategoriesCreated)

	second, err := seed(ctx, db, admin, fastPasswords)
	require.NoError(t, err)
	assert.False(t, second.AdminCreated)
	assert.Zero(t, second.CategoriesCreated)

	var user models.User
	require.NoError(t, db.Where("email = ?", "admin@medistore.com").First(&user).Error)
	assert.Equal(t, enums.UserRoleAdmin, user.Role)
	ok, err := security.VerifyPassword("supersecret", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(sampleCategories)), count)
}

func TestSeedRefusesNonAdminWithSameEmail(t *testing.T) {
	db := dbtest.Open(t, "seed_conflict")
	require.NoError(t, db.Create(&models.User{
		Name: "Shopper", Email: "admin@medistore.com", PasswordHash: "x",
		Role: enums.UserRoleCustomer, Status: enums.UserStatusActive,
	}).Error)

	_, err := seed(context.Background(), db, adminSeed{Email: "admin@medistore.com", Password: "supersecret"}, fastPasswords)
	assert.Error(t, err)
}

func TestSeedRejectsShortPassword(t *testing.T) {
	db := dbtest.Open(t, "seed_short")
	_, err := seed(context.Background(), db, adminSeed{Email: "admin@medistore.com", Password: "abc"}, fastPasswords)
	assert.Error(t, err)
}
