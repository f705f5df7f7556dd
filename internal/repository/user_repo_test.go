package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/models"
)

func TestUserRepositoryUniqueEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{Email: "vendor@example.com", PasswordHash: "hash", Name: "Vendor", Role: models.RoleVendor}
	require.NoError(t, repo.Create(ctx, &user))

	clone := models.User{Email: "vendor@example.com", PasswordHash: "hash2", Name: "Other", Role: models.RoleVendor}
	err := repo.Create(ctx, &clone)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := repo.GetByEmail(ctx, "vendor@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
