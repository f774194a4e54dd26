package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

func TestUserRepositoryLookupAndUniqueness(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{Username: "ms-lee", PasswordHash: "hash", IsTeacher: true}
	require.NoError(t, users.Create(ctx, &user))
	require.NotZero(t, user.ID)

	found, err := users.GetByUsername(ctx, "ms-lee")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)
	require.Equal(t, models.RoleTeacher, found.Role())

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "ms-lee", byID.Username)

	_, err = users.GetByUsername(ctx, "missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = users.Create(ctx, &models.User{Username: "ms-lee", PasswordHash: "hash", IsParent: true})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
