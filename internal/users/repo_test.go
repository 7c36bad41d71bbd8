package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marketa-app/admin-backend/pkg/db/models"
	"github.com/marketa-app/admin-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestRepoCreateNormalizesEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	user := models.User{
		Email:        "  Admin@Marketa.App ",
		PasswordHash: "x",
		FullName:     "Admin",
		Role:         enums.MemberRoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, repo.CreateUser(ctx, &user))

	found, err := repo.FindByEmail(ctx, "ADMIN@marketa.app")
	require.NoError(t, err)
	assert.Equal(t, "admin@marketa.app", found.Email)
	assert.Equal(t, user.ID, found.ID)
}

func TestRepoDuplicateEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	first := models.User{Email: "dup@marketa.app", PasswordHash: "x", Role: enums.MemberRoleViewer}
	require.NoError(t, repo.CreateUser(ctx, &first))

	second := models.User{Email: "dup@marketa.app", PasswordHash: "y", Role: enums.MemberRoleViewer}
	assert.Error(t, repo.CreateUser(ctx, &second))
}

func TestRepoFindByIDNotFound(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
