package repository

import (
	"testing"

	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) UserRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewUserRepository(testDB)
}

func TestUserRepository_Create(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{
		Email:        "budi@example.com",
		PasswordHash: "hashed-password",
		Name:         "Budi Santoso",
		Phone:        "081234567890",
		Role:         model.RoleUser,
	}

	err := repo.Create(user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{Email: "budi@example.com", PasswordHash: "hash", Name: "Budi", Role: model.RoleUser}
	require.NoError(t, repo.Create(user))

	dup := &model.User{Email: "budi@example.com", PasswordHash: "hash", Name: "Budi Dua", Role: model.RoleUser}
	err := repo.Create(dup)
	assert.Error(t, err)
}

func TestUserRepository_FindByID(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{Email: "sari@example.com", PasswordHash: "hash", Name: "Sari", Role: model.RoleUser}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "sari@example.com", found.Email)

	_, err = repo.FindByID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{Email: "sari@example.com", PasswordHash: "hash", Name: "Sari", Role: model.RoleUser}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByEmail("sari@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail("tidakada@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{Email: "andi@example.com", PasswordHash: "hash", Name: "Andi", Role: model.RoleUser}
	require.NoError(t, repo.Create(user))

	user.Name = "Andi Wijaya"
	user.Phone = "0811999888"
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Andi Wijaya", found.Name)
	assert.Equal(t, "0811999888", found.Phone)
}
