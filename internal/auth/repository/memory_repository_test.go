package repository

import (
	"context"
	"testing"

	authdomain "bookmark-backend/internal/auth/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepository_FindByID(t *testing.T) {
	repo := NewMemoryUserRepository()
	repo.Save(&authdomain.User{ID: "u1", Email: "alice@example.com", Name: "Alice"})

	user, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)

	missing, err := repo.FindByID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	repo.Save(&authdomain.User{ID: "u1", Email: "alice@example.com"})

	user, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	user.Email = "changed@example.com"

	again, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", again.Email)
}

func TestMemoryUserRepository_SaveReplaces(t *testing.T) {
	repo := NewMemoryUserRepository()
	repo.Save(&authdomain.User{ID: "u1", Role: ""})
	repo.Save(&authdomain.User{ID: "u1", Role: authdomain.RoleAdmin})

	user, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}
