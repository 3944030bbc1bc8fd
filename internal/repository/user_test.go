package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oraclearcade/tictactoe-backend/internal/apperror"
	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

func TestUserRepository(t *testing.T) {
	t.Run("Save_and_FindByEmail", func(t *testing.T) {
		ctx, st := newSQLiteStorage(t)

		userRepo := NewUserRepository(st.Connection)

		// Given: a saved user
		user := &entity.User{
			ID:           "user-1",
			Email:        "alice@example.com",
			Name:         "Alice",
			PasswordHash: "hash",
			CreatedAt:    time.Now().UTC(),
		}
		require.NoError(t, userRepo.Save(ctx, user))

		// When: finding the user by email
		found, err := userRepo.FindByEmail(ctx, "alice@example.com")

		// Then: the stored record comes back
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, user.Name, found.Name)
		assert.Equal(t, user.PasswordHash, found.PasswordHash)
	})

	t.Run("FindByEmail_NotFound", func(t *testing.T) {
		ctx, st := newSQLiteStorage(t)

		userRepo := NewUserRepository(st.Connection)

		// When: looking up an email that was never registered
		_, err := userRepo.FindByEmail(ctx, "nobody@example.com")

		// Then: ErrNotFound should be returned
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("FindByID_NotFound", func(t *testing.T) {
		ctx, st := newSQLiteStorage(t)

		userRepo := NewUserRepository(st.Connection)

		// When: looking up an unknown id
		_, err := userRepo.FindByID(ctx, "no-such-user")

		// Then: ErrNotFound should be returned
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}
