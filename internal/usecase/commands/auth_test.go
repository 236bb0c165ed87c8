package commands_test

import (
	"context"
	"testing"
	"time"

	"calmtable/internal/pkg/jwt"
	"calmtable/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*fakeStore, commands.AuthCommands) {
	t.Helper()
	store := newFakeStore()
	uow := &fakeUoW{store: store}
	return store, commands.NewAuthCommands(uow, jwt.NewService("test-secret", time.Hour))
}

func registerInput() commands.RegisterInput {
	return commands.RegisterInput{
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestRegister(t *testing.T) {
	t.Run("creates a customer and issues a token", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		result, err := auth.Register(context.Background(), registerInput())
		require.NoError(t, err)

		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "customer", result.User.Role)
		assert.Equal(t, "ada@example.com", result.User.Email)
		assert.True(t, result.User.IsActive)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		_, err := auth.Register(context.Background(), registerInput())
		require.NoError(t, err)

		input := registerInput()
		input.Username = "ada2"

		_, err = auth.Register(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrEmailAlreadyInUse)
	})

	t.Run("short password", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		input := registerInput()
		input.Password = "short"

		_, err := auth.Register(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrAuthValidation)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		input := registerInput()
		input.Email = "not-an-email"

		_, err := auth.Register(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrAuthValidation)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		registered, err := auth.Register(context.Background(), registerInput())
		require.NoError(t, err)

		result, err := auth.Login(context.Background(), "ada@example.com", "correct-horse")
		require.NoError(t, err)

		assert.NotEmpty(t, result.Token)
		assert.Equal(t, registered.User.ID, result.User.ID)
	})

	t.Run("username works as login", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		_, err := auth.Register(context.Background(), registerInput())
		require.NoError(t, err)

		result, err := auth.Login(context.Background(), "ada", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", result.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		_, err := auth.Register(context.Background(), registerInput())
		require.NoError(t, err)

		_, err = auth.Login(context.Background(), "ada@example.com", "wrong-horse")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		_, err := auth.Login(context.Background(), "ghost@example.com", "whatever-pass")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		store, auth := newAuthFixture(t)

		registered, err := auth.Register(context.Background(), registerInput())
		require.NoError(t, err)
		store.users[registered.User.ID].IsActive = false

		_, err = auth.Login(context.Background(), "ada@example.com", "correct-horse")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("updates and returns the profile", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		registered, err := auth.Register(context.Background(), registerInput())
		require.NoError(t, err)

		view, err := auth.UpdateProfile(context.Background(), registered.User.ID, "Augusta", "King", "555-0100")
		require.NoError(t, err)

		assert.Equal(t, "Augusta", view.FirstName)
		assert.Equal(t, "King", view.LastName)
		assert.Equal(t, "555-0100", view.Phone)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, auth := newAuthFixture(t)

		_, err := auth.UpdateProfile(context.Background(), uuid.New(), "A", "B", "")
		assert.ErrorIs(t, err, commands.ErrUserNotFound)
	})
}
