package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/adapters/persistence/sqlite"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/mocks"
)

func newMockedUserService(t *testing.T) (*UserService, *mocks.MockPasswordHasher) {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "users.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hasher := mocks.NewMockPasswordHasher(t)
	rt := NewRuntime(sqlite.NewUnitOfWork(store), nil, discardLogger())
	return NewUserService(rt, sqlite.NewUserRepository(store), hasher), hasher
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("normalizes email and rejects duplicates", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		ctx := context.Background()

		u, err := env.users.Register(ctx, "Alice", "  Alice@Example.COM ", "correct horse battery")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email())
		assert.NotEmpty(t, u.PasswordHash().Salt())

		_, err = env.users.Register(ctx, "Alice Again", "alice@example.com", "another password")
		require.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		_, err := env.users.Register(context.Background(), "Alice", "alice@example.com", "short")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("invalid email never reaches the store", func(t *testing.T) {
		t.Parallel()
		svc, hasher := newMockedUserService(t)
		hasher.EXPECT().Hash(mock.Anything, "correct horse battery").Return("h", "s", nil).Once()

		_, err := svc.Register(context.Background(), "Alice", "not-an-email", "correct horse battery")
		require.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.users.FindByEmail(context.Background(), "not-an-email")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("hasher failure", func(t *testing.T) {
		t.Parallel()
		svc, hasher := newMockedUserService(t)
		hasher.EXPECT().Hash(mock.Anything, mock.Anything).Return("", "", errors.New("entropy exhausted")).Once()

		_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "correct horse battery")
		require.Error(t, err)
		assert.Empty(t, domain.CodeOf(err))
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	u, err := env.users.Authenticate(ctx, "ALICE@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, alice, u.ID())

	_, err = env.users.Authenticate(ctx, "alice@example.com", "wrong password")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.users.Authenticate(ctx, "nobody@example.com", "correct horse battery")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserService_Authenticate_MalformedStoredHash(t *testing.T) {
	t.Parallel()
	svc, hasher := newMockedUserService(t)
	ctx := context.Background()
	hasher.EXPECT().Hash(mock.Anything, mock.Anything).Return("stored", "salt", nil).Once()
	_, err := svc.Register(ctx, "Alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)

	hasher.EXPECT().Verify(mock.Anything, "correct horse battery", "stored", "salt").
		Return(false, errors.New("malformed password hash")).Once()
	_, err = svc.Authenticate(ctx, "alice@example.com", "correct horse battery")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	_, err := env.users.ChangePassword(ctx, bob, alice, "correct horse battery", "new secret value")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.users.ChangePassword(ctx, alice, alice, "wrong password", "new secret value")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.users.ChangePassword(ctx, alice, alice, "correct horse battery", "new secret value")
	require.NoError(t, err)

	_, err = env.users.Authenticate(ctx, "alice@example.com", "correct horse battery")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = env.users.Authenticate(ctx, "alice@example.com", "new secret value")
	require.NoError(t, err)
}

func TestUserService_Rename(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	_, err := env.users.Rename(ctx, bob, alice, "Mallory")
	require.ErrorIs(t, err, domain.ErrForbidden)

	u, err := env.users.Rename(ctx, alice, alice, "Alice Liddell")
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", u.Name())

	stored, err := env.users.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", stored.Name())
}
