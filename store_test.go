package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-hr-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) *auth.CredentialStore {
	t.Helper()

	store := auth.NewCredentialStore(auth.WithHashCost(bcrypt.MinCost), auth.WithStoreLogger(nopLogger{}))
	_, err := store.Register(context.Background(), auth.RegisterUserMessage{
		Username:    "admin",
		Password:    "adminpassword",
		DisplayName: "HR Admin",
		Email:       "admin@example.com",
	})
	require.NoError(t, err)
	return store
}

func TestCredentialStoreAuthenticate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	identity, err := store.Authenticate(ctx, "admin", "adminpassword")
	require.NoError(t, err)
	assert.Equal(t, "admin", identity.Username)
	assert.Equal(t, "HR Admin", identity.DisplayName)
	assert.True(t, identity.Active)
	assert.NotEmpty(t, identity.ID)

	_, err = store.Authenticate(ctx, "admin", "wrongpass")
	assert.ErrorIs(t, err, auth.ErrBadCredential)

	_, err = store.Authenticate(ctx, "nobody", "adminpassword")
	assert.ErrorIs(t, err, auth.ErrUnknownUser)

	_, err = store.Authenticate(ctx, "Admin", "adminpassword")
	assert.ErrorIs(t, err, auth.ErrUnknownUser, "usernames are case sensitive")
}

func TestCredentialStoreRegisterDuplicate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Register(ctx, auth.RegisterUserMessage{Username: "admin", Password: "other"})
	assert.ErrorIs(t, err, auth.ErrDuplicateUser)
	assert.Equal(t, 1, store.Len())

	_, err = store.Authenticate(ctx, "admin", "adminpassword")
	assert.NoError(t, err, "existing record must be untouched")

	_, err = store.Authenticate(ctx, "admin", "other")
	assert.ErrorIs(t, err, auth.ErrBadCredential)
}

func TestCredentialStoreRegisterValidation(t *testing.T) {
	store := newStore(t)

	tests := []auth.RegisterUserMessage{
		{Username: "", Password: "pw"},
		{Username: "bob", Password: ""},
		{Username: "b o b", Password: "pw"},
		{Username: "bob", Password: "pw", Email: "not-an-email"},
		{Username: "bob", Password: string(make([]byte, 73))},
	}

	for _, msg := range tests {
		_, err := store.Register(context.Background(), msg)
		assert.True(t, auth.IsValidationError(err), "%+v", msg)
	}
	assert.Equal(t, 1, store.Len())
}

func TestCredentialStoreRegisterCanceled(t *testing.T) {
	store := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Register(ctx, auth.RegisterUserMessage{Username: "bob", Password: "pw"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCredentialStoreConcurrentRegister(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	const n = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Register(ctx, auth.RegisterUserMessage{
				Username: "carol",
				Password: "password-" + string(rune('a'+i)),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, auth.ErrDuplicateUser):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, duplicates)
	assert.Equal(t, 2, store.Len())
}

func TestCredentialStoreSetActive(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	identity, err := store.SetActive(ctx, "admin", false)
	require.NoError(t, err)
	assert.False(t, identity.Active)

	got, ok := store.Get(ctx, "admin")
	require.True(t, ok)
	assert.False(t, got.Active)

	_, err = store.SetActive(ctx, "nobody", true)
	assert.ErrorIs(t, err, auth.ErrUnknownUser)
}

func TestIdentityIDIsStable(t *testing.T) {
	a, _ := newStore(t).Get(context.Background(), "admin")
	b, _ := newStore(t).Get(context.Background(), "admin")
	assert.Equal(t, a.ID, b.ID)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
