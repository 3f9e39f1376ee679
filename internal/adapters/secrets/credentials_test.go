package secrets_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wsm/internal/adapters/secrets"
	"go.trai.ch/wsm/internal/core/domain"
)

func noEnv(string) string { return "" }

func TestStore_Anonymous(t *testing.T) {
	t.Parallel()

	store := secrets.NewStoreWithEnv(filepath.Join(t.TempDir(), "credentials"), noEnv)
	pw, err := store.Password(context.Background(), domain.AnonymousLogin)
	require.NoError(t, err)
	assert.Empty(t, pw)
}

func TestStore_EnvWins(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials")
	store := secrets.NewStoreWithEnv(path, func(key string) string {
		if key == domain.PasswordEnvVar {
			return "from-env"
		}
		return ""
	})
	require.NoError(t, store.Store("steamuser", "from-file"))

	pw, err := store.Password(context.Background(), "steamuser")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)
}

func TestStore_FileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "home", "credentials")
	store := secrets.NewStoreWithEnv(path, noEnv)

	require.NoError(t, store.Store("steamuser", "hunter2"))
	require.NoError(t, store.Store("other", "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.PrivateFilePerm), info.Mode().Perm())

	pw, err := store.Password(context.Background(), "steamuser")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)

	require.NoError(t, store.Store("steamuser", ""))
	_, err = store.Password(context.Background(), "steamuser")
	require.ErrorIs(t, err, domain.ErrCredentialsMissing)

	pw, err = store.Password(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, "secret", pw)
}

func TestStore_Missing(t *testing.T) {
	t.Parallel()

	store := secrets.NewStoreWithEnv(filepath.Join(t.TempDir(), "credentials"), noEnv)
	_, err := store.Password(context.Background(), "steamuser")
	require.ErrorIs(t, err, domain.ErrCredentialsMissing)
}
