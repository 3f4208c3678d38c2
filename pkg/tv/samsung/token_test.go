package samsung

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tv-token.txt")
	store := FileTokenStore{Path: path}

	token, err := store.Load("tv")
	require.NoError(t, err)
	assert.Empty(t, token, "missing file means no token yet")

	require.NoError(t, store.Save("tv", "abc123"))
	token, err = store.Load("tv")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestKeyringTokenStore(t *testing.T) {
	keyring.MockInit()
	fallback := filepath.Join(t.TempDir(), "tv-token.txt")
	store := NewKeyringTokenStore(fallback)

	token, err := store.Load("10.0.0.2")
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("10.0.0.2", "from-keyring"))
	token, err = store.Load("10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", token)

	_, err = os.Stat(fallback)
	assert.True(t, errors.Is(err, os.ErrNotExist), "keyring hit must not touch the file")
}

func TestKeyringTokenStore_FallsBackToFile(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	t.Cleanup(keyring.MockInit)

	fallback := filepath.Join(t.TempDir(), "tv-token.txt")
	store := NewKeyringTokenStore(fallback)

	require.NoError(t, store.Save("10.0.0.2", "from-file"))
	data, err := os.ReadFile(fallback)
	require.NoError(t, err)
	assert.Equal(t, "from-file", string(data))

	token, err := store.Load("10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, "from-file", token)
}
