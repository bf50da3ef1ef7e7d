package session_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrsteele09/go-lecturer-console/session"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the contract every Store implementation must satisfy
func exerciseStore(t *testing.T, s session.Store) {
	t.Helper()

	require.Empty(t, s.GetAccessToken())
	require.Empty(t, s.GetRefreshToken())

	require.NoError(t, s.SetTokens("access-1", "refresh-1"))
	require.Equal(t, "access-1", s.GetAccessToken())
	require.Equal(t, "refresh-1", s.GetRefreshToken())

	require.NoError(t, s.SetAccessToken("access-2"))
	require.Equal(t, "access-2", s.GetAccessToken())
	require.Equal(t, "refresh-1", s.GetRefreshToken(), "refresh token must survive an access overwrite")

	require.NoError(t, s.ClearTokens())
	require.Empty(t, s.GetAccessToken())
	require.Empty(t, s.GetRefreshToken())
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, session.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens")
	s, err := session.NewFileStore(path, "correct horse battery staple")
	require.NoError(t, err)

	exerciseStore(t, s)
}

func TestFileStore_SealedAtRest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens")
	s, err := session.NewFileStore(path, "passphrase")
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("plain-access-value", "plain-refresh-value"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "plain-access-value"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A second store over the same file sees the same pair: nothing is cached in memory.
	again, err := session.NewFileStore(path, "passphrase")
	require.NoError(t, err)
	require.Equal(t, "plain-access-value", again.GetAccessToken())
	require.Equal(t, "plain-refresh-value", again.GetRefreshToken())
}

func TestFileStore_WrongPassphraseReadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens")
	s, err := session.NewFileStore(path, "right")
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("a", "r"))

	wrong, err := session.NewFileStore(path, "wrong")
	require.NoError(t, err)
	require.Empty(t, wrong.GetAccessToken())
	require.Error(t, wrong.SetAccessToken("x"))
}

func TestNewFileStore_RequiresPathAndPassphrase(t *testing.T) {
	_, err := session.NewFileStore("", "p")
	require.Error(t, err)

	_, err = session.NewFileStore("/tmp/x", "")
	require.Error(t, err)
}
