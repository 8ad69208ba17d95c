package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mitra-admin/internal/model"
)

func TestFileStore_EmptyDir(t *testing.T) {
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
}

func TestFileStore_SetPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set("tok-123", model.User{ID: "u1", Name: "Admin", Email: "admin@example.com", LevelID: "2"}))
	assert.Equal(t, "tok-123", s.Token())

	info, err := os.Stat(filepath.Join(dir, tokenFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := OpenFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", reopened.Token())
	require.NotNil(t, reopened.User())
	assert.Equal(t, "u1", reopened.User().ID)
	assert.Equal(t, "admin@example.com", reopened.User().Email)
}

func TestFileStore_Clear(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok", model.User{ID: "u1"}))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())

	_, err = os.Stat(filepath.Join(dir, tokenFile))
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, s.Clear())

	reopened, err := OpenFileStore(dir)
	require.NoError(t, err)
	assert.Empty(t, reopened.Token())
}

func TestFileStore_CorruptUser(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFile), []byte("tok"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, userFile), []byte("{not json"), 0600))

	_, err := OpenFileStore(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse session user")
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	assert.Empty(t, s.Token())

	require.NoError(t, s.Set("abc", model.User{ID: "u9"}))
	assert.Equal(t, "abc", s.Token())
	u := s.User()
	require.NotNil(t, u)
	u.ID = "changed"
	assert.Equal(t, "u9", s.User().ID, "User returns a copy")

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
}

func TestDefaultDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/mitra-admin", dir)
}
