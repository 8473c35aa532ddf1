package fileurl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePathAndExist(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "storage", "database", "db.sqlite3")

	assert.False(t, IsExist(filepath.Dir(dst)))
	require.NoError(t, CreatePath(dst, os.ModePerm))
	assert.True(t, IsExist(filepath.Dir(dst)))
	assert.True(t, IsDir(filepath.Dir(dst)))
	assert.False(t, IsExist(dst))
}

func TestGetAbsPath(t *testing.T) {
	p, err := GetAbsPath("storage/db.bolt", "/srv/app")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/srv/app/storage/db.bolt"), p)

	p, err = GetAbsPath("/var/lib/x.db", "/srv/app")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/var/lib/x.db"), p)
}
