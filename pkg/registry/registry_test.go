package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/gitserve/pkg/config"
	"github.com/stacklok/gitserve/pkg/errors"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	existing := t.TempDir()
	missing := filepath.Join(t.TempDir(), "not-provisioned-yet.git")

	reg, err := New([]config.Repository{
		{Name: "project", Path: existing},
		{Name: "pending", Path: missing},
	})
	require.NoError(t, err)

	path, err := reg.Resolve("project")
	require.NoError(t, err)
	assert.Equal(t, existing, path)

	_, err = reg.Resolve("unknown")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// Registered but not yet on disk resolves the same as unknown.
	_, err = reg.Resolve("pending")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestResolveFileIsNotARepository(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("not a directory"), 0600))

	reg, err := New([]config.Repository{{Name: "project", Path: file}})
	require.NoError(t, err)

	_, err = reg.Resolve("project")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestNewRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := New([]config.Repository{
		{Name: "project", Path: "/tmp/a.git"},
		{Name: "project", Path: "/tmp/b.git"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate repository name")
}

func TestNames(t *testing.T) {
	t.Parallel()

	reg, err := New([]config.Repository{
		{Name: "zeta", Path: "/tmp/z.git"},
		{Name: "alpha", Path: "/tmp/a.git"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
	assert.Equal(t, 2, reg.Len())
}
