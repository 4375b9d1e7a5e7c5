package provision

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/gitserve/pkg/config"
)

func TestSetupInitsMissingRepository(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "git", "project.git")
	err := Setup(context.Background(), []config.Repository{
		{Name: "project", Path: path},
	})
	require.NoError(t, err)

	repo, err := git.PlainOpen(path)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	assert.True(t, cfg.Core.IsBare)
}

func TestSetupLeavesExistingRepositoryAlone(t *testing.T) {
	t.Parallel()

	path := t.TempDir()
	marker := filepath.Join(path, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("untouched"), 0600))

	err := Setup(context.Background(), []config.Repository{
		{Name: "project", Path: path},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "untouched", string(data))
}

func TestSetupClonesFromSource(t *testing.T) {
	t.Parallel()

	source := newSourceRepository(t)
	path := filepath.Join(t.TempDir(), "mirror.git")

	err := Setup(context.Background(), []config.Repository{
		{Name: "mirror", Path: path, InitFrom: source},
	})
	require.NoError(t, err)

	repo, err := git.PlainOpen(path)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	assert.True(t, cfg.Core.IsBare)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.False(t, head.Hash().IsZero())
}

func TestSetupCloneFailureCleansUp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.git")
	err := Setup(context.Background(), []config.Repository{
		{Name: "broken", Path: path, InitFrom: filepath.Join(t.TempDir(), "no-such-source")},
	})
	require.Error(t, err)

	// The partial clone directory must not survive, otherwise the registry
	// would resolve it as a valid repository.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSetupFailsOnNonDirectoryPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	err := Setup(context.Background(), []config.Repository{
		{Name: "project", Path: path},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

// newSourceRepository creates a local repository with a single commit to
// clone from.
func newSourceRepository(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("seed\n"), 0600))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add("README")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}
