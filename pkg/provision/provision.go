// Package provision prepares the configured repositories on disk before the
// server starts accepting traffic.
//
// A repository whose path already exists is left untouched. A missing
// repository is either created as an empty bare repository or bare-cloned
// from its configured init_from remote. The HTTP layer never creates
// repositories itself; by the time a request arrives, a name either maps to
// a valid bare repository or does not resolve.
package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/gitserve/pkg/config"
	"github.com/stacklok/gitserve/pkg/logger"
)

// Setup ensures every configured repository exists on disk, provisioning the
// missing ones concurrently. It returns the first error encountered; the
// server must not start serving a partially provisioned table.
func Setup(ctx context.Context, repos []config.Repository) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, repo := range repos {
		group.Go(func() error {
			return ensure(ctx, repo)
		})
	}
	return group.Wait()
}

func ensure(ctx context.Context, repo config.Repository) error {
	if info, err := os.Stat(repo.Path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("repository %q: %s exists and is not a directory", repo.Name, repo.Path)
		}
		logger.Debugf("repository %q already exists at %s", repo.Name, repo.Path)
		return nil
	}

	if parent := filepath.Dir(repo.Path); parent != "." {
		if err := os.MkdirAll(parent, 0750); err != nil {
			return fmt.Errorf("repository %q: failed to create parent directory: %w", repo.Name, err)
		}
	}

	if repo.InitFrom != "" {
		return cloneBare(ctx, repo)
	}
	return initBare(repo)
}

func initBare(repo config.Repository) error {
	logger.Infof("creating empty bare repository %q at %s", repo.Name, repo.Path)

	if _, err := git.PlainInit(repo.Path, true); err != nil {
		if errors.Is(err, git.ErrRepositoryAlreadyExists) {
			return nil
		}
		return fmt.Errorf("repository %q: failed to init: %w", repo.Name, err)
	}
	return nil
}

func cloneBare(ctx context.Context, repo config.Repository) error {
	logger.Infof("cloning bare repository %q from %s", repo.Name, repo.InitFrom)

	_, err := git.PlainCloneContext(ctx, repo.Path, true, &git.CloneOptions{
		URL: repo.InitFrom,
	})
	if err != nil {
		// A failed clone can leave a partial directory behind that would
		// otherwise resolve as a valid repository on the next lookup.
		_ = os.RemoveAll(repo.Path)
		return fmt.Errorf("repository %q: failed to clone from %s: %w", repo.Name, repo.InitFrom, err)
	}
	return nil
}
