// Package registry maps repository names to their location on disk.
//
// The registry is built once at startup from configuration and is immutable
// afterwards, so it is safe to share across concurrent request handlers
// without locking.
package registry

import (
	"fmt"
	"os"
	"sort"

	"github.com/stacklok/gitserve/pkg/config"
	"github.com/stacklok/gitserve/pkg/errors"
)

// Registry is an immutable name to path lookup table for served repositories.
type Registry struct {
	paths map[string]string
}

// New builds a registry from the configured repository table.
// Names must be unique; config validation enforces this, but the check is
// repeated here so the registry cannot be constructed inconsistently.
func New(repos []config.Repository) (*Registry, error) {
	paths := make(map[string]string, len(repos))
	for _, repo := range repos {
		if _, ok := paths[repo.Name]; ok {
			return nil, fmt.Errorf("duplicate repository name %q", repo.Name)
		}
		paths[repo.Name] = repo.Path
	}
	return &Registry{paths: paths}, nil
}

// Resolve returns the filesystem path for a repository name.
//
// Existence is re-checked on every call: a name whose directory has not been
// provisioned yet resolves the same way as an unknown name. The distinction
// is deliberately not surfaced to clients.
func (r *Registry) Resolve(name string) (string, error) {
	path, ok := r.paths[name]
	if !ok {
		return "", errors.NewNotFoundError(fmt.Sprintf("repository %q not found", name), nil)
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", errors.NewNotFoundError(fmt.Sprintf("repository %q not found", name), err)
	}

	return path, nil
}

// Names returns the registered repository names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.paths))
	for name := range r.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered repositories.
func (r *Registry) Len() int {
	return len(r.paths)
}
