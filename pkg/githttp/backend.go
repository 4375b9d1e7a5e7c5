package githttp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/stacklok/gitserve/pkg/errors"
	"github.com/stacklok/gitserve/pkg/logger"
)

// Invoker runs the git backend for a resolved repository. It exists as an
// interface so tests can observe and fake invocations without spawning
// processes.
type Invoker interface {
	// Advertise runs the service in ref advertisement mode with no input.
	Advertise(ctx context.Context, repoPath string, svc Service) ([]byte, error)

	// Execute runs the service in stateless-RPC mode, streaming the request
	// payload to the process and returning its full output.
	Execute(ctx context.Context, repoPath string, svc Service, input []byte) ([]byte, error)
}

// GitInvoker shells out to the git binary. One process is spawned per call
// and fully reaped before the call returns; nothing is shared or pooled.
type GitInvoker struct {
	gitPath string
}

// NewGitInvoker locates the git binary on PATH.
func NewGitInvoker() (*GitInvoker, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}
	return &GitInvoker{gitPath: gitPath}, nil
}

// Advertise implements Invoker.
func (g *GitInvoker) Advertise(ctx context.Context, repoPath string, svc Service) ([]byte, error) {
	return g.run(ctx, repoPath, svc, true, nil)
}

// Execute implements Invoker.
func (g *GitInvoker) Execute(ctx context.Context, repoPath string, svc Service, input []byte) ([]byte, error) {
	return g.run(ctx, repoPath, svc, false, input)
}

func (g *GitInvoker) run(ctx context.Context, repoPath string, svc Service, advertise bool, input []byte) ([]byte, error) {
	args := buildArgs(repoPath, svc, advertise)

	// #nosec G204 - the subcommand comes from the closed Service set and the
	// path from the immutable registry, never from the request.
	cmd := exec.CommandContext(ctx, g.gitPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != nil {
		cmd.Stdin = bytes.NewReader(input)
	}

	if err := cmd.Run(); err != nil {
		// Partial output from a failed backend is never forwarded; the
		// stderr text stays server-side.
		logger.Errorw("git backend failed",
			"args", args,
			"error", err,
			"stderr", stderr.String(),
		)
		return nil, errors.NewUpstreamError(fmt.Sprintf("git %s failed", svc.Subcommand()), err)
	}

	return stdout.Bytes(), nil
}

// buildArgs assembles the backend argument list. The stateless-rpc flag is
// always present; advertisement additionally passes --advertise-refs.
func buildArgs(repoPath string, svc Service, advertise bool) []string {
	args := []string{svc.Subcommand(), "--stateless-rpc"}
	if advertise {
		args = append(args, "--advertise-refs")
	}
	return append(args, repoPath)
}
