package githttp

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/stacklok/gitserve/pkg/errors"
	"github.com/stacklok/gitserve/pkg/registry"
)

// DecisionKind enumerates the possible outcomes of classifying a request.
type DecisionKind int

// The closed set of routing outcomes. Call sites switch exhaustively over
// these; there is no default handling path.
const (
	// DecisionAdvertise serves the ref advertisement for a repository.
	DecisionAdvertise DecisionKind = iota

	// DecisionExecute runs a smart service against a repository.
	DecisionExecute

	// DecisionRejected terminates the request with Reject.
	DecisionRejected
)

// Decision is the routing outcome for one request.
type Decision struct {
	Kind DecisionKind

	// RepoName and RepoPath identify the resolved repository for
	// DecisionAdvertise and DecisionExecute.
	RepoName string
	RepoPath string
	Service  Service

	// Reject carries the terminal error when Kind is DecisionRejected.
	Reject error
}

// Router classifies inbound requests against an immutable repository
// registry. Classification reads only the method, path and query string and
// has no side effects beyond the registry's existence check.
type Router struct {
	registry *registry.Registry
}

// NewRouter builds a router over the given registry.
func NewRouter(reg *registry.Registry) *Router {
	return &Router{registry: reg}
}

// Classify resolves a request to a repository and a service.
//
// The first path segment is the repository name; the rest is the route
// suffix. GET <repo>/info/refs?service=<name> advertises; POST
// <repo>/<service> executes. A missing, empty or unrecognized service on the
// GET path is a 404, same as an unknown route: the protocol does not
// distinguish the two at this layer. A POST whose final segment names a
// recognized service but whose suffix carries extra segments is a 400, since
// the URL then disagrees with itself about what is being dispatched.
func (rt *Router) Classify(method, urlPath string, query url.Values) Decision {
	repoName, suffix, ok := splitRepoPath(urlPath)
	if !ok {
		return rejected(errors.NewNotFoundError("not found", nil))
	}

	repoPath, err := rt.registry.Resolve(repoName)
	if err != nil {
		return rejected(err)
	}

	switch method {
	case http.MethodGet:
		if suffix != "/info/refs" {
			return rejected(errors.NewNotFoundError("not found", nil))
		}
		svc, ok := ParseService(query.Get("service"))
		if !ok {
			return rejected(errors.NewNotFoundError("not found", nil))
		}
		return Decision{Kind: DecisionAdvertise, RepoName: repoName, RepoPath: repoPath, Service: svc}

	case http.MethodPost:
		// A trailing slash yields an empty final segment, which is an
		// unrecognized service like any other.
		svc, ok := ParseService(lastSegment(suffix))
		if !ok {
			return rejected(errors.NewNotFoundError("service not found", nil))
		}
		if suffix != "/"+svc.String() {
			return rejected(errors.NewBadRequestError(
				fmt.Sprintf("service name mismatch in URL %s", urlPath), nil))
		}
		return Decision{Kind: DecisionExecute, RepoName: repoName, RepoPath: repoPath, Service: svc}

	default:
		return rejected(errors.NewNotFoundError("not found", nil))
	}
}

func rejected(err error) Decision {
	return Decision{Kind: DecisionRejected, Reject: err}
}

// lastSegment returns the final path segment of a route suffix, without
// collapsing a trailing slash the way path.Base would.
func lastSegment(s string) string {
	return s[strings.LastIndexByte(s, '/')+1:]
}

// splitRepoPath extracts the first path segment as the repository name and
// returns the remaining suffix with its leading slash.
func splitRepoPath(urlPath string) (repo, suffix string, ok bool) {
	trimmed := strings.TrimPrefix(urlPath, "/")
	if trimmed == "" {
		return "", "", false
	}

	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i], trimmed[i:], true
	}
	return trimmed, "", true
}
