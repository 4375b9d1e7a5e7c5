package githttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/gitserve/pkg/errors"
	"github.com/stacklok/gitserve/pkg/logger"
	"github.com/stacklok/gitserve/pkg/registry"
)

// Handler dispatches Smart HTTP requests: classification, backend
// invocation, and protocol-correct response writing.
type Handler struct {
	router  *Router
	invoker Invoker
}

// NewHandler builds the HTTP handler over an immutable registry and a
// backend invoker.
func NewHandler(reg *registry.Registry, invoker Invoker) http.Handler {
	h := &Handler{
		router:  NewRouter(reg),
		invoker: invoker,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		requestLogger,
	)
	// Repository names occupy the whole top-level namespace, so dispatch
	// happens on the raw path rather than a per-route pattern table.
	r.HandleFunc("/*", h.dispatch)
	return r
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	decision := h.router.Classify(r.Method, r.URL.Path, r.URL.Query())

	switch decision.Kind {
	case DecisionAdvertise:
		h.advertise(w, r, decision)
	case DecisionExecute:
		h.execute(w, r, decision)
	case DecisionRejected:
		writeError(w, decision.Reject)
	}
}

// advertise serves GET /<repo>/info/refs: the framed service announcement
// followed by the backend's ref advertisement.
func (h *Handler) advertise(w http.ResponseWriter, r *http.Request, d Decision) {
	output, err := h.invoker.Advertise(r.Context(), d.RepoPath, d.Service)
	if err != nil {
		writeError(w, err)
		return
	}

	writeProtocolHeaders(w, d.Service.AdvertisementContentType())
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(AdvertisementPreamble(d.Service)); err != nil {
		logger.Warnf("failed to write advertisement preamble: %v", err)
		return
	}
	if _, err := w.Write(output); err != nil {
		logger.Warnf("failed to write advertisement body: %v", err)
	}
}

// execute serves POST /<repo>/<service>: the request body (gzip transport
// encoding reversed if declared) is relayed to the backend and its raw
// output returned.
func (h *Handler) execute(w http.ResponseWriter, r *http.Request, d Decision) {
	input, err := readRequestBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	output, err := h.invoker.Execute(r.Context(), d.RepoPath, d.Service, input)
	if err != nil {
		writeError(w, err)
		return
	}

	// Mirror the backend's own compression choice; it is not declared
	// anywhere else.
	if isGzipped(output) {
		w.Header().Set("Content-Encoding", "gzip")
	}

	writeProtocolHeaders(w, d.Service.ResultContentType())
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(output); err != nil {
		logger.Warnf("failed to write service response: %v", err)
	}
}

// writeProtocolHeaders sets the content type and the cache-busting headers
// the smart protocol mandates so intermediaries never replay a stale
// exchange.
func writeProtocolHeaders(w http.ResponseWriter, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Expires", "Fri, 01 Jan 1980 00:00:00 GMT")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Cache-Control", "no-cache, max-age=0, must-revalidate")
}

// writeError surfaces a terminal request failure. Upstream diagnostics are
// already logged where they arise; the client only sees the short message.
func writeError(w http.ResponseWriter, err error) {
	status := errors.Status(err)
	msg := http.StatusText(status)

	switch {
	case errors.IsNotFound(err):
		msg = "Not Found"
	case errors.IsBadRequest(err):
		msg = "Bad Request"
	case errors.IsUpstream(err):
		msg = "git command failed on server"
	}

	http.Error(w, msg, status)
}

// requestLogger logs one line per completed request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
