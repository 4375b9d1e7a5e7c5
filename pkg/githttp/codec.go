package githttp

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"

	"github.com/stacklok/gitserve/pkg/errors"
)

// gzipMagic is the two-byte gzip stream signature.
var gzipMagic = []byte{0x1f, 0x8b}

// readRequestBody reads the entire request body, reversing gzip transport
// encoding when the Content-Encoding header declares it. A declared but
// malformed gzip body is a bad request; the backend must never see it.
func readRequestBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.NewInternalError("failed to read request body", err)
	}

	if r.Header.Get("Content-Encoding") != "gzip" {
		return body, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewBadRequestError("bad gzipped data in request", err)
	}
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.NewBadRequestError("bad gzipped data in request", err)
	}

	return decoded, nil
}

// isGzipped reports whether the payload starts with the gzip magic number.
//
// The backend does not declare its output encoding, so the response header
// is mirrored from this sniff. It is a heuristic, kept for compatibility
// with clients that sent a compressed request and expect a compressed
// response.
func isGzipped(payload []byte) bool {
	return bytes.HasPrefix(payload, gzipMagic)
}
