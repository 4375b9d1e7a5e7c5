package githttp

import (
	"bytes"

	"github.com/go-git/go-git/v5/plumbing/format/pktline"
)

// AdvertisementPreamble returns the pkt-line framed service announcement
// that precedes the backend's ref advertisement output:
//
//	<4 hex digit length># service=<name>\n0000
//
// Only the advertisement path is framed here; service execution responses
// carry whatever framing the backend produced.
func AdvertisementPreamble(svc Service) []byte {
	var buf bytes.Buffer

	// Writes to a bytes.Buffer cannot fail.
	e := pktline.NewEncoder(&buf)
	_ = e.Encodef("# service=%s\n", svc)
	_ = e.Flush()

	return buf.Bytes()
}
