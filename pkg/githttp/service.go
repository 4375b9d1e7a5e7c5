// Package githttp implements the Git Smart HTTP protocol front end: request
// classification, pkt-line advertisement framing, gzip transport coding, and
// relaying request/response bodies to the git backend process.
package githttp

import "strings"

// Service identifies one of the two smart transport services. The set is
// closed; any other value is a routing error, not a new variant.
type Service string

// The two services git speaks over smart HTTP.
const (
	UploadPack  Service = "git-upload-pack"
	ReceivePack Service = "git-receive-pack"
)

// ParseService maps a wire-format service name to its Service value.
func ParseService(name string) (Service, bool) {
	switch Service(name) {
	case UploadPack:
		return UploadPack, true
	case ReceivePack:
		return ReceivePack, true
	default:
		return "", false
	}
}

// Subcommand returns the git subcommand for the service, with the routing
// prefix stripped: "git-upload-pack" becomes "upload-pack".
func (s Service) Subcommand() string {
	return strings.TrimPrefix(string(s), "git-")
}

// AdvertisementContentType is the content type for the ref advertisement
// response. The service name keeps its routing prefix here.
func (s Service) AdvertisementContentType() string {
	return "application/x-" + string(s) + "-advertisement"
}

// ResultContentType is the content type for the service execution response.
func (s Service) ResultContentType() string {
	return "application/x-" + string(s) + "-result"
}

func (s Service) String() string {
	return string(s)
}
