package githttp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvertisementPreamble(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]byte("001e# service=git-upload-pack\n0000"),
		AdvertisementPreamble(UploadPack))

	assert.Equal(t,
		[]byte("001f# service=git-receive-pack\n0000"),
		AdvertisementPreamble(ReceivePack))
}
