package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())

	orig := version
	t.Cleanup(func() { version = orig })
	version = "v1.2.3"
	assert.Equal(t, "v1.2.3", GetVersion())
}
