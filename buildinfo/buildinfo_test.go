package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsDefaultsWithoutLdflags(t *testing.T) {
	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.GitCommit)
	assert.Equal(t, "unknown", info.BuildTime)
}
