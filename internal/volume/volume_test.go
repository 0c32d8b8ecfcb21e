package volume

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMissingPathIsLocal(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	assert.Equal(t, Local, Classify(missing))
	assert.False(t, IsNetwork(missing))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "local", Local.String())
	assert.Equal(t, "network", Network.String())
}
