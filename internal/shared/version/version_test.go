package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "v1.2.3", Normalize("1.2.3"))
	assert.Equal(t, "v1.2.3", Normalize(" v1.2.3 "))
	assert.Equal(t, "", Normalize(""))
}

func TestIsRelease(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	tests := []struct {
		version string
		want    bool
	}{
		{"dev", false},
		{"1.4.0", true},
		{"v1.4.0-rc.1", false},
	}
	for _, tt := range tests {
		Version = tt.version
		assert.Equal(t, tt.want, IsRelease(), tt.version)
	}
}
