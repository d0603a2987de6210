package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestETag(t *testing.T) {
	a := ETag([]byte("<html>A</html>"))
	assert.Equal(t, a, ETag([]byte("<html>A</html>")))
	assert.NotEqual(t, a, ETag([]byte("<html>B</html>")))
	assert.Len(t, a, 34)
	assert.Equal(t, byte('"'), a[0])
}
