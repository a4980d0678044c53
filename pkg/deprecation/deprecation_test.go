package deprecation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeprecated(t *testing.T) {
	assert.True(t, Deprecated("g_ck"))
	assert.True(t, Deprecated("page_size"))
	assert.False(t, Deprecated("instance_url"))

	r, ok := Replacement("base_url")
	assert.True(t, ok)
	assert.Equal(t, "instance_url", r)

	_, ok = Replacement("page_size")
	assert.False(t, ok)
	_, ok = Replacement("token")
	assert.False(t, ok)
}
