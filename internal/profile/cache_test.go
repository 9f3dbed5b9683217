package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemCache(t *testing.T) {
	c := NewMemCache(50 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.Set("k2", "v2")
	time.Sleep(80 * time.Millisecond)
	_, ok = c.Get("k2")
	assert.False(t, ok, "expired entry must be gone")
}
