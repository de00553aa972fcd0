package mem

import (
	"testing"
	"time"

	"github.com/goserg/clubsite/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	c.Put("a", domain.User{ID: 1})
	c.Put("b", domain.User{ID: 2})
	u, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, u.ID)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("b")
	assert.False(t, ok, "expired entry must not be returned")

	c.Put("c", domain.User{ID: 3})
	now = now.Add(2 * time.Minute)
	c.Put("d", domain.User{ID: 4})
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
}
