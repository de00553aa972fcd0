package mem

import (
	"sync"
	"time"

	"github.com/goserg/clubsite/internal/domain"
)

type entry struct {
	user    domain.User
	expires time.Time
}

// Cache keeps resolved users per access token.
type Cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	users map[string]entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		now:   time.Now,
		users: make(map[string]entry),
	}
}

func (c *Cache) Put(token string, user domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.users[token] = entry{user: user, expires: c.now().Add(c.ttl)}
}

func (c *Cache) Get(token string) (domain.User, bool) {
	c.mu.RLock()
	e, ok := c.users[token]
	c.mu.RUnlock()
	if !ok {
		return domain.User{}, false
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		c.Delete(token)
		return domain.User{}, false
	}
	return e.user, true
}

func (c *Cache) Delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.users, token)
}

// Sweep drops expired entries.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.users {
		if c.ttl > 0 && now.After(e.expires) {
			delete(c.users, k)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.users)
}
