package web

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// throttle keeps one token bucket per client key.
type throttle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*visitor
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const visitorIdle = 10 * time.Minute

func newThrottle(perSecond float64, burst int) *throttle {
	if burst < 1 {
		burst = 1
	}
	return &throttle{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (t *throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	v, ok := t.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Sweep forgets clients idle for a while.
func (t *throttle) Sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for k, v := range t.limiters {
		if now.Sub(v.lastSeen) > visitorIdle {
			delete(t.limiters, k)
		}
	}
}
