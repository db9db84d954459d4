package command

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Cooldown hands every user a token bucket: burst commands at once, then one
// per interval.
type Cooldown struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	users map[string]*userBucket
	now   func() time.Time
}

type userBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewCooldown returns a Cooldown refilling one token per interval. A
// non-positive interval disables throttling.
func NewCooldown(interval time.Duration, burst int) *Cooldown {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Cooldown{
		limit: limit,
		burst: burst,
		users: make(map[string]*userBucket),
		now:   time.Now,
	}
}

// Allow reports whether userID may run a command now, spending a token if so.
func (c *Cooldown) Allow(userID string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.users[userID]
	if !ok {
		b = &userBucket{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.users[userID] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Sweep forgets users idle for longer than idle and returns how many went.
func (c *Cooldown) Sweep(idle time.Duration) int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, b := range c.users {
		if now.Sub(b.lastSeen) > idle {
			delete(c.users, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle users every interval until ctx is done.
func (c *Cooldown) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep(idle)
		}
	}
}
