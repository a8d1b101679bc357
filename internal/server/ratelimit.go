// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/crossref-search/internal/config"
)

// maxTrackedClients bounds the limiter map; idle entries are pruned when it
// is exceeded.
const maxTrackedClients = 10000

// ClientLimiter keeps one token bucket per client key. The bucket refills
// at Count per Period and holds at most Count tokens.
type ClientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idle    time.Duration
	clients map[string]*clientBucket
	now     func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter returns a limiter enforcing r for every client.
func NewClientLimiter(r config.Rate) *ClientLimiter {
	return &ClientLimiter{
		limit:   rate.Every(r.Interval()),
		burst:   r.Count,
		idle:    r.Period,
		clients: make(map[string]*clientBucket),
		now:     time.Now,
	}
}

// Allow consumes one token for key and reports whether the request may
// proceed.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= maxTrackedClients {
			l.prune(now)
		}
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// prune drops buckets idle for longer than one full period; such buckets
// are full again and equivalent to new ones.
func (l *ClientLimiter) prune(now time.Time) {
	for k, b := range l.clients {
		if now.Sub(b.lastSeen) > l.idle {
			delete(l.clients, k)
		}
	}
}

// Len returns the number of tracked clients.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
