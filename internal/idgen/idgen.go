// Package idgen issues integer record ids that stay unique even when several
// records are created within the same millisecond.
package idgen

import (
	"sync"
	"time"
)

// Generator hands out strictly increasing ids derived from the wall clock.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// New creates a Generator backed by time.Now
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock creates a Generator with an injected clock
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Observe raises the floor so later ids are greater than id
func (g *Generator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

// Next returns an id greater than every id previously issued or observed
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
