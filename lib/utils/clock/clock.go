package clock

import (
	"sync"
	"time"
)

type Provider interface {
	Now() time.Time
}

var Instance Provider = Real{}

type Real struct{}

func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fixed часы с ручным управлением временем
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fixed) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
