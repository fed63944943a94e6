// Package status holds the per-session "recommendations in flight" signal.
// One Channel is created per session scope and handed to every component that
// needs to read or publish it. There is no package-level instance.
package status

import (
	"context"
	"sync"
)

// Channel is a last-write-wins boolean shared by the composer and the results board.
type Channel struct {
	mu      sync.RWMutex
	loading bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(bool)
}

// New returns an idle channel.
func New() *Channel {
	return &Channel{subs: make(map[int]func(bool))}
}

// LoadingRecommendations reports whether a recommendation request is outstanding.
func (c *Channel) LoadingRecommendations() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Set publishes v. Subscribers are called synchronously, only on an actual transition.
func (c *Channel) Set(v bool) {
	c.mu.Lock()
	changed := c.loading != v
	c.loading = v
	c.mu.Unlock()

	if !changed {
		return
	}

	c.subMu.Lock()
	fns := make([]func(bool), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn for transitions. The returned func removes it.
func (c *Channel) Subscribe(fn func(bool)) (cancel func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Reset clears the flag, used when the session scope is torn down.
func (c *Channel) Reset() {
	c.Set(false)
}

type scopeKey struct{}

// NewScope establishes a session scope carrying a fresh Channel.
func NewScope(ctx context.Context) (context.Context, *Channel) {
	ch := New()
	return context.WithValue(ctx, scopeKey{}, ch), ch
}

// Lookup returns the channel in ctx, if any.
func Lookup(ctx context.Context) (*Channel, bool) {
	if ctx == nil {
		return nil, false
	}
	ch, ok := ctx.Value(scopeKey{}).(*Channel)
	return ch, ok && ch != nil
}

// FromContext returns the scoped channel. Calling it outside a scope is a wiring
// bug and panics.
func FromContext(ctx context.Context) *Channel {
	ch, ok := Lookup(ctx)
	if !ok {
		panic("status: FromContext must be called inside a status scope (status.NewScope)")
	}
	return ch
}
