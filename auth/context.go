// Package auth provides the explicit session context handed to the
// workflow engines. The current principal is never read from a hidden
// singleton; callers inject a Context and may subscribe to sign-in and
// sign-out transitions.
package auth

import "sync"

// Principal identifies a signed-in profile.
type Principal struct {
	ProfileID string
	Email     string
	Name      string
}

// Context holds the current principal and notifies subscribers when it
// changes. The zero value is not usable; construct with NewContext.
type Context struct {
	mu        sync.RWMutex
	principal *Principal
	subs      map[int]func(*Principal)
	nextSubID int
}

func NewContext() *Context {
	return &Context{subs: make(map[int]func(*Principal))}
}

// NewStaticContext returns a context fixed to the given principal. Useful
// for request-scoped sessions derived from a verified token.
func NewStaticContext(p Principal) *Context {
	c := NewContext()
	c.SetPrincipal(&p)
	return c
}

// CurrentPrincipal returns the signed-in principal, if any.
func (c *Context) CurrentPrincipal() (Principal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.principal == nil {
		return Principal{}, false
	}
	return *c.principal, true
}

// SetPrincipal replaces the current principal (nil signs out) and notifies
// subscribers outside the lock.
func (c *Context) SetPrincipal(p *Principal) {
	c.mu.Lock()
	if p != nil {
		cp := *p
		c.principal = &cp
	} else {
		c.principal = nil
	}
	subs := make([]func(*Principal), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}

// Subscribe registers a callback for principal changes and returns an
// unsubscribe function. Unsubscribing twice is harmless.
func (c *Context) Subscribe(fn func(*Principal)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}
