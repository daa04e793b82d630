// Package contacts keeps the set of subscribers that receive broadcast alerts.
package contacts

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Contact is an opaque subscriber address, e.g. a WhatsApp number.
type Contact string

// Registry is a grow-only set of contacts. With a Store attached, new
// contacts are written through so they survive restarts.
type Registry struct {
	mu    sync.RWMutex
	set   map[Contact]struct{}
	store Store
	log   *zap.Logger
}

// NewRegistry creates an empty registry; store may be nil.
func NewRegistry(store Store, log *zap.Logger) *Registry {
	return &Registry{
		set:   make(map[Contact]struct{}),
		store: store,
		log:   log.Named("contacts"),
	}
}

// Load seeds the in-memory set from the store.
func (r *Registry) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	list, err := r.store.ListContacts(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	for _, c := range list {
		r.set[c] = struct{}{}
	}
	n := len(r.set)
	r.mu.Unlock()

	r.log.Info("contacts loaded", zap.Int("count", n))
	return nil
}

// Add inserts c and reports whether it was new. Adding an existing or empty
// contact is a no-op.
func (r *Registry) Add(ctx context.Context, c Contact) bool {
	c = Contact(strings.TrimSpace(string(c)))
	if c == "" {
		return false
	}

	r.mu.Lock()
	if _, ok := r.set[c]; ok {
		r.mu.Unlock()
		return false
	}
	r.set[c] = struct{}{}
	n := len(r.set)
	r.mu.Unlock()

	r.log.Info("contact registered", zap.String("contact", string(c)), zap.Int("total", n))

	if r.store != nil {
		if err := r.store.SaveContact(ctx, c); err != nil {
			r.log.Warn("persist contact failed", zap.String("contact", string(c)), zap.Error(err))
		}
	}
	return true
}

// All returns a snapshot; iteration order is unspecified.
func (r *Registry) All() []Contact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Contact, 0, len(r.set))
	for c := range r.set {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.set)
}
