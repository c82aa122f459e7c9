package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/moonwatch/internal/domain/moonview"
)

// Registry owns one moonview.Controller per live session. Idle controllers
// are evicted; their last snapshot stays in the Store until the session TTL.
type Registry struct {
	cfg    Config
	client moonview.AstronomyClient
	store  Store
	base   *slog.Logger
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	ctrl     *moonview.Controller
	lastSeen time.Time
}

// NewRegistry wires the controller factory to its snapshot store.
func NewRegistry(cfg Config, client moonview.AstronomyClient, store Store, logger *slog.Logger) *Registry {
	return &Registry{
		cfg:     cfg,
		client:  client,
		store:   store,
		base:    logger,
		logger:  logger.With("component", "session.registry"),
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Controller returns the controller for id, creating or restoring it.
func (r *Registry) Controller(ctx context.Context, id string) *moonview.Controller {
	now := r.now()

	r.mu.Lock()
	r.evictLocked(now)
	if e, ok := r.entries[id]; ok {
		e.lastSeen = now
		r.mu.Unlock()
		return e.ctrl
	}
	r.mu.Unlock()

	ctrl := moonview.NewController(r.client, r.base.With("session", id))
	if snap, found, err := r.store.Load(ctx, id); err != nil {
		r.logger.Warn("session snapshot load failed", "session", id, "error", err)
	} else if found {
		ctrl.Restore(snap)
		r.logger.Debug("session restored", "session", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.lastSeen = now
		return e.ctrl
	}
	r.entries[id] = &entry{ctrl: ctrl, lastSeen: now}
	return ctrl
}

// Persist mirrors the controller state to the store. Failures are logged
// only; the in-memory controller stays authoritative.
func (r *Registry) Persist(ctx context.Context, id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	if err := r.store.Save(ctx, id, e.ctrl.Snapshot(), r.cfg.TTL); err != nil {
		r.logger.Warn("session snapshot save failed", "session", id, "error", err)
	}
}

// Forget drops a session entirely.
func (r *Registry) Forget(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
	return r.store.Delete(ctx, id)
}

// Len reports the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) evictLocked(now time.Time) {
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.cfg.IdleTimeout && !e.ctrl.View().Loading() {
			delete(r.entries, id)
		}
	}
}
