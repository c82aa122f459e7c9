package session

import (
	"context"
	"time"

	"github.com/yanqian/moonwatch/internal/domain/moonview"
)

// Store mirrors controller snapshots so a session survives controller
// eviction or a process restart within its TTL.
type Store interface {
	Load(ctx context.Context, id string) (moonview.Snapshot, bool, error)
	Save(ctx context.Context, id string, snap moonview.Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Config drives session lifetimes.
type Config struct {
	Secret      string
	TTL         time.Duration
	IdleTimeout time.Duration
}
