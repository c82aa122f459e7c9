package sessionstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/moonwatch/internal/domain/moonview"
	"github.com/yanqian/moonwatch/internal/domain/session"
)

// ValkeyStore persists session snapshots using a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "moonwatch"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Load implements session.Store.
func (s *ValkeyStore) Load(ctx context.Context, id string) (moonview.Snapshot, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return moonview.Snapshot{}, false, nil
		}
		return moonview.Snapshot{}, false, err
	}
	var snap moonview.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return moonview.Snapshot{}, false, fmt.Errorf("decode session snapshot: %w", err)
	}
	return snap, true, nil
}

// Save implements session.Store.
func (s *ValkeyStore) Save(ctx context.Context, id string, snap moonview.Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(id)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// Delete implements session.Store.
func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(id)).Build()).Error()
}

func (s *ValkeyStore) key(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

var _ session.Store = (*ValkeyStore)(nil)
