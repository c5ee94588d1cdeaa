package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/errs"
	"github.com/MrSnakeDoc/sip/internal/logger"
)

// StateStore loads and saves the state document under a single key.
type StateStore struct {
	kv     KV
	key    string
	logger logger.Logger
}

// NewStateStore binds a substrate to key (DefaultKey when empty).
func NewStateStore(kv KV, key string, log logger.Logger) *StateStore {
	if key == "" {
		key = DefaultKey
	}
	return &StateStore{kv: kv, key: key, logger: log}
}

// Load returns the stored state merged over the defaults. A missing,
// unreadable or corrupt document yields DefaultState; the failure is
// logged and never returned.
func (s *StateStore) Load(ctx context.Context) *domain.State {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			s.logger.Warn("failed to read state, using defaults",
				logger.String("key", s.key),
				logger.Error(err))
		}
		return domain.DefaultState()
	}
	if raw == "" {
		return domain.DefaultState()
	}

	var state domain.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("stored state is corrupt, using defaults",
			logger.String("key", s.key),
			logger.Error(err))
		return domain.DefaultState()
	}
	return &state
}

// Save serializes the full document and overwrites the stored value.
func (s *StateStore) Save(ctx context.Context, state *domain.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Ping checks the substrate is reachable.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
