// Package tracker owns the hydration state: day rollover and the entry lifecycle.
package tracker

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/errs"
	"github.com/MrSnakeDoc/sip/internal/logger"
)

// Store persists the state document.
type Store interface {
	Load(ctx context.Context) *domain.State
	Save(ctx context.Context, state *domain.State) error
}

// Listener is called with a snapshot after every mutation.
type Listener func(domain.State)

// NewEntry is the raw user input for a drink.
type NewEntry struct {
	Ml     float64
	Type   string
	Factor float64
}

// Tracker serializes all mutations of the state and persists each one
// before releasing its lock.
type Tracker struct {
	mu        sync.Mutex
	state     *domain.State
	store     Store
	logger    logger.Logger
	now       func() time.Time
	loc       *time.Location
	newID     func() string
	listeners []Listener
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the zone used for day keys (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) { t.newID = gen }
}

// New loads the stored state. Call ResetIfNeeded afterwards to apply a
// rollover that happened while the process was down.
func New(ctx context.Context, store Store, log logger.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		logger: log,
		now:    time.Now,
		loc:    time.Local,
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.state = store.Load(ctx)
	return t
}

// Subscribe registers a listener for post-mutation snapshots.
func (t *Tracker) Subscribe(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() domain.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Location returns the zone day keys are computed in.
func (t *Tracker) Location() *time.Location { return t.loc }

// Now returns the tracker's clock reading in its location.
func (t *Tracker) Now() time.Time { return t.now().In(t.loc) }

// Today returns the current local day key.
func (t *Tracker) Today() string { return domain.LocalDayKey(t.Now()) }

// ResetIfNeeded clears the entries when the local day changed since the
// state was last scoped. It reports whether a reset happened.
func (t *Tracker) ResetIfNeeded(ctx context.Context) (bool, error) {
	t.mu.Lock()
	changed, err := t.resetIfNeededLocked(ctx)
	snap, listeners := t.snapshotLocked(changed)
	t.mu.Unlock()

	t.notify(snap, listeners)
	return changed, err
}

func (t *Tracker) resetIfNeededLocked(ctx context.Context) (bool, error) {
	today := t.Today()
	if t.state.DayKey == today {
		return false, nil
	}

	t.logger.Info("day rollover, clearing entries",
		logger.String("previous_day", t.state.DayKey),
		logger.String("day", today),
		logger.Int("cleared", len(t.state.Entries)))

	t.state.DayKey = today
	t.state.Entries = []domain.Entry{}
	return true, t.saveLocked(ctx)
}

// AddEntry validates the input and appends a new entry for today.
// Volume must be finite and > 0, factor finite and within [0, 1.2].
// Hydration is computed from the raw inputs; ml and factor are rounded for storage.
func (t *Tracker) AddEntry(ctx context.Context, in NewEntry) (domain.Entry, error) {
	if !finite(in.Ml) || in.Ml <= 0 {
		return domain.Entry{}, fmt.Errorf("%w: %v", errs.ErrInvalidVolume, in.Ml)
	}
	if !finite(in.Factor) || in.Factor < 0 || in.Factor > domain.MaxFactor {
		return domain.Entry{}, fmt.Errorf("%w: %v", errs.ErrInvalidFactor, in.Factor)
	}

	t.mu.Lock()
	var saveErr error
	if _, err := t.resetIfNeededLocked(ctx); err != nil {
		saveErr = err
	}

	entry := domain.Entry{
		ID:        t.newID(),
		TS:        t.now().UnixMilli(),
		Type:      in.Type,
		Ml:        domain.RoundHalfUp(in.Ml),
		Factor:    domain.Round2(in.Factor),
		Hydration: in.Ml * in.Factor,
	}
	t.state.Entries = append(t.state.Entries, entry)
	if err := t.saveLocked(ctx); err != nil {
		saveErr = err
	}
	snap, listeners := t.snapshotLocked(true)
	t.mu.Unlock()

	t.logger.Debug("entry added",
		logger.String("id", entry.ID),
		logger.String("type", entry.Type),
		logger.Int("ml", entry.Ml),
		logger.Float64("factor", entry.Factor))

	t.notify(snap, listeners)
	return entry, saveErr
}

// RemoveEntry deletes the entry with id. An unknown id is not an error;
// it reports false and leaves the state untouched.
func (t *Tracker) RemoveEntry(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	idx := -1
	for i, e := range t.state.Entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return false, nil
	}

	t.state.Entries = append(t.state.Entries[:idx], t.state.Entries[idx+1:]...)
	err := t.saveLocked(ctx)
	snap, listeners := t.snapshotLocked(true)
	t.mu.Unlock()

	t.notify(snap, listeners)
	return true, err
}

// SetGoal stores a new daily goal. It must be finite and at least 250 ml;
// the stored value is rounded to whole millilitres.
func (t *Tracker) SetGoal(ctx context.Context, goalMl float64) (int, error) {
	if !finite(goalMl) || goalMl < domain.MinGoalMl {
		return 0, fmt.Errorf("%w: %v", errs.ErrInvalidGoal, goalMl)
	}

	t.mu.Lock()
	t.state.GoalMl = domain.RoundHalfUp(goalMl)
	goal := t.state.GoalMl
	err := t.saveLocked(ctx)
	snap, listeners := t.snapshotLocked(true)
	t.mu.Unlock()

	t.notify(snap, listeners)
	return goal, err
}

// ResetDay clears today's entries unconditionally.
func (t *Tracker) ResetDay(ctx context.Context) error {
	t.mu.Lock()
	t.state.Entries = []domain.Entry{}
	t.state.DayKey = t.Today()
	err := t.saveLocked(ctx)
	snap, listeners := t.snapshotLocked(true)
	t.mu.Unlock()

	t.logger.Info("day reset manually", logger.String("day", snap.DayKey))
	t.notify(snap, listeners)
	return err
}

func (t *Tracker) saveLocked(ctx context.Context) error {
	if err := t.store.Save(ctx, t.state); err != nil {
		t.logger.Error("failed to persist state", logger.Error(err))
		return fmt.Errorf("%w: %w", errs.ErrPersist, err)
	}
	return nil
}

func (t *Tracker) snapshotLocked(changed bool) (domain.State, []Listener) {
	if !changed || len(t.listeners) == 0 {
		return domain.State{}, nil
	}
	listeners := make([]Listener, len(t.listeners))
	copy(listeners, t.listeners)
	return t.state.Clone(), listeners
}

func (t *Tracker) notify(snap domain.State, listeners []Listener) {
	for _, l := range listeners {
		l(snap)
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
