package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/logger"
)

// DefaultMidnightSkew delays the check slightly past midnight so a timer
// firing a hair early still lands on the new day.
const DefaultMidnightSkew = 50 * time.Millisecond

// DayResetter is the part of the tracker the checker drives.
type DayResetter interface {
	ResetIfNeeded(ctx context.Context) (bool, error)
	Now() time.Time
}

// Timer is a pending one-shot timer.
type Timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) Timer

// MidnightChecker re-checks the day rollover just after every local
// midnight. It holds exactly one pending timer and re-arms only after the
// previous one fired, so checks never overlap.
type MidnightChecker struct {
	tracker DayResetter
	logger  logger.Logger
	skew    time.Duration
	onFire  func(changed bool)
	after   afterFunc

	mu      sync.Mutex
	ctx     context.Context
	timer   Timer
	next    time.Time
	stopped bool
}

// NewMidnightChecker creates a checker. onFire runs after every check with
// whether a rollover happened, and may be nil.
func NewMidnightChecker(tracker DayResetter, log logger.Logger, skew time.Duration, onFire func(changed bool)) *MidnightChecker {
	if skew <= 0 {
		skew = DefaultMidnightSkew
	}
	return &MidnightChecker{
		tracker: tracker,
		logger:  log,
		skew:    skew,
		onFire:  onFire,
		after: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
}

// Start arms the first timer. The checker stops on its own when ctx is done.
func (mc *MidnightChecker) Start(ctx context.Context) error {
	mc.mu.Lock()
	mc.ctx = ctx
	mc.mu.Unlock()

	mc.arm()

	go func() {
		<-ctx.Done()
		mc.Stop()
	}()
	return nil
}

// Stop cancels the pending timer. Safe to call more than once.
func (mc *MidnightChecker) Stop() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.stopped = true
	if mc.timer != nil {
		mc.timer.Stop()
		mc.timer = nil
	}
}

// Next returns when the pending check fires (zero when not armed).
func (mc *MidnightChecker) Next() time.Time {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.next
}

// Delay is the wait from now until just after the next local midnight.
func (mc *MidnightChecker) Delay(now time.Time) time.Duration {
	return domain.NextMidnight(now).Sub(now) + mc.skew
}

func (mc *MidnightChecker) arm() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.stopped || mc.ctx == nil || mc.ctx.Err() != nil {
		return
	}

	now := mc.tracker.Now()
	d := mc.Delay(now)
	mc.next = now.Add(d)
	mc.timer = mc.after(d, mc.fire)

	mc.logger.Debug("midnight check armed",
		logger.Duration("in", d),
		logger.Time("at", mc.next))
}

func (mc *MidnightChecker) fire() {
	mc.mu.Lock()
	if mc.stopped {
		mc.mu.Unlock()
		return
	}
	ctx := mc.ctx
	mc.timer = nil
	mc.mu.Unlock()

	changed, err := mc.tracker.ResetIfNeeded(ctx)
	if err != nil {
		mc.logger.Error("midnight rollover failed to persist", logger.Error(err))
	} else {
		mc.logger.Info("midnight check completed", logger.Bool("rolled_over", changed))
	}

	if mc.onFire != nil {
		mc.onFire(changed)
	}

	mc.arm()
}
