// Package services contains the application services of the auth core: the
// failed-login attempt tracker and the session manager.
package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fgodoybr/frotacontrol/internal/clockx"
	"github.com/fgodoybr/frotacontrol/internal/client/config"
	"github.com/fgodoybr/frotacontrol/internal/client/repositories/state"
	"github.com/fgodoybr/frotacontrol/internal/common"
	"github.com/fgodoybr/frotacontrol/internal/logging"
)

// attemptRecord mirrors one entry of the persisted attempt table.
type attemptRecord struct {
	Count     int        `json:"count"`
	Last      time.Time  `json:"last"`
	LockUntil *time.Time `json:"lockUntil,omitempty"`
}

// AttemptTracker counts consecutive login failures per normalized login name
// and enforces the lockout policy: failures accumulate within a sliding
// window; reaching the limit locks the name for the lockout duration; a
// success deletes the record.
//
// The whole table is persisted to local state after every mutation. This is
// a soft, client-local defense against repeated guessing; it makes no claim
// against a distributed attacker, since the state lives only on this client.
type AttemptTracker struct {
	state  state.Repository
	clock  clockx.Clock
	logger logging.Logger

	maxAttempts  int
	window       time.Duration
	lockDuration time.Duration

	mu sync.Mutex
}

func NewAttemptTracker(st state.Repository, clock clockx.Clock, logger logging.Logger, cfg *config.Config) *AttemptTracker {
	return &AttemptTracker{
		state:        st,
		clock:        clock,
		logger:       logger,
		maxAttempts:  cfg.MaxAttempts,
		window:       cfg.AttemptWindow,
		lockDuration: cfg.LockoutDuration,
	}
}

// CheckLocked reports whether a lockout is active for key at the current
// time. An expired lock reads as unlocked; the record itself is cleaned up
// by the next failure (window restart) or success (deletion).
func (t *AttemptTracker) CheckLocked(ctx context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.load(ctx)[key]
	if !ok || rec.LockUntil == nil {
		return false
	}
	return t.clock.Now().Before(*rec.LockUntil)
}

// FailureCount returns the number of failures key has accumulated in the
// current window, zero when the last failure is older than the window.
func (t *AttemptTracker) FailureCount(ctx context.Context, key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.load(ctx)[key]
	if !ok || t.clock.Now().Sub(rec.Last) > t.window {
		return 0
	}
	return rec.Count
}

// RecordFailure increments the counter for key, restarting at 1 when the
// previous failure fell outside the window, and sets the lockout deadline
// when the limit is reached. The table is persisted before returning.
func (t *AttemptTracker) RecordFailure(ctx context.Context, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	table := t.load(ctx)
	now := t.clock.Now()

	prev, ok := table[key]
	count := 1
	var lockUntil *time.Time
	if ok && now.Sub(prev.Last) <= t.window {
		count = prev.Count + 1
		lockUntil = prev.LockUntil
	}
	if count >= t.maxAttempts {
		until := now.Add(t.lockDuration)
		lockUntil = &until
		t.logger.Warn(ctx, "login locked out", "user", key, "failures", count, "until", until)
	}

	table[key] = attemptRecord{Count: count, Last: now, LockUntil: lockUntil}
	t.save(ctx, table)
}

// RecordSuccess deletes any record for key and persists the table.
func (t *AttemptTracker) RecordSuccess(ctx context.Context, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	table := t.load(ctx)
	if _, ok := table[key]; !ok {
		return
	}
	delete(table, key)
	t.save(ctx, table)
}

// load reads the whole attempt table. A missing value yields an empty table;
// a corrupt one is discarded and restarted empty, never a login denial by
// itself.
func (t *AttemptTracker) load(ctx context.Context) map[string]attemptRecord {
	table := make(map[string]attemptRecord)

	raw, err := t.state.Get(ctx, common.AttemptsStateKey)
	if err != nil {
		t.logger.Error(ctx, "failed to read attempt table", "error", err)
		return table
	}
	if raw == nil {
		return table
	}
	if err := json.Unmarshal(raw, &table); err != nil {
		t.logger.Warn(ctx, "discarding corrupt attempt table", "error", err)
		return make(map[string]attemptRecord)
	}
	return table
}

func (t *AttemptTracker) save(ctx context.Context, table map[string]attemptRecord) {
	raw, err := json.Marshal(table)
	if err != nil {
		t.logger.Error(ctx, "failed to serialize attempt table", "error", err)
		return
	}
	if err := t.state.Set(ctx, common.AttemptsStateKey, raw); err != nil {
		t.logger.Error(ctx, "failed to persist attempt table", "error", err)
	}
}
