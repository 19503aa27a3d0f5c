package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config holds the limiter numbers. DailyWindow is configurable in minutes
// for symmetry with the minute window; "daily" is a label, the window slides
// from DailyStart and is never calendar-aligned.
type Config struct {
	MinuteLimit   int
	DailyLimit    int
	BlockDuration time.Duration
	DailyWindow   time.Duration
}

// Limiter gates per-user chat actions against two independent counting
// windows with a cool-down once either is exceeded. State lives in the Store;
// expired windows are resolved lazily on every call, so there is no
// background sweeper to coordinate with.
//
// Concurrent Check+Record calls for one user are a read-modify-write race:
// two in-flight sends can each observe the pre-increment counter and both
// pass. The miscount is bounded by the number of concurrently in-flight
// requests (in practice one) and self-corrects on the next call; this is
// accepted rather than closed with row locks because the limiter must stay
// cheap and fail-open.
type Limiter struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewLimiter(store Store, cfg Config) *Limiter {
	return &Limiter{store: store, cfg: cfg, now: time.Now}
}

// resolve applies lazy window resets. Returns true if the record changed.
func (l *Limiter) resolve(rec *Record, now time.Time) bool {
	changed := false
	if !now.Before(rec.MinuteStart.Add(time.Minute)) {
		rec.MinuteCount = 0
		rec.MinuteStart = now
		changed = true
	}
	if !now.Before(rec.DailyStart.Add(l.cfg.DailyWindow)) {
		rec.DailyCount = 0
		rec.DailyStart = now
		changed = true
	}
	if rec.BlockedUntil != nil && !now.Before(*rec.BlockedUntil) {
		rec.BlockedUntil = nil
		changed = true
	}
	return changed
}

// Check resolves expired windows and reports whether the user may act now.
// Exceeding a window sets the block here, so repeat offenders see
// "blocked" until the cool-down lapses. If the store is unreachable the
// check fails open: chat availability does not depend on limiter storage.
func (l *Limiter) Check(ctx context.Context, userID string) Decision {
	now := l.now()

	rec, err := l.store.Get(ctx, userID)
	if err != nil {
		slog.Warn("Rate limit store unavailable, failing open", "userID", userID, "error", err)
		return Decision{Allowed: true}
	}

	changed := l.resolve(rec, now)

	var decision Decision
	switch {
	case rec.BlockedUntil != nil && now.Before(*rec.BlockedUntil):
		decision = l.blocked(ReasonBlocked, *rec.BlockedUntil, now)

	case rec.MinuteCount >= l.cfg.MinuteLimit:
		until := now.Add(l.cfg.BlockDuration)
		rec.BlockedUntil = &until
		changed = true
		decision = l.blocked(ReasonMinuteLimit, until, now)

	case rec.DailyCount >= l.cfg.DailyLimit:
		until := rec.DailyStart.Add(l.cfg.DailyWindow)
		rec.BlockedUntil = &until
		changed = true
		decision = l.blocked(ReasonDailyLimit, until, now)

	default:
		decision = Decision{Allowed: true}
	}

	if changed {
		if err := l.store.Save(ctx, rec); err != nil {
			slog.Warn("Failed to save rate limit record", "userID", userID, "error", err)
		}
	}

	return decision
}

// Record counts one allowed action against both windows. Call it for every
// action Check allowed, or the limiter under-counts.
func (l *Limiter) Record(ctx context.Context, userID string) {
	now := l.now()

	rec, err := l.store.Get(ctx, userID)
	if err != nil {
		slog.Warn("Rate limit store unavailable, skipping record", "userID", userID, "error", err)
		return
	}

	l.resolve(rec, now)
	rec.MinuteCount++
	rec.DailyCount++

	if err := l.store.Save(ctx, rec); err != nil {
		slog.Warn("Failed to save rate limit record", "userID", userID, "error", err)
	}
}

func (l *Limiter) blocked(reason string, until, now time.Time) Decision {
	remaining := int(until.Sub(now).Round(time.Second).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Reason:           reason,
		BlockedUntil:     until,
		RemainingSeconds: remaining,
		Message:          fmt.Sprintf("You are sending messages too fast. Try again in %d seconds.", remaining),
	}
}
