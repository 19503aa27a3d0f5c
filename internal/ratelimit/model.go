package ratelimit

import "time"

// Record is the per-user limiter row. Windows are resolved lazily on every
// check/record call; nothing sweeps these rows in the background.
type Record struct {
	UserID       string     `gorm:"primaryKey;type:varchar(36)"`
	MinuteCount  int        `gorm:"not null;default:0"`
	MinuteStart  time.Time  `json:"-"`
	DailyCount   int        `gorm:"not null;default:0"`
	DailyStart   time.Time  `json:"-"`
	BlockedUntil *time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

// Reasons a check can come back blocked.
const (
	ReasonBlocked     = "blocked"
	ReasonMinuteLimit = "minute_limit"
	ReasonDailyLimit  = "daily_limit"
)

// Decision is the outcome of a check. When Allowed is false the remaining
// fields tell the client why and for how long, so it can render a countdown.
type Decision struct {
	Allowed          bool      `json:"allowed"`
	Reason           string    `json:"reason,omitempty"`
	BlockedUntil     time.Time `json:"blockedUntil,omitempty"`
	RemainingSeconds int       `json:"remainingSeconds,omitempty"`
	Message          string    `json:"message,omitempty"`
}
