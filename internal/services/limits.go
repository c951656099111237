package services

import "time"

// Limits are the tunable windows and page sizes used by the services.
type Limits struct {
	OnlineWindow      time.Duration // trailing window for "online" drivers
	HistoryLimit      int
	RecentLimit       int
	VerificationLimit int
	MaxPageSize       int
}

// DefaultLimits returns 1h / 50 / 100 / 10 with a 500 row ceiling.
func DefaultLimits() Limits {
	return Limits{
		OnlineWindow:      time.Hour,
		HistoryLimit:      50,
		RecentLimit:       100,
		VerificationLimit: 10,
		MaxPageSize:       500,
	}
}

// page resolves a requested page size: non-positive means the default,
// anything above the ceiling is clamped.
func (l Limits) page(requested, def int) int {
	if requested <= 0 {
		requested = def
	}
	if l.MaxPageSize > 0 && requested > l.MaxPageSize {
		return l.MaxPageSize
	}
	return requested
}
