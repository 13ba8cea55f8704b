package domain

import (
	"context"
	"time"
)

// Colorization is one recorded colorization attempt.
type Colorization struct {
	ID        string
	SessionID string
	Provider  string
	Prompt    string
	Outcome   string
	Error     string
	ElapsedMS int64
	CreatedAt time.Time
}

// Outcome values recorded for colorization attempts.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// HistoryRepository persists colorization attempts for auditing. The
// service runs fully without one; wiring is nil-safe at the handler level.
type HistoryRepository interface {
	Record(ctx context.Context, attempt *Colorization) error
	Recent(ctx context.Context, limit int) ([]Colorization, error)
}
