package linkbot

import (
	"context"
	"time"
)

// Delay is a closed range a randomized pause is drawn from.
type Delay struct {
	Min time.Duration
	Max time.Duration
}

// Common pauses between interactions.
var (
	DelayKeystroke = Delay{Min: 50 * time.Millisecond, Max: 200 * time.Millisecond}
	DelayClick     = Delay{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond}
	DelayAction    = Delay{Min: 1500 * time.Millisecond, Max: 2500 * time.Millisecond}
	DelayPageLoad  = Delay{Min: 2 * time.Second, Max: 4 * time.Second}
	DelayRecovery  = Delay{Min: 3 * time.Second, Max: 5 * time.Second}
	DelayRetry     = Delay{Min: 5 * time.Second, Max: 8 * time.Second}
	DelayLogin     = Delay{Min: 4 * time.Second, Max: 6 * time.Second}
)

// Pacer inserts human-like pauses between browser interactions.
type Pacer interface {
	// Pause blocks for a duration drawn from d, or until ctx is done.
	Pause(ctx context.Context, d Delay) error
}
