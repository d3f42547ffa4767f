package booking

import (
	"fmt"
	"time"
)

// =============================================================================
// DURATION GUARD - Span and net worked time limits
// =============================================================================

// maxSpan is the exclusive upper bound for a single booking. A record
// covering a full day or more is split by the user, never stored whole.
const maxSpan = 24 * time.Hour

// DurationGuard rejects bookings whose span or net worked time violates
// the fixed limits. It reports violations, it never clamps them.
type DurationGuard struct{}

// Check verifies that the interval is non-empty and ascending, spans
// strictly less than 24 hours, and leaves strictly positive worked time
// after the pause.
func (DurationGuard) Check(rec TimeRecord) error {
	if !rec.EndTime.After(rec.StartTime) {
		return fmt.Errorf("%w: %s ends at or before it starts", ErrDurationExceeded, rec)
	}
	if rec.Span() >= maxSpan {
		return fmt.Errorf("%w: %s spans more than 24 hours", ErrDurationExceeded, rec)
	}
	if rec.NetWorked() <= 0 {
		return fmt.Errorf("%w: %s with pause of %d minutes", ErrInvalidPause, rec, rec.PauseMinutes)
	}
	return nil
}
