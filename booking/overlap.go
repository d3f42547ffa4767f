package booking

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// OVERLAP GUARD - No two bookings for a pair may intersect
// =============================================================================

// overlapSearchWindow is the symmetric window around the candidate's
// start used to fetch neighbours. With the 24-hour span cap, any record
// that could intersect the candidate starts or ends within two days of
// the candidate's start.
const overlapSearchWindow = 2 * 24 * time.Hour

// OverlapGuard rejects bookings whose interval intersects another
// booking for the same (project, employee) pair. Touching endpoints
// (one record ends exactly when another starts) are allowed.
type OverlapGuard struct {
	Records IntervalStore
}

// Check fetches neighbouring records and scans them pairwise. The
// candidate itself is skipped by id so an update can be compared
// against its own stored row. The fetched set is bounded by the 4-day
// window, so the linear scan is fine; no interval tree needed.
func (g OverlapGuard) Check(ctx context.Context, rec TimeRecord) error {
	from := rec.StartTime.Add(-overlapSearchWindow)
	to := rec.StartTime.Add(overlapSearchWindow)

	neighbours, err := g.Records.FindOverlapping(ctx, rec.Project, rec.Owner, from, to)
	if err != nil {
		return fmt.Errorf("failed to load time records for overlap check: %w", err)
	}

	for _, other := range neighbours {
		switch {
		case other.ID == rec.ID:
			// update: skip the stored row of the candidate itself
		case !rec.EndTime.After(other.StartTime):
			// candidate ends at or before the other starts
		case !rec.StartTime.Before(other.EndTime):
			// candidate starts at or after the other ends
		default:
			return &OverlapError{Record: rec, Existing: other}
		}
	}
	return nil
}
