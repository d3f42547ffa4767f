package booking

import "fmt"

// =============================================================================
// DELETION GUARD - BOOKED records are permanent
// =============================================================================

// DeletionGuard rejects deletion of records in the terminal BOOKED
// status. Everything else may be deleted, subject to the project
// availability check run by the facade.
type DeletionGuard struct{}

func (DeletionGuard) Check(rec TimeRecord) error {
	if rec.Status == StatusBooked {
		return fmt.Errorf("%w: %s", ErrStatusPreventsDeletion, rec)
	}
	return nil
}
