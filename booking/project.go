package booking

import (
	"context"
	"fmt"
)

// =============================================================================
// PROJECT AVAILABILITY GUARD - Lock flag and project date range
// =============================================================================

// ProjectAvailabilityGuard rejects bookings against a locked project or
// outside the project's date range. It runs identically for create,
// update and delete.
type ProjectAvailabilityGuard struct {
	Projects ProjectLookup
}

// Check re-fetches the project by id from the authoritative store. The
// project embedded in a caller's view of the record is never trusted:
// another user may have locked the project or moved its date range
// since the caller loaded it.
func (g ProjectAvailabilityGuard) Check(ctx context.Context, rec TimeRecord) error {
	project, err := g.Projects.ProjectByID(ctx, rec.Project)
	if err != nil {
		return fmt.Errorf("failed to load project %s: %w", rec.Project, err)
	}
	if project == nil {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, rec.Project)
	}

	if project.Locked {
		return fmt.Errorf("%w: project %s", ErrProjectLocked, project.ID)
	}

	if rec.StartTime.Before(project.StartDate) || rec.EndTime.After(project.EndDate) {
		return &RangeError{Record: rec, Project: *project}
	}
	return nil
}
