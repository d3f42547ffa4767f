/*
Package booking provides the time-booking validation and workflow engine.

PURPOSE:
  Every create, update and delete of a time record passes through this
  package before the persistence layer is allowed to touch the database.
  The engine decides; the caller persists. It guards four invariants:

  1. Duration:     a booking spans less than 24 hours and the pause
                   never consumes the whole interval.
  2. Overlap:      no two records for the same (project, employee) pair
                   share any point in time (touching endpoints are fine).
  3. Availability: no booking against a locked project or outside the
                   project's date range.
  4. Workflow:     status changes follow the approval state machine, and
                   only EDITING records may change substantive fields.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeRecord: one booked interval of work for one employee on a project
  - Project:    read-only reference data (lock flag, date range)
  - Status:     the approval-lifecycle state of a record

COLLABORATORS:
  The engine performs no writes. It reads through two interfaces
  (store.go): IntervalStore for neighbouring records and ProjectLookup
  for the canonical project state. Both are implemented by the sqlite
  store and, for tests, by booking/store.Memory.

SEE ALSO:
  - validator.go: the facade the rest of the system calls
  - workflow.go:  the transition table and field-change policy
  - errors.go:    the validation error taxonomy
*/
package booking

import (
	"fmt"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RecordID string
type EmployeeID string
type ProjectID string

// =============================================================================
// STATUS - Approval-lifecycle state of a time record
// =============================================================================

type Status string

const (
	StatusEditing          Status = "EDITING"
	StatusReadyForApproval Status = "READY_FOR_APPROVAL"
	StatusRework           Status = "REWORK"
	StatusBooked           Status = "BOOKED"
)

// Statuses returns the closed set of workflow states.
func Statuses() []Status {
	return []Status{StatusEditing, StatusReadyForApproval, StatusRework, StatusBooked}
}

// Known reports whether s is a member of the closed status set.
func (s Status) Known() bool {
	switch s {
	case StatusEditing, StatusReadyForApproval, StatusRework, StatusBooked:
		return true
	}
	return false
}

// =============================================================================
// TIME RECORD
// =============================================================================

// TimeRecord is one booked interval of work. StartTime and EndTime carry
// their timezone; all comparisons go through time.Time, so two records in
// different zones compare by instant.
type TimeRecord struct {
	ID           RecordID
	Owner        EmployeeID
	Project      ProjectID
	StartTime    time.Time
	EndTime      time.Time
	PauseMinutes int
	Status       Status
}

// Span returns the gross interval length, EndTime - StartTime.
func (r TimeRecord) Span() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// NetWorked returns the worked time after subtracting the pause.
func (r TimeRecord) NetWorked() time.Duration {
	return r.Span() - time.Duration(r.PauseMinutes)*time.Minute
}

func (r TimeRecord) String() string {
	return fmt.Sprintf("record %s (%s/%s %s - %s, %s)",
		r.ID, r.Project, r.Owner,
		r.StartTime.Format(time.RFC3339), r.EndTime.Format(time.RFC3339),
		r.Status)
}

// =============================================================================
// PROJECT - Referenced read-only by the engine
// =============================================================================

// Project is the authoritative project state as the store sees it.
// The engine always re-reads this through ProjectLookup instead of
// trusting a copy embedded in a caller's record; in a multi-user setup
// the caller's snapshot of the lock flag may be stale.
type Project struct {
	ID        ProjectID
	Owner     EmployeeID
	Locked    bool
	StartDate time.Time
	EndDate   time.Time
}
