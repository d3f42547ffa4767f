/*
workflow.go - Approval workflow state machine

PURPOSE:
  Validates status transitions and enforces which record fields are
  mutable in which status.

LIFECYCLE:

  EDITING ──▶ READY_FOR_APPROVAL ──▶ BOOKED (terminal)
     ▲              │
     │              ▼
     └─────────── REWORK

  A record is created in EDITING or READY_FOR_APPROVAL. The employee
  submits it for approval; a manager either books it or sends it back
  for rework; rework returns to editing. Once BOOKED a record is frozen:
  no outgoing transitions, no deletion.

TRANSITION TABLE:
  The table is an explicit mapping keyed by named states. Adding or
  reordering states cannot silently change legality the way an
  ordinal-indexed matrix would.

FIELD-CHANGE POLICY:
  Substantive fields (owner, project, times, pause) may only change
  while the incoming status is EDITING. Status-only changes are judged
  solely by the transition table.
*/
package booking

import "fmt"

// =============================================================================
// TRANSITION TABLE
// =============================================================================

// legalInitialStates are the only statuses a record may be created in.
var legalInitialStates = map[Status]bool{
	StatusEditing:          true,
	StatusReadyForApproval: true,
}

// workflowTransitions defines legality between any two states. Absent
// cells are illegal; an unknown status has no legal row or column.
// Self-transitions are legal everywhere except BOOKED, so saving a
// record without a status change passes through to the other guards.
var workflowTransitions = map[Status]map[Status]bool{
	StatusEditing: {
		StatusEditing:          true,
		StatusReadyForApproval: true,
	},
	StatusReadyForApproval: {
		StatusReadyForApproval: true,
		StatusEditing:          true, // withdraw before approval
		StatusRework:           true, // rejected by approver
		StatusBooked:           true, // approved
	},
	StatusRework: {
		StatusRework:           true,
		StatusEditing:          true,
		StatusReadyForApproval: true, // resubmit unchanged
	},
	StatusBooked: {}, // terminal
}

// =============================================================================
// WORKFLOW STATE MACHINE
// =============================================================================

// Workflow validates status transitions and the field-change policy.
// The zero value is ready to use; the table is fixed at compile time.
type Workflow struct{}

// IsLegalTransition reports whether from -> to is permitted.
func (Workflow) IsLegalTransition(from, to Status) bool {
	return workflowTransitions[from][to]
}

// CheckInitial validates the status of a record that is being created.
func (Workflow) CheckInitial(status Status) error {
	if !legalInitialStates[status] {
		return &InitialStateError{Status: status}
	}
	return nil
}

// CheckTransition validates a status change between two stored states.
func (w Workflow) CheckTransition(from, to Status) error {
	if !w.IsLegalTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// CheckFieldChanges compares all value fields of the stored record
// against the incoming record, excluding status (which must change for
// transitions). Any difference is only legal when the incoming status
// is EDITING.
func (Workflow) CheckFieldChanges(current, proposed TimeRecord) error {
	unchanged := current.Owner == proposed.Owner &&
		current.Project == proposed.Project &&
		current.StartTime.Equal(proposed.StartTime) &&
		current.EndTime.Equal(proposed.EndTime) &&
		current.PauseMinutes == proposed.PauseMinutes

	if !unchanged && proposed.Status != StatusEditing {
		return fmt.Errorf("%w: %s", ErrImmutableFieldChanged, current)
	}
	return nil
}
