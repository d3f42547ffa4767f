/*
errors.go - Validation error taxonomy for the booking engine

PURPOSE:
  One sentinel error per validation kind, plus structured errors where a
  failure needs to carry context (which records overlap, which transition
  was attempted). Callers match with errors.Is / errors.As; the transport
  layer maps kinds to status codes via KindOf.

PROPAGATION:
  Every guard fails fast and synchronously. The facade stops at the
  first failing guard and returns its error unchanged: no aggregation,
  no internal retries, no downgrades. These are caller-input problems,
  not transient faults.

SEE ALSO:
  - validator.go: short-circuit ordering
  - api/handlers.go: kind-to-status-code mapping
*/
package booking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDurationExceeded is returned when a record's interval is empty,
	// inverted, or spans 24 hours or more.
	ErrDurationExceeded = errors.New("booking duration exceeds limits")

	// ErrInvalidPause is returned when the pause leaves zero or negative
	// net worked time.
	ErrInvalidPause = errors.New("pause consumes the whole interval")

	// ErrOverlapConflict is returned when a record's interval intersects
	// another record for the same project and employee.
	ErrOverlapConflict = errors.New("time record overlaps an existing entry")

	// ErrProjectLocked is returned when the target project is locked.
	ErrProjectLocked = errors.New("project is locked, no time record actions allowed")

	// ErrOutOfProjectRange is returned when the record's interval falls
	// outside the project's date range.
	ErrOutOfProjectRange = errors.New("time record is not within the project's date range")

	// ErrInvalidInitialState is returned when a new record's status is
	// neither EDITING nor READY_FOR_APPROVAL.
	ErrInvalidInitialState = errors.New("initial status must be EDITING or READY_FOR_APPROVAL")

	// ErrInvalidStateTransition is returned when a status change is not
	// permitted by the workflow transition table.
	ErrInvalidStateTransition = errors.New("invalid workflow state transition")

	// ErrImmutableFieldChanged is returned when a substantive field
	// changes while the record is not in EDITING status.
	ErrImmutableFieldChanged = errors.New("only an EDITING time record may change values")

	// ErrStatusPreventsDeletion is returned when deleting a BOOKED record.
	ErrStatusPreventsDeletion = errors.New("a BOOKED time record cannot be deleted")

	// ErrProjectNotFound is returned when the referenced project does not
	// exist in the authoritative store.
	ErrProjectNotFound = errors.New("project not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OverlapError names both records involved in an overlap conflict.
type OverlapError struct {
	Record   TimeRecord
	Existing TimeRecord
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s overlaps with existing entry: %s", e.Record, e.Existing)
}

func (e *OverlapError) Unwrap() error { return ErrOverlapConflict }

// TransitionError reports an illegal workflow transition.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: from [%s] to [%s]", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidStateTransition }

// InitialStateError reports an illegal status at record creation.
type InitialStateError struct {
	Status Status
}

func (e *InitialStateError) Error() string {
	return fmt.Sprintf("initial state must be EDITING or READY_FOR_APPROVAL, not [%s]", e.Status)
}

func (e *InitialStateError) Unwrap() error { return ErrInvalidInitialState }

// RangeError reports an interval outside the project's date range.
type RangeError struct {
	Record  TimeRecord
	Project Project
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s is not within project %s range [%s - %s]",
		e.Record, e.Project.ID,
		e.Project.StartDate.Format("2006-01-02"), e.Project.EndDate.Format("2006-01-02"))
}

func (e *RangeError) Unwrap() error { return ErrOutOfProjectRange }

// =============================================================================
// ERROR KINDS - Machine-readable classification for transport layers
// =============================================================================

// Kind is the machine-readable classification of a validation failure.
type Kind string

const (
	KindDurationExceeded       Kind = "DurationExceeded"
	KindInvalidPause           Kind = "InvalidPause"
	KindOverlapConflict        Kind = "OverlapConflict"
	KindProjectLocked          Kind = "ProjectLocked"
	KindOutOfProjectRange      Kind = "OutOfProjectRange"
	KindInvalidInitialState    Kind = "InvalidInitialState"
	KindInvalidStateTransition Kind = "InvalidStateTransition"
	KindImmutableFieldChanged  Kind = "ImmutableFieldChanged"
	KindStatusPreventsDeletion Kind = "StatusPreventsDeletion"
)

var kindOf = []struct {
	err  error
	kind Kind
}{
	{ErrDurationExceeded, KindDurationExceeded},
	{ErrInvalidPause, KindInvalidPause},
	{ErrOverlapConflict, KindOverlapConflict},
	{ErrProjectLocked, KindProjectLocked},
	{ErrOutOfProjectRange, KindOutOfProjectRange},
	{ErrInvalidInitialState, KindInvalidInitialState},
	{ErrInvalidStateTransition, KindInvalidStateTransition},
	{ErrImmutableFieldChanged, KindImmutableFieldChanged},
	{ErrStatusPreventsDeletion, KindStatusPreventsDeletion},
}

// KindOf returns the validation kind for err, or "" if err is not a
// validation failure from this package.
func KindOf(err error) Kind {
	for _, k := range kindOf {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

// IsValidationError reports whether err is one of the engine's
// validation failures (as opposed to a collaborator/storage fault).
func IsValidationError(err error) bool {
	return KindOf(err) != ""
}
