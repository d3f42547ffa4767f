package booking_test

import (
	"errors"
	"testing"
	"time"

	"github.com/tempo/timetracker/booking"
)

// =============================================================================
// TRANSITION TABLE TESTS
// =============================================================================

func TestWorkflow_TransitionTable(t *testing.T) {
	var w booking.Workflow

	cases := []struct {
		from, to booking.Status
		legal    bool
	}{
		// Pinned behaviour
		{booking.StatusRework, booking.StatusEditing, true},
		{booking.StatusEditing, booking.StatusRework, false},
		{booking.StatusBooked, booking.StatusBooked, false},

		// Submit / approve / reject path
		{booking.StatusEditing, booking.StatusReadyForApproval, true},
		{booking.StatusReadyForApproval, booking.StatusBooked, true},
		{booking.StatusReadyForApproval, booking.StatusRework, true},
		{booking.StatusReadyForApproval, booking.StatusEditing, true},
		{booking.StatusRework, booking.StatusReadyForApproval, true},

		// Self-loops: legal everywhere except BOOKED
		{booking.StatusEditing, booking.StatusEditing, true},
		{booking.StatusReadyForApproval, booking.StatusReadyForApproval, true},
		{booking.StatusRework, booking.StatusRework, true},

		// BOOKED is fully terminal
		{booking.StatusBooked, booking.StatusEditing, false},
		{booking.StatusBooked, booking.StatusReadyForApproval, false},
		{booking.StatusBooked, booking.StatusRework, false},

		// No shortcut into BOOKED
		{booking.StatusEditing, booking.StatusBooked, false},
		{booking.StatusRework, booking.StatusBooked, false},
	}

	for _, c := range cases {
		if got := w.IsLegalTransition(c.from, c.to); got != c.legal {
			t.Errorf("transition %s -> %s: got %v, want %v", c.from, c.to, got, c.legal)
		}
	}
}

func TestWorkflow_UnknownStatus_NeverLegal(t *testing.T) {
	var w booking.Workflow
	bogus := booking.Status("APPROVED")

	for _, s := range booking.Statuses() {
		if w.IsLegalTransition(bogus, s) {
			t.Errorf("unknown status should have no legal outgoing transition to %s", s)
		}
		if w.IsLegalTransition(s, bogus) {
			t.Errorf("unknown status should have no legal incoming transition from %s", s)
		}
	}

	if err := w.CheckInitial(bogus); !errors.Is(err, booking.ErrInvalidInitialState) {
		t.Errorf("unknown initial status: got %v, want ErrInvalidInitialState", err)
	}
}

func TestWorkflow_InitialStates(t *testing.T) {
	var w booking.Workflow

	if err := w.CheckInitial(booking.StatusEditing); err != nil {
		t.Errorf("EDITING should be a legal initial state: %v", err)
	}
	if err := w.CheckInitial(booking.StatusReadyForApproval); err != nil {
		t.Errorf("READY_FOR_APPROVAL should be a legal initial state: %v", err)
	}

	for _, s := range []booking.Status{booking.StatusRework, booking.StatusBooked} {
		err := w.CheckInitial(s)
		if !errors.Is(err, booking.ErrInvalidInitialState) {
			t.Errorf("initial state %s: got %v, want ErrInvalidInitialState", s, err)
		}
		var ise *booking.InitialStateError
		if !errors.As(err, &ise) || ise.Status != s {
			t.Errorf("initial state %s: error should carry the offending status", s)
		}
	}
}

// =============================================================================
// FIELD-CHANGE POLICY TESTS
// =============================================================================

func TestWorkflow_FieldChanges(t *testing.T) {
	var w booking.Workflow

	base := booking.TimeRecord{
		ID:           "rec-1",
		Owner:        "emp-1",
		Project:      "proj-1",
		StartTime:    time.Date(2015, time.April, 1, 9, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2015, time.April, 1, 17, 0, 0, 0, time.UTC),
		PauseMinutes: 30,
		Status:       booking.StatusReadyForApproval,
	}

	// Status-only change: judged by the transition table, not here.
	statusOnly := base
	statusOnly.Status = booking.StatusBooked
	if err := w.CheckFieldChanges(base, statusOnly); err != nil {
		t.Errorf("status-only change should pass the field policy: %v", err)
	}

	// Substantive change while not EDITING fails.
	moved := base
	moved.Project = "proj-2"
	if err := w.CheckFieldChanges(base, moved); !errors.Is(err, booking.ErrImmutableFieldChanged) {
		t.Errorf("project change in %s: got %v, want ErrImmutableFieldChanged", base.Status, err)
	}

	// The same change is fine when the incoming status is EDITING.
	editing := base
	editing.Status = booking.StatusEditing
	movedEditing := moved
	movedEditing.Status = booking.StatusEditing
	if err := w.CheckFieldChanges(editing, movedEditing); err != nil {
		t.Errorf("project change in EDITING should be allowed: %v", err)
	}

	// Equal instants in different zones are not a field change.
	zoned := base
	zoned.StartTime = base.StartTime.In(time.FixedZone("CET", 3600))
	if err := w.CheckFieldChanges(base, zoned); err != nil {
		t.Errorf("same instant in another zone should not count as a change: %v", err)
	}
}
