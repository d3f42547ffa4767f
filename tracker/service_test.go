package tracker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempo/timetracker/booking"
	"github.com/tempo/timetracker/store/sqlite"
	"github.com/tempo/timetracker/tracker"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*tracker.TimeRecordService, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, sqlite.Employee{ID: "emp-1", Name: "Pat Example"}))
	require.NoError(t, store.SaveProject(ctx, booking.Project{
		ID:        "proj-1",
		Owner:     "mgr-1",
		StartDate: time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
	}))

	return tracker.NewTimeRecordService(store, store), store
}

func workday(day, hour int) time.Time {
	return time.Date(2015, time.April, day, hour, 0, 0, 0, time.UTC)
}

func newRecord(start, end time.Time, pause int, status booking.Status) booking.TimeRecord {
	return booking.TimeRecord{
		Owner:        "emp-1",
		Project:      "proj-1",
		StartTime:    start,
		EndTime:      end,
		PauseMinutes: pause,
		Status:       status,
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestService_ApprovalLifecycle(t *testing.T) {
	// GIVEN: A fresh EDITING record
	// WHEN: Walking submit -> rework -> edit -> submit -> book
	// THEN: Every step persists; the BOOKED record can no longer change or die

	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, newRecord(workday(1, 9), workday(1, 17), 30, booking.StatusEditing))
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID, "create assigns an id")

	// Submit for approval.
	rec.Status = booking.StatusReadyForApproval
	rec, err = svc.Update(ctx, rec)
	require.NoError(t, err)

	// Approver sends it back.
	rec.Status = booking.StatusRework
	rec, err = svc.Update(ctx, rec)
	require.NoError(t, err)

	// Employee reworks and resubmits.
	rec.Status = booking.StatusEditing
	rec, err = svc.Update(ctx, rec)
	require.NoError(t, err)
	rec.PauseMinutes = 45
	rec, err = svc.Update(ctx, rec)
	require.NoError(t, err, "field change in EDITING is allowed")
	rec.Status = booking.StatusReadyForApproval
	rec, err = svc.Update(ctx, rec)
	require.NoError(t, err)

	// Approver books it.
	rec.Status = booking.StatusBooked
	rec, err = svc.Update(ctx, rec)
	require.NoError(t, err)

	// Booked means frozen.
	frozen := rec
	frozen.Status = booking.StatusEditing
	_, err = svc.Update(ctx, frozen)
	assert.ErrorIs(t, err, booking.ErrInvalidStateTransition)

	_, err = svc.Delete(ctx, rec.ID)
	assert.ErrorIs(t, err, booking.ErrStatusPreventsDeletion)

	stored, err := svc.Record(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, booking.StatusBooked, stored.Status)
}

func TestService_Create_RejectedRecordNotPersisted(t *testing.T) {
	// GIVEN: An existing 09:00-17:00 record
	// WHEN: Creating an overlapping record
	// THEN: The create fails and nothing new is stored

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newRecord(workday(1, 9), workday(1, 17), 30, booking.StatusEditing))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newRecord(workday(1, 10), workday(1, 14), 0, booking.StatusEditing))
	assert.ErrorIs(t, err, booking.ErrOverlapConflict)

	records, err := svc.Find(ctx, tracker.RecordSearch{Employee: "emp-1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestService_Update_UnknownRecord(t *testing.T) {
	svc, _ := newTestService(t)

	rec := newRecord(workday(1, 9), workday(1, 17), 0, booking.StatusEditing)
	rec.ID = "no-such-record"
	_, err := svc.Update(context.Background(), rec)
	assert.ErrorIs(t, err, tracker.ErrRecordNotFound)
}

func TestService_Delete_UnknownRecord_NoOp(t *testing.T) {
	svc, _ := newTestService(t)

	deleted, err := svc.Delete(context.Background(), "no-such-record")
	assert.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestService_Delete_ReturnsDeletedRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, newRecord(workday(1, 9), workday(1, 17), 30, booking.StatusEditing))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, rec.ID, deleted.ID)

	stored, err := svc.Record(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestService_LockedProject_BlocksEverything(t *testing.T) {
	// GIVEN: A stored record, then the project gets locked by an admin
	// WHEN: Updating or deleting the record
	// THEN: Both fail; the service sees the canonical lock state

	svc, store := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, newRecord(workday(1, 9), workday(1, 17), 30, booking.StatusEditing))
	require.NoError(t, err)

	p, err := store.ProjectByID(ctx, "proj-1")
	require.NoError(t, err)
	p.Locked = true
	require.NoError(t, store.SaveProject(ctx, *p))

	rec.Status = booking.StatusReadyForApproval
	_, err = svc.Update(ctx, rec)
	assert.ErrorIs(t, err, booking.ErrProjectLocked)

	_, err = svc.Delete(ctx, rec.ID)
	assert.ErrorIs(t, err, booking.ErrProjectLocked)
}

// =============================================================================
// SEARCH TESTS
// =============================================================================

func TestService_Find_Filters(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProject(ctx, booking.Project{
		ID:        "proj-2",
		Owner:     "mgr-1",
		StartDate: time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}))

	mk := func(project booking.ProjectID, day int) {
		rec := newRecord(workday(day, 9), workday(day, 17), 0, booking.StatusEditing)
		rec.Project = project
		_, err := svc.Create(ctx, rec)
		require.NoError(t, err)
	}
	mk("proj-1", 1)
	mk("proj-1", 2)
	mk("proj-2", 3)

	all, err := svc.Find(ctx, tracker.RecordSearch{})
	require.NoError(t, err)
	assert.Len(t, all, 3, "empty search returns everything")

	byProject, err := svc.Find(ctx, tracker.RecordSearch{Project: "proj-2"})
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	windowed, err := svc.Find(ctx, tracker.RecordSearch{
		From:    workday(2, 0),
		Through: workday(2, 23),
	})
	require.NoError(t, err)
	assert.Len(t, windowed, 1)

	_, err = svc.Find(ctx, tracker.RecordSearch{
		From:    workday(3, 0),
		Through: workday(1, 0),
	})
	assert.ErrorIs(t, err, tracker.ErrInvalidSearchRange)
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestService_ConcurrentOverlappingCreates_OnlyOneWins(t *testing.T) {
	// GIVEN: Two goroutines creating overlapping records for one pair
	// WHEN: Both run through validate + persist concurrently
	// THEN: The advisory lock serializes them; exactly one is stored

	svc, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, newRecord(workday(1, 9), workday(1, 17), 0, booking.StatusEditing))
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, booking.ErrOverlapConflict)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one create must lose")

	records, err := svc.Find(ctx, tracker.RecordSearch{Employee: "emp-1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
