/*
Package tracker provides the time-record service on top of the booking engine.

PURPOSE:
  The persistence-facing service layer. Every mutation goes through the
  same sequence: acquire the per-(project, employee) advisory lock, run
  the booking validator, then persist. Reads (single record, search,
  worked-hours report) go straight to the store.

WHY THE ADVISORY LOCK:
  The overlap check is read-then-decide: the validator reads neighbours
  and decides, the service writes afterwards. Two concurrent creates
  for the same pair could each pass validation and still collide at
  commit. Holding a lock keyed by (project id, employee id) across
  validation + write serializes exactly the conflicting requests and
  nothing else.

KEY COMPONENTS:
  TimeRecordService: Create / Record / Update / Delete / Find / WorkedHours
  RecordSearch:      optional employee/project/time-window filter
  Summary:           worked-hours aggregation (report.go)

SEE ALSO:
  - booking/validator.go: the decision logic this service defers to
  - store/sqlite/sqlite.go: the production RecordStore
*/
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/tempo/timetracker/booking"
)

// ErrRecordNotFound is returned when updating a time record that does
// not exist. Deleting an unknown record is a no-op instead.
var ErrRecordNotFound = errors.New("time record not found")

// =============================================================================
// STORE INTERFACE
// =============================================================================

// RecordStore is the persistence the service needs for time records.
// It includes the engine's IntervalStore so one store serves both the
// service and the validator.
type RecordStore interface {
	booking.IntervalStore

	InsertRecord(ctx context.Context, rec booking.TimeRecord) error
	UpdateRecord(ctx context.Context, rec booking.TimeRecord) error
	DeleteRecord(ctx context.Context, id booking.RecordID) error

	// RecordByID returns the record or (nil, nil) when it does not exist.
	RecordByID(ctx context.Context, id booking.RecordID) (*booking.TimeRecord, error)
	FindRecords(ctx context.Context, search RecordSearch) ([]booking.TimeRecord, error)
}

// =============================================================================
// TIME RECORD SERVICE
// =============================================================================

type TimeRecordService struct {
	records   RecordStore
	validator *booking.Validator
	locks     pairLocks
}

func NewTimeRecordService(records RecordStore, projects booking.ProjectLookup) *TimeRecordService {
	return &TimeRecordService{
		records:   records,
		validator: booking.NewValidator(records, projects),
	}
}

// Create validates and persists a new time record. An empty id is
// assigned; a caller-supplied id is kept (idempotent retries).
func (s *TimeRecordService) Create(ctx context.Context, rec booking.TimeRecord) (booking.TimeRecord, error) {
	if rec.ID == "" {
		rec.ID = booking.RecordID(uuid.NewString())
	}

	unlock := s.locks.lock(rec.Project, rec.Owner)
	defer unlock()

	if err := s.validator.ValidateCreate(ctx, rec); err != nil {
		log.Printf("create rejected: %v", err)
		return booking.TimeRecord{}, err
	}
	if err := s.records.InsertRecord(ctx, rec); err != nil {
		return booking.TimeRecord{}, fmt.Errorf("failed to insert time record: %w", err)
	}
	return rec, nil
}

// Record returns a time record by id, or (nil, nil) when absent.
func (s *TimeRecordService) Record(ctx context.Context, id booking.RecordID) (*booking.TimeRecord, error) {
	return s.records.RecordByID(ctx, id)
}

// Update validates and persists changes to an existing record. The
// stored row is always re-read; the caller's copy of the previous state
// is not trusted.
func (s *TimeRecordService) Update(ctx context.Context, rec booking.TimeRecord) (booking.TimeRecord, error) {
	current, err := s.records.RecordByID(ctx, rec.ID)
	if err != nil {
		return booking.TimeRecord{}, fmt.Errorf("failed to load time record %s: %w", rec.ID, err)
	}
	if current == nil {
		return booking.TimeRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, rec.ID)
	}

	// Lock both pairs: a record moving to another project/employee must
	// be serialized against writers on either side.
	unlock := s.locks.lockPairs(
		pair{current.Project, current.Owner},
		pair{rec.Project, rec.Owner},
	)
	defer unlock()

	if err := s.validator.ValidateUpdate(ctx, *current, rec); err != nil {
		log.Printf("update rejected: %v", err)
		return booking.TimeRecord{}, err
	}
	if err := s.records.UpdateRecord(ctx, rec); err != nil {
		return booking.TimeRecord{}, fmt.Errorf("failed to update time record: %w", err)
	}
	return rec, nil
}

// Delete removes a record and returns it. Deleting an id that does not
// exist returns (nil, nil).
func (s *TimeRecordService) Delete(ctx context.Context, id booking.RecordID) (*booking.TimeRecord, error) {
	current, err := s.records.RecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load time record %s: %w", id, err)
	}
	if current == nil {
		return nil, nil
	}

	unlock := s.locks.lock(current.Project, current.Owner)
	defer unlock()

	if err := s.validator.ValidateDelete(ctx, *current); err != nil {
		log.Printf("delete rejected: %v", err)
		return nil, err
	}
	if err := s.records.DeleteRecord(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete time record: %w", err)
	}
	return current, nil
}

// Find returns records matching the search pattern. Any combination of
// filter values may be set, including none at all.
func (s *TimeRecordService) Find(ctx context.Context, search RecordSearch) ([]booking.TimeRecord, error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}
	return s.records.FindRecords(ctx, search)
}

// WorkedHours aggregates the matching records into a worked-hours
// summary (see report.go).
func (s *TimeRecordService) WorkedHours(ctx context.Context, search RecordSearch) (Summary, error) {
	records, err := s.Find(ctx, search)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}
