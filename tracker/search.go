package tracker

import (
	"errors"
	"time"

	"github.com/tempo/timetracker/booking"
)

// ErrInvalidSearchRange is returned when a search window ends before it
// starts.
var ErrInvalidSearchRange = errors.New("invalid search range: through before from")

// RecordSearch is an optional filter for time-record queries. Zero
// values mean "unset"; any combination may be used, even none.
type RecordSearch struct {
	Employee booking.EmployeeID
	Project  booking.ProjectID
	From     time.Time // matches records with StartTime >= From
	Through  time.Time // matches records with EndTime <= Through
}

func (s RecordSearch) HasEmployee() bool { return s.Employee != "" }
func (s RecordSearch) HasProject() bool  { return s.Project != "" }
func (s RecordSearch) HasFrom() bool     { return !s.From.IsZero() }
func (s RecordSearch) HasThrough() bool  { return !s.Through.IsZero() }

// Validate rejects a window whose end precedes its start. Individual
// bounds may be set on their own.
func (s RecordSearch) Validate() error {
	if s.HasFrom() && s.HasThrough() && s.Through.Before(s.From) {
		return ErrInvalidSearchRange
	}
	return nil
}

// Matches reports whether rec passes every set filter. Store
// implementations may use this directly or translate the filters to SQL.
func (s RecordSearch) Matches(rec booking.TimeRecord) bool {
	if s.HasEmployee() && rec.Owner != s.Employee {
		return false
	}
	if s.HasProject() && rec.Project != s.Project {
		return false
	}
	if s.HasFrom() && rec.StartTime.Before(s.From) {
		return false
	}
	if s.HasThrough() && rec.EndTime.After(s.Through) {
		return false
	}
	return true
}
