package tracker_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tempo/timetracker/booking"
	"github.com/tempo/timetracker/tracker"
)

func reportRecord(project booking.ProjectID, start time.Time, hours, pause int) booking.TimeRecord {
	return booking.TimeRecord{
		ID:           booking.RecordID(project) + "-" + booking.RecordID(start.Format("02-15")),
		Owner:        "emp-1",
		Project:      project,
		StartTime:    start,
		EndTime:      start.Add(time.Duration(hours) * time.Hour),
		PauseMinutes: pause,
		Status:       booking.StatusBooked,
	}
}

func TestSummarize(t *testing.T) {
	// GIVEN: Two records on proj-1 (8h/30min pause, 4h/0) and one on proj-2 (6h/45min)
	// WHEN: Summarizing
	// THEN: Exact decimal hours, per-project breakdown sorted by id

	day := time.Date(2015, time.April, 1, 9, 0, 0, 0, time.UTC)
	records := []booking.TimeRecord{
		reportRecord("proj-1", day, 8, 30),
		reportRecord("proj-1", day.AddDate(0, 0, 1), 4, 0),
		reportRecord("proj-2", day.AddDate(0, 0, 2), 6, 45),
	}

	sum := tracker.Summarize(records)

	assert.Equal(t, 3, sum.Records)
	assert.True(t, sum.GrossHours.Equal(decimal.RequireFromString("18")), "gross %s", sum.GrossHours)
	assert.True(t, sum.PauseHours.Equal(decimal.RequireFromString("1.25")), "pause %s", sum.PauseHours)
	assert.True(t, sum.NetHours.Equal(decimal.RequireFromString("16.75")), "net %s", sum.NetHours)

	assert.Len(t, sum.Projects, 2)
	assert.Equal(t, booking.ProjectID("proj-1"), sum.Projects[0].Project)
	assert.Equal(t, 2, sum.Projects[0].Records)
	assert.True(t, sum.Projects[0].NetHours.Equal(decimal.RequireFromString("11.5")), "proj-1 net %s", sum.Projects[0].NetHours)
	assert.Equal(t, booking.ProjectID("proj-2"), sum.Projects[1].Project)
	assert.True(t, sum.Projects[1].NetHours.Equal(decimal.RequireFromString("5.25")), "proj-2 net %s", sum.Projects[1].NetHours)
}

func TestSummarize_Empty(t *testing.T) {
	sum := tracker.Summarize(nil)
	assert.Equal(t, 0, sum.Records)
	assert.True(t, sum.NetHours.IsZero())
	assert.Empty(t, sum.Projects)
}
