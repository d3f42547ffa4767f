/*
report.go - Worked-hours aggregation

PURPOSE:
  Turns a set of time records into a worked-hours summary, overall and
  per project. Quantities are exact decimal hours, never floats: a
  45-minute pause is 0.75 hours, not 0.7500000000000001.
*/
package tracker

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tempo/timetracker/booking"
)

var minutesPerHour = decimal.NewFromInt(60)

// hoursFromMinutes converts whole minutes to decimal hours.
func hoursFromMinutes(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(minutesPerHour)
}

// ProjectHours is the per-project slice of a Summary.
type ProjectHours struct {
	Project  booking.ProjectID
	Records  int
	NetHours decimal.Decimal
}

// Summary aggregates gross span, pause and net worked time over a set
// of records.
type Summary struct {
	Records    int
	GrossHours decimal.Decimal
	PauseHours decimal.Decimal
	NetHours   decimal.Decimal
	Projects   []ProjectHours
}

// Summarize computes the summary for records, with the per-project
// breakdown sorted by project id.
func Summarize(records []booking.TimeRecord) Summary {
	sum := Summary{
		Records:    len(records),
		GrossHours: decimal.Zero,
		PauseHours: decimal.Zero,
		NetHours:   decimal.Zero,
	}

	perProject := make(map[booking.ProjectID]*ProjectHours)
	for _, rec := range records {
		gross := int64(rec.Span().Minutes())
		pause := int64(rec.PauseMinutes)
		net := hoursFromMinutes(gross - pause)

		sum.GrossHours = sum.GrossHours.Add(hoursFromMinutes(gross))
		sum.PauseHours = sum.PauseHours.Add(hoursFromMinutes(pause))
		sum.NetHours = sum.NetHours.Add(net)

		ph, ok := perProject[rec.Project]
		if !ok {
			ph = &ProjectHours{Project: rec.Project, NetHours: decimal.Zero}
			perProject[rec.Project] = ph
		}
		ph.Records++
		ph.NetHours = ph.NetHours.Add(net)
	}

	for _, ph := range perProject {
		sum.Projects = append(sum.Projects, *ph)
	}
	sort.Slice(sum.Projects, func(i, j int) bool {
		return sum.Projects[i].Project < sum.Projects[j].Project
	})
	return sum
}
