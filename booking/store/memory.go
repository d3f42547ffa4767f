// Package store provides in-memory implementations of the engine's
// collaborator interfaces, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tempo/timetracker/booking"
)

// =============================================================================
// MEMORY STORE - In-memory IntervalStore + ProjectLookup
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	records  map[pairKey][]booking.TimeRecord
	byID     map[booking.RecordID]booking.TimeRecord
	projects map[booking.ProjectID]booking.Project
}

type pairKey struct {
	Project  booking.ProjectID
	Employee booking.EmployeeID
}

func NewMemory() *Memory {
	return &Memory{
		records:  make(map[pairKey][]booking.TimeRecord),
		byID:     make(map[booking.RecordID]booking.TimeRecord),
		projects: make(map[booking.ProjectID]booking.Project),
	}
}

// PutProject stores or replaces a project.
func (m *Memory) PutProject(p booking.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
}

// PutRecord stores or replaces a time record. No validation happens
// here; tests seed whatever state they need.
func (m *Memory) PutRecord(rec booking.TimeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byID[rec.ID]; ok {
		m.removeLocked(old)
	}
	m.byID[rec.ID] = rec

	k := pairKey{Project: rec.Project, Employee: rec.Owner}
	recs := append(m.records[k], rec)
	sort.Slice(recs, func(i, j int) bool { return recs[i].StartTime.Before(recs[j].StartTime) })
	m.records[k] = recs
}

// DeleteRecord removes a record by id, if present.
func (m *Memory) DeleteRecord(id booking.RecordID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byID[id]; ok {
		m.removeLocked(old)
		delete(m.byID, id)
	}
}

// Record returns a record by id.
func (m *Memory) Record(id booking.RecordID) (booking.TimeRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byID[id]
	return rec, ok
}

func (m *Memory) removeLocked(rec booking.TimeRecord) {
	k := pairKey{Project: rec.Project, Employee: rec.Owner}
	recs := m.records[k]
	for i := range recs {
		if recs[i].ID == rec.ID {
			m.records[k] = append(recs[:i:i], recs[i+1:]...)
			return
		}
	}
}

// FindOverlapping implements booking.IntervalStore. A record matches
// when its interval intersects [from, to].
func (m *Memory) FindOverlapping(_ context.Context, project booking.ProjectID, employee booking.EmployeeID, from, to time.Time) ([]booking.TimeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := pairKey{Project: project, Employee: employee}
	var result []booking.TimeRecord
	for _, rec := range m.records[k] {
		if rec.EndTime.Before(from) || rec.StartTime.After(to) {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

// ProjectByID implements booking.ProjectLookup.
func (m *Memory) ProjectByID(_ context.Context, id booking.ProjectID) (*booking.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
