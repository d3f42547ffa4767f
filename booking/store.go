/*
store.go - Read-only collaborator interfaces consumed by the engine

PURPOSE:
  The engine is a pure decision layer: it reads through these two
  interfaces and never writes. The caller owns the transaction and
  performs the actual persistence mutation only after validation
  succeeds.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: production store
  - booking/store/memory.go: in-memory store for tests

STALENESS:
  ProjectByID must return the current persisted project state. The
  engine deliberately re-reads it on every validation rather than
  caching, so a project locked by an administrator a moment ago is seen
  even when the caller still holds an unlocked snapshot.
*/
package booking

import (
	"context"
	"time"
)

// IntervalStore returns existing time records for a (project, employee)
// pair whose interval intersects the [from, to] window.
type IntervalStore interface {
	FindOverlapping(ctx context.Context, project ProjectID, employee EmployeeID, from, to time.Time) ([]TimeRecord, error)
}

// ProjectLookup resolves the authoritative, latest state of a project.
type ProjectLookup interface {
	// ProjectByID returns the project or (nil, nil) when it does not exist.
	ProjectByID(ctx context.Context, id ProjectID) (*Project, error)
}
