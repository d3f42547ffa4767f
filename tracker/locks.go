package tracker

import (
	"sort"
	"sync"

	"github.com/tempo/timetracker/booking"
)

// =============================================================================
// PAIR LOCKS - Advisory locks keyed by (project, employee)
// =============================================================================

type pair struct {
	Project  booking.ProjectID
	Employee booking.EmployeeID
}

func (p pair) key() string { return string(p.Project) + "\x00" + string(p.Employee) }

// pairLocks hands out one mutex per (project, employee) pair. Locks are
// never released from the map; the pair population is bounded by the
// active projects and employees.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (pl *pairLocks) get(k string) *sync.Mutex {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.locks == nil {
		pl.locks = make(map[string]*sync.Mutex)
	}
	m, ok := pl.locks[k]
	if !ok {
		m = &sync.Mutex{}
		pl.locks[k] = m
	}
	return m
}

// lock acquires the lock for one pair and returns the unlock func.
func (pl *pairLocks) lock(project booking.ProjectID, employee booking.EmployeeID) func() {
	return pl.lockPairs(pair{project, employee})
}

// lockPairs acquires locks for all distinct pairs in a fixed global
// order, so two updates moving records between the same pairs cannot
// deadlock against each other.
func (pl *pairLocks) lockPairs(pairs ...pair) func() {
	keys := make([]string, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		k := p.key()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	locked := make([]*sync.Mutex, 0, len(keys))
	for _, k := range keys {
		m := pl.get(k)
		m.Lock()
		locked = append(locked, m)
	}
	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}
