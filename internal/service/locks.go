package service

import "sync"

// tournamentLocks serializes ingestion and scoring per tournament.
// Two timer-triggered cycles for the same tournament would otherwise
// interleave their delete-then-insert phases.
type tournamentLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newTournamentLocks() *tournamentLocks {
	return &tournamentLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire blocks until the tournament's lock is held and returns the
// release func.
func (tl *tournamentLocks) acquire(tournamentID int64) func() {
	tl.mu.Lock()
	lock, ok := tl.locks[tournamentID]
	if !ok {
		lock = &sync.Mutex{}
		tl.locks[tournamentID] = lock
	}
	tl.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
