package notes

import (
	"sync"

	"github.com/clearchart/notevault/core"
)

type lockKey struct {
	tenant core.TenantID
	note   core.ID
}

// lockTable hands out one mutex per note so concurrent edits to the same
// note serialize instead of racing to an edit conflict. Entries are
// reference counted and dropped when the last holder releases.
type lockTable struct {
	mu      sync.Mutex
	entries map[lockKey]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[lockKey]*lockEntry)}
}

// acquire blocks until the caller holds the note's lock.
func (t *lockTable) acquire(tenant core.TenantID, note core.ID) {
	key := lockKey{tenant: tenant, note: note}

	t.mu.Lock()
	entry, ok := t.entries[key]
	if !ok {
		entry = &lockEntry{}
		t.entries[key] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()
}

// release unlocks the note's lock and removes the entry once unused.
func (t *lockTable) release(tenant core.TenantID, note core.ID) {
	key := lockKey{tenant: tenant, note: note}

	t.mu.Lock()
	entry := t.entries[key]
	entry.refs--
	if entry.refs == 0 {
		delete(t.entries, key)
	}
	t.mu.Unlock()

	entry.mu.Unlock()
}
