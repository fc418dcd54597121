// Package resmgr implements the resource manager (spec.md §2 C4): it
// tracks non-overlapping queue-id ranges handed out per function and the
// active-queue counters per direction that invariant #2 depends on.
package resmgr

import (
	"sync"

	"github.com/google/btree"

	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/sys"
)

// qrange is one allocated, contiguous queue-id range bound to a function
// (§3 "Queue-id range"). Ranges are ordered and compared by Base; the
// overlap check walks, in base order, every range that starts before
// base+count.
type qrange struct {
	base   uint16
	count  uint16
	funcID uint16
}

func (r qrange) end() uint16 { return r.base + r.count }

func rangeLess(a, b qrange) bool { return a.base < b.base }

// FuncKey identifies one function's resource table (§4.4
// "dma_device_index, func_id").
type FuncKey struct {
	DeviceIndex uint32
	FuncID      uint16
}

// funcEntry is one function's resource-manager row: its queue range and
// its per-direction active-queue counters (§3 "Active-queue counter").
type funcEntry struct {
	rng    qrange
	active [3]uint32 // indexed by sys.QType
}

// Manager owns the process-wide resource table (§4.4 "Resource lock"
// serializes every method below).
type Manager struct {
	mu        sync.Mutex
	tree      *btree.BTreeG[qrange]
	entries   map[FuncKey]*funcEntry
	maxQueues uint16 // device-wide free-pool bound for Allocate; 0 means the full 16-bit qid space
}

// Option configures a Manager.
type Option func(*Manager)

// WithCapacity bounds the device-wide free pool Allocate draws from to
// [0, maxQueues) (§4.4 "the device-wide free pool"). Without it, Allocate
// treats the entire 16-bit qid space as available.
func WithCapacity(maxQueues uint16) Option {
	return func(m *Manager) { m.maxQueues = maxQueues }
}

// New constructs an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		tree:    btree.NewG(32, rangeLess),
		entries: make(map[FuncKey]*funcEntry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// poolEnd is the exclusive upper bound of the device-wide free pool.
func (m *Manager) poolEnd() uint32 {
	if m.maxQueues == 0 {
		return uint32(1) << 16
	}
	return uint32(m.maxQueues)
}

// CreateEntry allocates a fresh, non-overlapping [base, base+count) range
// to key (§4.4 "create_entry"). Returns Err(ResourceExists) if key
// already has an entry, and a range-overlap error if the requested range
// collides with any existing allocation.
func (m *Manager) CreateEntry(key FuncKey, base, count uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; ok {
		return errs.New("resmgr.create_entry", errs.CodeResourceExists, nil)
	}

	want := qrange{base: base, count: count, funcID: key.FuncID}
	if m.overlapsLocked(want) {
		return errs.New("resmgr.create_entry", errs.CodeQmaxConfRejected, nil)
	}

	m.tree.ReplaceOrInsert(want)
	m.entries[key] = &funcEntry{rng: want}
	return nil
}

// overlapsLocked reports whether want overlaps any existing range. Called
// with mu held.
func (m *Manager) overlapsLocked(want qrange) bool {
	overlap := false
	// Any existing range with base < want.end() could still overlap;
	// walk everything strictly before want.end() and check the tail end.
	m.tree.AscendRange(qrange{base: 0}, qrange{base: want.end()}, func(existing qrange) bool {
		if existing.end() > want.base {
			overlap = true
			return false
		}
		return true
	})
	return overlap
}

// Allocate finds a free, contiguous range of count queue ids in the
// device-wide free pool and binds it to key, writing the discovered base
// back to the caller exactly as spec.md §4.4's
// "update(dev_idx, func_id, requested_qmax, &mut qbase)" does: first-fit
// over the gaps left by every other function's range, Err(NoQueuesLeft)
// if nothing in the pool is wide enough. If key already has a range, that
// range is released first and a fresh one is searched for (so Allocate
// also serves a VF re-requesting a different qmax); on failure the prior
// range is restored rather than left unbound.
func (m *Manager) Allocate(key FuncKey, count uint16) (uint16, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prior, had := m.entries[key]
	if had {
		m.tree.Delete(prior.rng)
	}

	base, ok := m.firstFitLocked(count)
	if !ok {
		if had {
			m.tree.ReplaceOrInsert(prior.rng)
		}
		return 0, errs.New("resmgr.allocate", errs.CodeNoQueuesLeft, nil)
	}

	want := qrange{base: base, count: count, funcID: key.FuncID}
	m.tree.ReplaceOrInsert(want)
	if had {
		prior.rng = want
	} else {
		m.entries[key] = &funcEntry{rng: want}
	}
	return base, nil
}

// firstFitLocked scans the allocated ranges in base order and returns the
// first gap (including the pool's tail) at least count wide. Called with
// mu held.
func (m *Manager) firstFitLocked(count uint16) (uint16, bool) {
	cursor := uint32(0)
	found := false
	var base uint16
	m.tree.Ascend(func(existing qrange) bool {
		b := uint32(existing.base)
		if b > cursor && b-cursor >= uint32(count) {
			base = uint16(cursor)
			found = true
			return false
		}
		if end := uint32(existing.end()); end > cursor {
			cursor = end
		}
		return true
	})
	if found {
		return base, true
	}
	if m.poolEnd()-cursor >= uint32(count) {
		return uint16(cursor), true
	}
	return 0, false
}

// DestroyEntry releases key's range entirely (§4.4 "destroy_entry").
// Returns Err(ResourceNotExists) if key has no entry.
func (m *Manager) DestroyEntry(key FuncKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return errs.New("resmgr.destroy_entry", errs.CodeResourceNotExists, nil)
	}
	m.tree.Delete(e.rng)
	delete(m.entries, key)
	return nil
}

// Update replaces key's range with a new one, subject to the same
// non-overlap check as CreateEntry (§4.4 "update").
func (m *Manager) Update(key FuncKey, base, count uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return errs.New("resmgr.update", errs.CodeResourceNotExists, nil)
	}

	want := qrange{base: base, count: count, funcID: key.FuncID}
	m.tree.Delete(e.rng)
	if m.overlapsLocked(want) {
		m.tree.ReplaceOrInsert(e.rng) // restore prior allocation, reject the update
		return errs.New("resmgr.update", errs.CodeQmaxConfRejected, nil)
	}
	m.tree.ReplaceOrInsert(want)
	e.rng = want
	return nil
}

// QInfo is the queue-range snapshot returned by QInfoGet.
type QInfo struct {
	Base  uint16
	Count uint16
}

// QInfoGet returns key's current queue range (§4.4 "qinfo_get").
func (m *Manager) QInfoGet(key FuncKey) (QInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return QInfo{}, errs.New("resmgr.qinfo_get", errs.CodeResourceNotExists, nil)
	}
	return QInfo{Base: e.rng.base, Count: e.rng.count}, nil
}

// IsQueueInRange reports whether qid falls within key's allocated range
// (§4.4 "is_queue_in_range").
func (m *Manager) IsQueueInRange(key FuncKey, qid uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return false
	}
	return qid >= e.rng.base && qid < e.rng.end()
}

// IncrementActiveQueue bumps key's active-queue counter for the given
// direction, enforcing that it never exceeds the allocated range size
// (§3 "Active-queue counter", invariant #2).
func (m *Manager) IncrementActiveQueue(key FuncKey, qt sys.QType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return errs.New("resmgr.increment_active_queue", errs.CodeResourceNotExists, nil)
	}
	if !qt.Valid() {
		return errs.New("resmgr.increment_active_queue", errs.CodeInvalidParam, nil)
	}
	if e.active[qt] >= uint32(e.rng.count) {
		return errs.New("resmgr.increment_active_queue", errs.CodeNoQueuesLeft, nil)
	}
	e.active[qt]++
	return nil
}

// DecrementActiveQueue reverses IncrementActiveQueue. Decrementing below
// zero is a programming error the caller must not make; it is clamped to
// zero defensively rather than underflowing the counter.
func (m *Manager) DecrementActiveQueue(key FuncKey, qt sys.QType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return errs.New("resmgr.decrement_active_queue", errs.CodeResourceNotExists, nil)
	}
	if !qt.Valid() {
		return errs.New("resmgr.decrement_active_queue", errs.CodeInvalidParam, nil)
	}
	if e.active[qt] > 0 {
		e.active[qt]--
	}
	return nil
}

// GetActiveQueueCount returns key's current active-queue counter for the
// given direction (§4.4 "get_active_queue_count").
func (m *Manager) GetActiveQueueCount(key FuncKey, qt sys.QType) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return 0, errs.New("resmgr.get_active_queue_count", errs.CodeResourceNotExists, nil)
	}
	if !qt.Valid() {
		return 0, errs.New("resmgr.get_active_queue_count", errs.CodeInvalidParam, nil)
	}
	return e.active[qt], nil
}

// Snapshot returns a point-in-time copy of every allocated range, keyed
// by function (§4.4 "snapshot-semantics iteration": the returned slice is
// safe to range over without holding the manager's lock).
type Snapshot struct {
	Key   FuncKey
	Base  uint16
	Count uint16
}

func (m *Manager) Snapshot() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Snapshot, 0, len(m.entries))
	for k, e := range m.entries {
		out = append(out, Snapshot{Key: k, Base: e.rng.base, Count: e.rng.count})
	}
	return out
}
