package resmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/sys"
)

func TestCreateEntryRejectsOverlap(t *testing.T) {
	m := New()
	k1 := FuncKey{DeviceIndex: 0, FuncID: 0}
	k2 := FuncKey{DeviceIndex: 0, FuncID: 1}

	require.NoError(t, m.CreateEntry(k1, 0, 64))
	err := m.CreateEntry(k2, 32, 64)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrQmaxConfRejected)

	// Adjacent, non-overlapping range is fine.
	require.NoError(t, m.CreateEntry(k2, 64, 64))
}

func TestCreateEntryRejectsDuplicateKey(t *testing.T) {
	m := New()
	k := FuncKey{DeviceIndex: 0, FuncID: 0}
	require.NoError(t, m.CreateEntry(k, 0, 8))
	err := m.CreateEntry(k, 100, 8)
	assert.ErrorIs(t, err, errs.ErrResourceExists)
}

func TestUpdateRestoresOnReject(t *testing.T) {
	m := New()
	k1 := FuncKey{DeviceIndex: 0, FuncID: 0}
	k2 := FuncKey{DeviceIndex: 0, FuncID: 1}
	require.NoError(t, m.CreateEntry(k1, 0, 16))
	require.NoError(t, m.CreateEntry(k2, 16, 16))

	err := m.Update(k2, 8, 16) // collides with k1's [0,16)
	require.Error(t, err)

	info, err := m.QInfoGet(k2)
	require.NoError(t, err)
	assert.Equal(t, QInfo{Base: 16, Count: 16}, info)
}

func TestActiveQueueCounterMonotonic(t *testing.T) {
	m := New()
	k := FuncKey{DeviceIndex: 0, FuncID: 0}
	require.NoError(t, m.CreateEntry(k, 0, 2))

	require.NoError(t, m.IncrementActiveQueue(k, sys.QTypeH2C))
	require.NoError(t, m.IncrementActiveQueue(k, sys.QTypeH2C))
	err := m.IncrementActiveQueue(k, sys.QTypeH2C)
	assert.ErrorIs(t, err, errs.ErrNoQueuesLeft)

	count, err := m.GetActiveQueueCount(k, sys.QTypeH2C)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, m.DecrementActiveQueue(k, sys.QTypeH2C))
	count, _ = m.GetActiveQueueCount(k, sys.QTypeH2C)
	assert.EqualValues(t, 1, count)

	// Decrementing below zero clamps rather than underflowing.
	require.NoError(t, m.DecrementActiveQueue(k, sys.QTypeH2C))
	require.NoError(t, m.DecrementActiveQueue(k, sys.QTypeH2C))
	count, _ = m.GetActiveQueueCount(k, sys.QTypeH2C)
	assert.EqualValues(t, 0, count)
}

func TestIsQueueInRange(t *testing.T) {
	m := New()
	k := FuncKey{DeviceIndex: 0, FuncID: 0}
	require.NoError(t, m.CreateEntry(k, 10, 4))
	assert.True(t, m.IsQueueInRange(k, 10))
	assert.True(t, m.IsQueueInRange(k, 13))
	assert.False(t, m.IsQueueInRange(k, 14))
	assert.False(t, m.IsQueueInRange(k, 9))
}

func TestDestroyEntryThenCreateSameRange(t *testing.T) {
	m := New()
	k := FuncKey{DeviceIndex: 0, FuncID: 0}
	require.NoError(t, m.CreateEntry(k, 0, 32))
	require.NoError(t, m.DestroyEntry(k))
	assert.ErrorIs(t, m.DestroyEntry(k), errs.ErrResourceNotExists)

	// The freed range can be reallocated without spurious overlap.
	require.NoError(t, m.CreateEntry(k, 0, 32))
}

func TestAllocateFirstFitsIntoFreeGap(t *testing.T) {
	m := New()
	k0 := FuncKey{DeviceIndex: 0, FuncID: 0}
	k1 := FuncKey{DeviceIndex: 0, FuncID: 1}
	k2 := FuncKey{DeviceIndex: 0, FuncID: 2}

	require.NoError(t, m.CreateEntry(k0, 0, 16))
	require.NoError(t, m.CreateEntry(k1, 32, 16)) // leaves a [16,32) gap

	base, err := m.Allocate(k2, 16)
	require.NoError(t, err)
	assert.EqualValues(t, 16, base)

	info, err := m.QInfoGet(k2)
	require.NoError(t, err)
	assert.Equal(t, QInfo{Base: 16, Count: 16}, info)
}

func TestAllocateFallsBackToPoolTail(t *testing.T) {
	m := New()
	k0 := FuncKey{DeviceIndex: 0, FuncID: 0}
	k1 := FuncKey{DeviceIndex: 0, FuncID: 1}

	require.NoError(t, m.CreateEntry(k0, 0, 8)) // no gap wide enough before it

	base, err := m.Allocate(k1, 8)
	require.NoError(t, err)
	assert.EqualValues(t, 8, base)
}

func TestAllocateFailsWhenPoolExhausted(t *testing.T) {
	m := New(WithCapacity(16))
	k0 := FuncKey{DeviceIndex: 0, FuncID: 0}
	k1 := FuncKey{DeviceIndex: 0, FuncID: 1}

	require.NoError(t, m.CreateEntry(k0, 0, 16))

	_, err := m.Allocate(k1, 1)
	assert.ErrorIs(t, err, errs.ErrNoQueuesLeft)
}

func TestAllocateReRequestRestoresPriorRangeOnFailure(t *testing.T) {
	m := New(WithCapacity(16))
	k0 := FuncKey{DeviceIndex: 0, FuncID: 0}
	k1 := FuncKey{DeviceIndex: 0, FuncID: 1}

	require.NoError(t, m.CreateEntry(k0, 0, 8))
	base, err := m.Allocate(k1, 8)
	require.NoError(t, err)
	assert.EqualValues(t, 8, base)

	// Re-request more than the pool can hold: the prior [8,16) range must
	// survive the failed reallocation rather than being lost.
	_, err = m.Allocate(k1, 9)
	assert.ErrorIs(t, err, errs.ErrNoQueuesLeft)

	info, err := m.QInfoGet(k1)
	require.NoError(t, err)
	assert.Equal(t, QInfo{Base: 8, Count: 8}, info)
}

func TestSnapshotIsPointInTime(t *testing.T) {
	m := New()
	k1 := FuncKey{DeviceIndex: 0, FuncID: 0}
	k2 := FuncKey{DeviceIndex: 1, FuncID: 0}
	require.NoError(t, m.CreateEntry(k1, 0, 8))
	require.NoError(t, m.CreateEntry(k2, 0, 16))

	snap := m.Snapshot()
	require.Len(t, snap, 2)

	require.NoError(t, m.DestroyEntry(k1))
	// The earlier snapshot is unaffected by the later mutation.
	assert.Len(t, snap, 2)
}
