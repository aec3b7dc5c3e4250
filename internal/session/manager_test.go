package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsRegisteredSession(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Spawn("sleep 5", 24, 80, nil)
	require.NoError(t, err)

	got, ok := m.Get(s.ID)
	assert.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("sess_does_not_exist")
	assert.False(t, ok)
}

func TestDestroySemantics(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Spawn("sleep 5", 24, 80, nil)
	require.NoError(t, err)

	assert.True(t, m.Destroy(s.ID))
	_, ok := m.Get(s.ID)
	assert.False(t, ok)

	// Second destroy of the same id is a well-defined no-op.
	assert.False(t, m.Destroy(s.ID))
}

func TestListIsDefensiveSnapshot(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Spawn("sleep 5", 24, 80, nil)
	require.NoError(t, err)
	second, err := m.Spawn("sleep 5", 24, 80, nil)
	require.NoError(t, err)

	snapshot := m.List()
	require.Len(t, snapshot, 2)
	// Ordered by creation time.
	assert.Equal(t, first.ID, snapshot[0].ID)
	assert.Equal(t, second.ID, snapshot[1].ID)

	// Mutating the registry does not affect the snapshot.
	m.Destroy(first.ID)
	assert.Len(t, snapshot, 2)
	assert.Len(t, m.List(), 1)
}

func TestSweepDeadRemovesOnlyExited(t *testing.T) {
	m := newTestManager(t)

	dead, err := m.Spawn("true", 24, 80, nil)
	require.NoError(t, err)
	alive, err := m.Spawn("sleep 10", 24, 80, nil)
	require.NoError(t, err)

	waitForExit(t, dead)

	assert.Equal(t, 1, m.SweepDead())

	_, ok := m.Get(dead.ID)
	assert.False(t, ok)
	_, ok = m.Get(alive.ID)
	assert.True(t, ok)
	assert.True(t, alive.IsAlive())

	// Nothing left to sweep.
	assert.Equal(t, 0, m.SweepDead())
}

func TestShutdownClosesEverything(t *testing.T) {
	m := newTestManager(t)

	for i := 0; i < 3; i++ {
		_, err := m.Spawn("sleep 10", 24, 80, nil)
		require.NoError(t, err)
	}
	require.Len(t, m.List(), 3)

	m.Shutdown()
	assert.Empty(t, m.List())
}

func TestConcurrentDestroyFirstWins(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Spawn("sleep 5", 24, 80, nil)
	require.NoError(t, err)

	const workers = 8
	results := make([]bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Destroy(s.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, won := range results {
		if won {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one destroyer wins")
}

func TestManagerDefaultDimensions(t *testing.T) {
	m, err := NewManager(Options{BaseDir: t.TempDir()})
	require.NoError(t, err)
	defer m.Shutdown()

	rows, cols := m.Defaults()
	assert.Equal(t, 24, rows)
	assert.Equal(t, 80, cols)

	custom, err := NewManager(Options{BaseDir: t.TempDir(), Rows: 40, Cols: 120})
	require.NoError(t, err)
	defer custom.Shutdown()

	rows, cols = custom.Defaults()
	assert.Equal(t, 40, rows)
	assert.Equal(t, 120, cols)
}

func TestManagerUsesDefaultSettle(t *testing.T) {
	m, err := NewManager(Options{BaseDir: t.TempDir(), SettleDelay: -1})
	require.NoError(t, err)
	defer m.Shutdown()

	start := time.Now()
	_, err = m.Spawn("true", 24, 80, nil)
	require.NoError(t, err)
	// Negative settle is clamped to zero, not treated as a long wait.
	assert.Less(t, time.Since(start), 2*time.Second)
}
