package services

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
	"github.com/Asadganteng/ruang-iklim-scada/ws"
)

// fakeReadingRepo serves canned rows for the historical load.
type fakeReadingRepo struct {
	rows []entities.Reading // newest first, as the store query returns them
	err  error
}

func (f *fakeReadingRepo) Create(r *entities.Reading) error { return nil }

func (f *fakeReadingRepo) RecentDesc(limit int) ([]entities.Reading, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.rows) {
		limit = len(f.rows)
	}
	out := make([]entities.Reading, limit)
	copy(out, f.rows[:limit])
	return out, nil
}

// rowsDesc builds n readings with ids n..1 and strictly decreasing
// timestamps, newest first.
func rowsDesc(n int) []entities.Reading {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]entities.Reading, 0, n)
	for i := n; i >= 1; i-- {
		v := float64(20 + i)
		rows = append(rows, entities.Reading{
			ID:          uint(i),
			Timestamp:   base.Add(time.Duration(i) * time.Second),
			Temperature: &v,
		})
	}
	return rows
}

func testFeed(t *testing.T, capacity int) *LiveFeed {
	t.Helper()
	clock, err := NewClock("Asia/Jakarta")
	require.NoError(t, err)
	return NewLiveFeed(capacity, clock, zap.NewNop().Sugar())
}

func assertAscending(t *testing.T, readings []entities.Reading) {
	t.Helper()
	for i := 1; i < len(readings); i++ {
		assert.False(t, readings[i].Timestamp.Before(readings[i-1].Timestamp),
			"buffer out of order at index %d", i)
	}
}

func TestSyntheticSlidingWindow(t *testing.T) {
	const capacity = 5
	feed := testFeed(t, capacity)
	clock, err := NewClock("Asia/Jakarta")
	require.NoError(t, err)
	gen := NewGenerator(clock, rand.New(rand.NewSource(1)))

	feed.StartSynthetic(gen, entities.DefaultSetpoint, 2*time.Millisecond, nil)
	defer feed.Stop()

	// Run well past capacity so the window has slid.
	require.Eventually(t, func() bool {
		snap := feed.Snapshot()
		return len(snap) == capacity && snap[len(snap)-1].ID >= 2*capacity
	}, 2*time.Second, 2*time.Millisecond)

	snap := feed.Snapshot()
	require.Len(t, snap, capacity)
	assertAscending(t, snap)

	// The window holds the most recent contiguous run of ids.
	for i := 1; i < len(snap); i++ {
		assert.Equal(t, snap[i-1].ID+1, snap[i].ID)
	}
}

func TestSyntheticBaselineChangeKeepsHistory(t *testing.T) {
	feed := testFeed(t, 100)
	clock, err := NewClock("Asia/Jakarta")
	require.NoError(t, err)
	gen := NewGenerator(clock, rand.New(rand.NewSource(1)))

	var mu sync.Mutex
	baseline := entities.DefaultSetpoint()
	provider := func() entities.Setpoint {
		mu.Lock()
		defer mu.Unlock()
		return baseline
	}

	feed.StartSynthetic(gen, provider, 2*time.Millisecond, nil)
	defer feed.Stop()

	require.Eventually(t, func() bool { return feed.Len() >= 5 }, 2*time.Second, 2*time.Millisecond)
	before := feed.Len()

	// A baseline edit only shapes future samples.
	mu.Lock()
	baseline.Temperature = 30
	mu.Unlock()
	require.Eventually(t, func() bool { return feed.Len() > before }, 2*time.Second, 2*time.Millisecond)
	assert.GreaterOrEqual(t, feed.Len(), before)
}

func TestRealModeBulkLoad(t *testing.T) {
	feed := testFeed(t, 1000)
	repo := &fakeReadingRepo{rows: rowsDesc(10)}
	hub := ws.NewHub()

	feed.StartReal(repo, hub, 500)
	defer feed.Stop()

	require.Eventually(t, func() bool { return feed.Len() == 10 }, 2*time.Second, time.Millisecond)

	snap := feed.Snapshot()
	require.Len(t, snap, 10)
	assertAscending(t, snap)
	assert.Equal(t, uint(1), snap[0].ID)
	assert.Equal(t, uint(10), snap[9].ID)
	for _, r := range snap {
		assert.NotEmpty(t, r.DisplayTime)
	}
}

func TestRealModePushAppendAndDedupe(t *testing.T) {
	feed := testFeed(t, 1000)
	repo := &fakeReadingRepo{rows: rowsDesc(5)}
	hub := ws.NewHub()

	feed.StartReal(repo, hub, 500)
	defer feed.Stop()

	require.Eventually(t, func() bool { return feed.Len() == 5 }, 2*time.Second, time.Millisecond)

	// A reading the bulk load already covered is dropped.
	hub.Publish(entities.Reading{ID: 5, Timestamp: time.Now()})
	// A genuinely new one lands at the tail.
	hub.Publish(entities.Reading{ID: 6, Timestamp: time.Now()})

	require.Eventually(t, func() bool { return feed.Len() == 6 }, 2*time.Second, time.Millisecond)

	snap := feed.Snapshot()
	assert.Equal(t, uint(6), snap[len(snap)-1].ID)
	assertAscending(t, snap[:5])
}

// blockingReadingRepo holds the historical load open until released, so a
// test can publish into the subscription while the load is still running.
type blockingReadingRepo struct {
	rows    []entities.Reading // newest first by timestamp
	release chan struct{}
}

func (b *blockingReadingRepo) Create(r *entities.Reading) error { return nil }

func (b *blockingReadingRepo) RecentDesc(limit int) ([]entities.Reading, error) {
	<-b.release
	if limit > len(b.rows) {
		limit = len(b.rows)
	}
	out := make([]entities.Reading, limit)
	copy(out, b.rows[:limit])
	return out, nil
}

func TestRealModeDedupesOutOfOrderIDsDuringLoad(t *testing.T) {
	feed := testFeed(t, 1000)
	hub := ws.NewHub()

	// Client-supplied timestamps make IDs non-monotone in timestamp order:
	// the highest ID (5) sits mid-buffer, not at the chronological tail.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &blockingReadingRepo{
		release: make(chan struct{}),
		rows: []entities.Reading{
			{ID: 3, Timestamp: base.Add(3 * time.Second)},
			{ID: 5, Timestamp: base.Add(2 * time.Second)},
			{ID: 2, Timestamp: base.Add(1 * time.Second)},
		},
	}

	feed.StartReal(repo, hub, 500)
	defer feed.Stop()

	// An at-least-once re-delivery of a row the load will return, queued
	// while the load is still in flight.
	hub.Publish(entities.Reading{ID: 5, Timestamp: base.Add(2 * time.Second)})
	close(repo.release)

	require.Eventually(t, func() bool { return feed.Len() >= 3 }, 2*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	snap := feed.Snapshot()
	require.Len(t, snap, 3, "re-delivered reading must not append as a duplicate")
	seen := 0
	for _, r := range snap {
		if r.ID == 5 {
			seen++
		}
	}
	assert.Equal(t, 1, seen, "reading 5 appears exactly once")

	// Genuinely new readings still get through the watermark.
	hub.Publish(entities.Reading{ID: 6, Timestamp: base.Add(4 * time.Second)})
	require.Eventually(t, func() bool { return feed.Len() == 4 }, 2*time.Second, time.Millisecond)
}

func TestRealModeEvictsOneOldestPerArrival(t *testing.T) {
	const capacity = 5
	feed := testFeed(t, capacity)
	repo := &fakeReadingRepo{rows: rowsDesc(capacity)}
	hub := ws.NewHub()

	feed.StartReal(repo, hub, capacity)
	defer feed.Stop()

	require.Eventually(t, func() bool { return feed.Len() == capacity }, 2*time.Second, time.Millisecond)

	hub.Publish(entities.Reading{ID: 6, Timestamp: time.Now()})

	require.Eventually(t, func() bool {
		snap := feed.Snapshot()
		return len(snap) == capacity && snap[len(snap)-1].ID == 6
	}, 2*time.Second, time.Millisecond)

	snap := feed.Snapshot()
	assert.Equal(t, uint(2), snap[0].ID, "exactly the single oldest entry is evicted")
}

func TestRealModeBulkLoadFailure(t *testing.T) {
	feed := testFeed(t, 1000)
	repo := &fakeReadingRepo{err: errors.New("store unreachable")}
	hub := ws.NewHub()

	feed.StartReal(repo, hub, 500)
	defer feed.Stop()

	// "No data yet": empty buffer, no retry.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, feed.Len())

	// Pushed readings still arrive.
	hub.Publish(entities.Reading{ID: 1, Timestamp: time.Now()})
	require.Eventually(t, func() bool { return feed.Len() == 1 }, 2*time.Second, time.Millisecond)
}

func TestStopHaltsSyntheticTicks(t *testing.T) {
	feed := testFeed(t, 500)
	clock, err := NewClock("Asia/Jakarta")
	require.NoError(t, err)
	gen := NewGenerator(clock, rand.New(rand.NewSource(1)))

	feed.StartSynthetic(gen, entities.DefaultSetpoint, 2*time.Millisecond, nil)
	require.Eventually(t, func() bool { return feed.Len() > 0 }, 2*time.Second, time.Millisecond)

	feed.Stop()
	length := feed.Len()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, length, feed.Len(), "no tick fires after teardown")
}

func TestStopHaltsRealSubscription(t *testing.T) {
	feed := testFeed(t, 1000)
	repo := &fakeReadingRepo{rows: rowsDesc(3)}
	hub := ws.NewHub()

	feed.StartReal(repo, hub, 500)
	require.Eventually(t, func() bool { return feed.Len() == 3 }, 2*time.Second, time.Millisecond)

	feed.Stop()
	assert.Equal(t, 0, hub.Count(), "subscription closed on teardown")

	hub.Publish(entities.Reading{ID: 99, Timestamp: time.Now()})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, feed.Len(), "no event delivered after teardown")
}

func TestFeedStats(t *testing.T) {
	feed := testFeed(t, 1000)
	repo := &fakeReadingRepo{rows: rowsDesc(3)}
	hub := ws.NewHub()

	feed.StartReal(repo, hub, 500)
	defer feed.Stop()

	require.Eventually(t, func() bool { return feed.Len() == 3 }, 2*time.Second, time.Millisecond)

	stats := feed.Stats()
	assert.Equal(t, "real", stats["mode"])
	assert.Equal(t, 3, stats["length"])
	assert.Equal(t, 1000, stats["capacity"])
}
