package toast

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCenter() (*Center, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return &Center{now: clock.Now}, clock
}

func TestPostAppearsUntilDurationElapses(t *testing.T) {
	c, clock := newTestCenter()

	c.Post("Saved", KindSuccess, 3*time.Second)

	require.Len(t, c.Active(), 1)
	assert.Equal(t, KindSuccess, c.Active()[0].Kind)
	assert.Equal(t, 3*time.Second, c.Active()[0].Duration)

	// Live right up to, but not including, the expiry instant.
	clock.Advance(3*time.Second - time.Millisecond)
	assert.Len(t, c.Active(), 1)

	clock.Advance(time.Millisecond)
	assert.Empty(t, c.Active())
}

func TestStickyNotificationNeverAutoRemoves(t *testing.T) {
	c, clock := newTestCenter()

	id := c.Post("backend unreachable", KindWarning, 0)

	clock.Advance(24 * time.Hour)
	require.Len(t, c.Active(), 1)
	assert.Equal(t, float64(1), c.Active()[0].Ratio(clock.Now()))

	c.Dismiss(id)
	assert.Empty(t, c.Active())
}

func TestDismissIsIdempotent(t *testing.T) {
	c, _ := newTestCenter()

	id := c.Post("Deleting failed", KindError, 5*time.Second)
	c.Dismiss(id)
	c.Dismiss(id)

	assert.Empty(t, c.Active())

	// Unknown IDs are a no-op too.
	c.Dismiss(9999)
	assert.Empty(t, c.Active())
}

func TestDismissBeforeExpiryPreventsResurrection(t *testing.T) {
	c, clock := newTestCenter()

	id := c.Error("Deleting failed")
	c.Dismiss(id)
	require.Empty(t, c.Active())

	clock.Advance(5 * time.Second)
	assert.Empty(t, c.Active())
}

func TestInsertionOrderIsStable(t *testing.T) {
	c, _ := newTestCenter()

	a := c.Post("A", KindInfo, 0)
	b := c.Post("B", KindInfo, 0)
	cc := c.Post("C", KindInfo, 0)

	ids := func() []int64 {
		var out []int64
		for _, n := range c.Active() {
			out = append(out, n.ID)
		}
		return out
	}

	require.Equal(t, []int64{a, b, cc}, ids())

	c.Dismiss(b)
	require.Equal(t, []int64{a, cc}, ids())

	d := c.Post("D", KindInfo, 0)
	assert.Equal(t, []int64{a, cc, d}, ids())
}

func TestExpiryRemovesOnlyTheExpiredEntry(t *testing.T) {
	c, clock := newTestCenter()

	c.Post("short", KindSuccess, time.Second)
	c.Post("long", KindSuccess, 10*time.Second)

	clock.Advance(time.Second)

	live := c.Active()
	require.Len(t, live, 1)
	assert.Equal(t, "long", live[0].Message)
	// The survivor's countdown is unaffected by its neighbor expiring.
	assert.Equal(t, 9*time.Second, live[0].Remaining(clock.Now()))
}

func TestKindDefaults(t *testing.T) {
	c, _ := newTestCenter()

	c.Success("s")
	c.Error("e")
	c.Info("i")
	c.Warning("w")

	live := c.Active()
	require.Len(t, live, 4)
	assert.Equal(t, DefaultSuccessDuration, live[0].Duration)
	assert.Equal(t, DefaultErrorDuration, live[1].Duration)
	assert.Equal(t, DefaultInfoDuration, live[2].Duration)
	assert.Equal(t, DefaultWarningDuration, live[3].Duration)
}

func TestDurationOverride(t *testing.T) {
	c, clock := newTestCenter()

	c.Success("sticky save", WithDuration(0))
	c.Error("quick error", WithDuration(time.Second))

	clock.Advance(time.Second)
	live := c.Active()
	require.Len(t, live, 1)
	assert.Equal(t, "sticky save", live[0].Message)
}

func TestRatioDecreasesLinearly(t *testing.T) {
	c, clock := newTestCenter()

	c.Post("x", KindInfo, 4*time.Second)
	n := c.Active()[0]

	assert.Equal(t, float64(1), n.Ratio(clock.Now()))

	clock.Advance(time.Second)
	assert.InDelta(t, 0.75, n.Ratio(clock.Now()), 1e-9)

	clock.Advance(2 * time.Second)
	assert.InDelta(t, 0.25, n.Ratio(clock.Now()), 1e-9)

	clock.Advance(time.Second)
	assert.Equal(t, float64(0), n.Ratio(clock.Now()))
}

func TestIDsAreUniqueUnderConcurrentPosts(t *testing.T) {
	c, _ := newTestCenter()

	const posters, perPoster = 8, 50

	var wg sync.WaitGroup
	idCh := make(chan int64, posters*perPoster)
	for p := 0; p < posters; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPoster; i++ {
				idCh <- c.Post(fmt.Sprintf("p%d-%d", p, i), KindInfo, 0)
			}
		}(p)
	}
	wg.Wait()
	close(idCh)

	seen := make(map[int64]bool)
	for id := range idCh {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, c.Active(), posters*perPoster)
}

func TestDismissNewest(t *testing.T) {
	c, _ := newTestCenter()

	assert.False(t, c.DismissNewest())

	c.Post("first", KindInfo, 0)
	c.Post("second", KindInfo, 0)

	require.True(t, c.DismissNewest())
	live := c.Active()
	require.Len(t, live, 1)
	assert.Equal(t, "first", live[0].Message)
}
