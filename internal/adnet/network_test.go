package adnet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/ads/adstest"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type loadResult struct {
	mu    sync.Mutex
	calls int
	ad    ads.Ad
	err   error
}

func (r *loadResult) callback(ad ads.Ad, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.ad, r.err = ad, err
}

func (r *loadResult) get() (int, ads.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.ad, r.err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinLatency = time.Second
	cfg.MaxLatency = time.Second
	cfg.Seed = 7
	return cfg
}

func TestLoadFillsAfterLatency(t *testing.T) {
	clock := adstest.NewClock(epoch)
	n := New(testConfig(), DefaultCreatives, WithClock(clock))
	res := &loadResult{}

	n.Load(context.Background(), "unit", ads.Request{RequestID: "req"}, res.callback)

	clock.Advance(999 * time.Millisecond)
	calls, _, _ := res.get()
	assert.Zero(t, calls, "load must not complete before the latency")

	clock.Advance(time.Millisecond)
	calls, ad, err := res.get()
	require.Equal(t, 1, calls)
	require.NoError(t, err)
	require.NotNil(t, ad)

	info := ad.Info()
	assert.Equal(t, "SimulatedRewardedAdapter", info.Source)
	assert.NotEmpty(t, info.ResponseID)
	assert.NotEmpty(t, info.Title)
	assert.Positive(t, info.Duration)
}

func TestLoadNoFill(t *testing.T) {
	clock := adstest.NewClock(epoch)
	cfg := testConfig()
	cfg.FillRate = 0
	n := New(cfg, DefaultCreatives, WithClock(clock))
	res := &loadResult{}

	n.Load(context.Background(), "unit", ads.Request{}, res.callback)
	clock.Advance(time.Second)

	calls, ad, err := res.get()
	require.Equal(t, 1, calls)
	assert.Nil(t, ad)
	assert.Equal(t, ads.CodeNoFill, ads.ErrorCodeOf(err))
}

func TestLoadEmptyInventory(t *testing.T) {
	clock := adstest.NewClock(epoch)
	n := New(testConfig(), StaticInventory{}, WithClock(clock))
	res := &loadResult{}

	n.Load(context.Background(), "unit", ads.Request{}, res.callback)
	clock.Advance(time.Second)

	_, _, err := res.get()
	assert.Equal(t, ads.CodeNoFill, ads.ErrorCodeOf(err))
}

type brokenInventory struct{}

func (brokenInventory) Creatives(context.Context) ([]Creative, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadInventoryError(t *testing.T) {
	clock := adstest.NewClock(epoch)
	n := New(testConfig(), brokenInventory{}, WithClock(clock))
	res := &loadResult{}

	n.Load(context.Background(), "unit", ads.Request{}, res.callback)
	clock.Advance(time.Second)

	_, _, err := res.get()
	assert.Equal(t, ads.CodeInternal, ads.ErrorCodeOf(err))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestLoadMissingPlacement(t *testing.T) {
	clock := adstest.NewClock(epoch)
	n := New(testConfig(), DefaultCreatives, WithClock(clock))
	res := &loadResult{}

	n.Load(context.Background(), "", ads.Request{}, res.callback)
	clock.Advance(0)

	_, _, err := res.get()
	assert.Equal(t, ads.CodeInvalidRequest, ads.ErrorCodeOf(err))
}

func TestLoadCancelled(t *testing.T) {
	clock := adstest.NewClock(epoch)
	n := New(testConfig(), DefaultCreatives, WithClock(clock))
	res := &loadResult{}

	ctx, cancel := context.WithCancel(context.Background())
	n.Load(ctx, "unit", ads.Request{}, res.callback)
	cancel()

	assert.Eventually(t, func() bool {
		calls, _, _ := res.get()
		return calls == 1
	}, time.Second, 5*time.Millisecond)

	// The latency timer was stopped, so nothing else arrives.
	clock.Advance(time.Second)
	calls, _, err := res.get()
	assert.Equal(t, 1, calls)
	assert.Equal(t, ads.CodeCancelled, ads.ErrorCodeOf(err))
}

func TestLoadDeadline(t *testing.T) {
	clock := adstest.NewClock(epoch)
	n := New(testConfig(), DefaultCreatives, WithClock(clock))
	res := &loadResult{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	n.Load(ctx, "unit", ads.Request{}, res.callback)

	assert.Eventually(t, func() bool {
		calls, _, _ := res.get()
		return calls == 1
	}, time.Second, 5*time.Millisecond)

	_, _, err := res.get()
	assert.Equal(t, ads.CodeTimeout, ads.ErrorCodeOf(err))
}

func TestPickRespectsWeights(t *testing.T) {
	n := New(testConfig(), nil)
	inv := []Creative{
		{ID: 1, Weight: 0},
		{ID: 2, Weight: 9},
	}

	counts := map[int64]int{}
	for range 1000 {
		c, ok := n.pick(inv)
		require.True(t, ok)
		counts[c.ID]++
	}

	assert.Greater(t, counts[2], counts[1])
	assert.Positive(t, counts[1], "weights below one still get picked")
}

func TestLatencyWithinBounds(t *testing.T) {
	cfg := testConfig()
	cfg.MinLatency = 100 * time.Millisecond
	cfg.MaxLatency = 200 * time.Millisecond
	n := New(cfg, nil)

	for range 100 {
		d := n.latency()
		assert.GreaterOrEqual(t, d, cfg.MinLatency)
		assert.Less(t, d, cfg.MaxLatency)
	}
}
