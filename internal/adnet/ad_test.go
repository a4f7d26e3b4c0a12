package adnet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/ads/adstest"
)

// loadAd fills one ad with a fixed five second creative.
func loadAd(t *testing.T, cfg Config) (ads.Ad, *adstest.Clock) {
	t.Helper()
	clock := adstest.NewClock(epoch)
	inv := StaticInventory{{ID: 1, Title: "Test", Duration: 5 * time.Second, Weight: 1}}
	n := New(cfg, inv, WithClock(clock))
	res := &loadResult{}

	n.Load(context.Background(), "unit", ads.Request{}, res.callback)
	clock.Advance(cfg.MaxLatency)

	_, ad, err := res.get()
	require.NoError(t, err)
	return ad, clock
}

type trace struct {
	mu    sync.Mutex
	steps []string
}

func (tr *trace) add(s string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.steps = append(tr.steps, s)
}

func (tr *trace) get() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.steps...)
}

func (tr *trace) callback() ads.FullScreenCallback {
	return ads.FullScreenCallback{
		OnShowed:       func() { tr.add("showed") },
		OnDismissed:    func() { tr.add("dismissed") },
		OnFailedToShow: func(err error) { tr.add("failed:" + ads.ErrorCodeOf(err).String()) },
	}
}

func TestShowPlaysThroughInOrder(t *testing.T) {
	ad, clock := loadAd(t, testConfig())
	tr := &trace{}
	ad.SetFullScreenCallback(tr.callback())

	ad.Show(context.Background(), func(r ads.Reward) {
		tr.add("reward")
		assert.Equal(t, ads.Reward{Type: "coins", Amount: 1}, r)
	})

	clock.Advance(0)
	assert.Equal(t, []string{"showed"}, tr.get())

	clock.Advance(5 * time.Second)
	assert.Equal(t, []string{"showed", "reward", "dismissed"}, tr.get())
}

func TestShowTwiceFails(t *testing.T) {
	ad, clock := loadAd(t, testConfig())
	tr := &trace{}
	ad.SetFullScreenCallback(tr.callback())

	ad.Show(context.Background(), nil)
	clock.Advance(5 * time.Second)
	ad.Show(context.Background(), nil)
	clock.Advance(0)

	assert.Equal(t, []string{"showed", "dismissed", "failed:already_shown"}, tr.get())
}

func TestShowFailureRate(t *testing.T) {
	cfg := testConfig()
	cfg.ShowFailureRate = 1
	ad, clock := loadAd(t, cfg)
	tr := &trace{}
	ad.SetFullScreenCallback(tr.callback())

	ad.Show(context.Background(), func(ads.Reward) { tr.add("reward") })
	clock.Advance(10 * time.Second)

	assert.Equal(t, []string{"failed:not_ready"}, tr.get())
}

func TestShowClosedEarlyWithoutReward(t *testing.T) {
	ad, clock := loadAd(t, testConfig())
	tr := &trace{}
	ad.SetFullScreenCallback(tr.callback())

	ctx, cancel := context.WithCancel(context.Background())
	ad.Show(ctx, func(ads.Reward) { tr.add("reward") })
	clock.Advance(time.Second)
	cancel()

	assert.Eventually(t, func() bool {
		return len(tr.get()) == 2
	}, time.Second, 5*time.Millisecond)

	clock.Advance(10 * time.Second)
	assert.Equal(t, []string{"showed", "dismissed"}, tr.get())
}

func TestShowCancelledBeforeStart(t *testing.T) {
	ad, clock := loadAd(t, testConfig())
	tr := &trace{}
	ad.SetFullScreenCallback(tr.callback())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ad.Show(ctx, nil)
	clock.Advance(10 * time.Second)

	assert.Equal(t, []string{"failed:not_ready"}, tr.get())
}

func TestNetworkDrivesSlot(t *testing.T) {
	clock := adstest.NewClock(epoch)
	n := New(testConfig(), StaticInventory{{ID: 1, Duration: 3 * time.Second}}, WithClock(clock))
	slot := ads.NewSlot("unit", n, ads.WithClock(clock))
	rec := &adstest.Recorder{}

	slot.Load(context.Background(), nil)
	assert.Equal(t, ads.StateLoading, slot.State())
	clock.Advance(time.Second)
	require.True(t, slot.CanShow())

	slot.Show(context.Background(), rec.Record)
	clock.Advance(3 * time.Second)

	assert.Equal(t, []ads.Event{
		ads.Opened{},
		ads.EarnedReward{Reward: ads.Reward{Type: "coins", Amount: 1}},
		ads.Closed{},
	}, rec.Events())
	assert.Equal(t, ads.StateEmpty, slot.State())
}
