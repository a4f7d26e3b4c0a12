package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/ads/adstest"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctrl    *Controller
	slot    *ads.Slot
	network *adstest.Network
	notes   *adstest.Notes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	network := adstest.NewNetwork()
	slot := ads.NewSlot("test-placement", network, ads.WithClock(adstest.NewClock(t0)))
	notes := &adstest.Notes{}
	return &fixture{
		ctrl:    New(slot, notes, DefaultConfig()),
		slot:    slot,
		network: network,
		notes:   notes,
	}
}

// finishRound starts a round and lets it run out, with the ad loaded.
func (f *fixture) finishRound(t *testing.T) *adstest.Ad {
	t.Helper()
	f.ctrl.Start(t0)
	ad := adstest.NewAd(ads.AdInfo{ResponseID: "r-1", Source: "test"})
	f.network.Last().Succeed(ad)
	f.ctrl.Tick(t0.Add(10 * time.Second))
	require.True(t, f.ctrl.State().GameOver)
	return ad
}

func TestStartLoadsAdAndHidesButtons(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Start(t0)

	st := f.ctrl.State()
	assert.Equal(t, 10, st.Remaining)
	assert.False(t, st.ShowVideoVisible)
	assert.False(t, st.RetryVisible)
	assert.False(t, st.GameOver)
	assert.Equal(t, 1, f.network.Loads())
	assert.Equal(t, []string{"Start loading ad"}, f.notes.Texts())
}

func TestStartSkipsLoadWhenAdIsHeld(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Start(t0)
	f.ctrl.Start(t0)

	assert.Equal(t, 1, f.network.Loads(), "a load in flight blocks another")
}

func TestRemainingRoundsUp(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Start(t0)

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{50 * time.Millisecond, 10},
		{999 * time.Millisecond, 10},
		{time.Second, 9},
		{9500 * time.Millisecond, 1},
	}
	for _, tt := range tests {
		f.ctrl.Tick(t0.Add(tt.elapsed))
		assert.Equal(t, tt.want, f.ctrl.State().Remaining, "after %s", tt.elapsed)
	}
}

func TestRoundEndAwardsCoinAndShowsButtons(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Start(t0)

	f.ctrl.Tick(t0.Add(11 * time.Second))

	st := f.ctrl.State()
	assert.True(t, st.GameOver)
	assert.Equal(t, 0, st.Remaining)
	assert.Equal(t, 1, st.Coins)
	assert.True(t, st.ShowVideoVisible)
	assert.True(t, st.RetryVisible)

	f.ctrl.Tick(t0.Add(20 * time.Second))
	assert.Equal(t, 1, f.ctrl.State().Coins, "reward is granted once per round")
}

func TestPauseFreezesCountdown(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Start(t0)

	f.ctrl.Pause(t0.Add(3 * time.Second))
	f.ctrl.Tick(t0.Add(time.Minute))
	st := f.ctrl.State()
	assert.True(t, st.Paused)
	assert.False(t, st.GameOver)
	assert.Equal(t, 7, st.Remaining)

	resumeAt := t0.Add(time.Minute)
	f.ctrl.Resume(resumeAt)
	f.ctrl.Tick(resumeAt.Add(6 * time.Second))
	assert.Equal(t, 1, f.ctrl.State().Remaining)

	f.ctrl.Tick(resumeAt.Add(7 * time.Second))
	assert.True(t, f.ctrl.State().GameOver)
}

func TestResumeIgnoredAfterGameOver(t *testing.T) {
	f := newFixture(t)
	f.finishRound(t)

	f.ctrl.Pause(t0.Add(11 * time.Second))
	f.ctrl.Resume(t0.Add(12 * time.Second))

	st := f.ctrl.State()
	assert.False(t, st.Paused)
	assert.True(t, st.GameOver)
}

func TestShowVideoWithoutAdRequestsOne(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Start(t0)
	f.network.Last().Fail(ads.NewLoadError(ads.CodeNoFill, "no fill"))
	f.ctrl.Tick(t0.Add(10 * time.Second))

	f.ctrl.ShowVideo(context.Background(), f.ctrl.HandleAdEvent)

	assert.Equal(t, 2, f.network.Loads())
	st := f.ctrl.State()
	assert.False(t, st.Watching)
	assert.True(t, st.ShowVideoVisible)
}

func TestWatchVideoEarnsReward(t *testing.T) {
	f := newFixture(t)
	ad := f.finishRound(t)

	f.ctrl.ShowVideo(context.Background(), f.ctrl.HandleAdEvent)
	require.Equal(t, 1, ad.Shows())
	st := f.ctrl.State()
	assert.True(t, st.Watching)
	assert.False(t, st.ShowVideoVisible)

	ad.Open()
	ad.Reward(ads.Reward{Type: "coins", Amount: 10})
	assert.Equal(t, 11, f.ctrl.State().Coins)

	ad.Dismiss()
	assert.False(t, f.ctrl.State().Watching)
	assert.Equal(t, 2, f.network.Loads(), "closing reloads the slot")
	assert.Error(t, ad.ShowContext().Err(), "show context is released")
}

func TestShowFailureReloads(t *testing.T) {
	f := newFixture(t)
	ad := f.finishRound(t)

	f.ctrl.ShowVideo(context.Background(), f.ctrl.HandleAdEvent)
	ad.FailToShow(errors.New("renderer crashed"))

	st := f.ctrl.State()
	assert.False(t, st.Watching)
	assert.Equal(t, 1, st.Coins)
	assert.Equal(t, 2, f.network.Loads())
}

func TestSkipVideoCancelsShow(t *testing.T) {
	f := newFixture(t)
	ad := f.finishRound(t)

	f.ctrl.ShowVideo(context.Background(), f.ctrl.HandleAdEvent)
	f.ctrl.SkipVideo()

	assert.ErrorIs(t, ad.ShowContext().Err(), context.Canceled)
}

func TestShowVideoIgnoredWhileWatching(t *testing.T) {
	f := newFixture(t)
	ad := f.finishRound(t)

	f.ctrl.ShowVideo(context.Background(), f.ctrl.HandleAdEvent)
	f.ctrl.ShowVideo(context.Background(), f.ctrl.HandleAdEvent)

	assert.Equal(t, 1, ad.Shows())
}

func TestApply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.ctrl.Start(t0)

	assert.False(t, f.ctrl.Apply(ctx, ActionRetry, t0, nil), "retry is hidden mid-round")
	assert.False(t, f.ctrl.Apply(ctx, ActionWatch, t0, nil), "watch is hidden mid-round")
	assert.False(t, f.ctrl.Apply(ctx, ActionBack, t0, nil))

	assert.True(t, f.ctrl.Apply(ctx, ActionPause, t0.Add(time.Second), nil))
	assert.True(t, f.ctrl.State().Paused)
	assert.True(t, f.ctrl.Apply(ctx, ActionPause, t0.Add(2*time.Second), nil))
	assert.False(t, f.ctrl.State().Paused)

	f.ctrl.Tick(t0.Add(20 * time.Second))
	require.True(t, f.ctrl.State().RetryVisible)
	assert.True(t, f.ctrl.Apply(ctx, ActionRetry, t0.Add(20*time.Second), nil))
	assert.False(t, f.ctrl.State().GameOver)
}

func TestCoinsNeverNegative(t *testing.T) {
	f := newFixture(t)
	f.ctrl.HandleAdEvent(ads.EarnedReward{Reward: ads.Reward{Type: "coins", Amount: -5}})

	assert.Equal(t, 0, f.ctrl.State().Coins)
}
