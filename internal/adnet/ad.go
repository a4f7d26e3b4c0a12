package adnet

import (
	"context"
	"sync"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
)

// rewardedAd is a filled ad. It can be shown once.
type rewardedAd struct {
	network *Network
	info    ads.AdInfo
	reward  ads.Reward

	mu       sync.Mutex
	callback ads.FullScreenCallback
	shown    bool
}

func (a *rewardedAd) Info() ads.AdInfo {
	return a.info
}

func (a *rewardedAd) SetFullScreenCallback(cb ads.FullScreenCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callback = cb
}

// Show plays the ad: showed, then after the creative duration the reward
// and the dismissal. Cancelling ctx during playback dismisses the ad
// without a reward.
func (a *rewardedAd) Show(ctx context.Context, onReward func(ads.Reward)) {
	a.mu.Lock()
	cb := a.callback
	again := a.shown
	a.shown = true
	a.mu.Unlock()

	clock := a.network.clock
	logger := a.network.logger

	if again {
		clock.AfterFunc(0, func() {
			failed(cb, ads.NewShowError(ads.CodeAlreadyShown, "ad was already shown"))
		})
		return
	}
	if a.network.rollShowFailure() {
		clock.AfterFunc(0, func() {
			failed(cb, ads.NewShowError(ads.CodeNotReady, "ad could not be rendered"))
		})
		return
	}

	var (
		mu       sync.Mutex
		done     bool
		playback ads.Timer
	)
	// end runs the final callbacks once, whichever path gets there first.
	end := func(completed bool) {
		mu.Lock()
		if done {
			mu.Unlock()
			return
		}
		done = true
		mu.Unlock()

		if completed && onReward != nil {
			onReward(a.reward)
		}
		if cb.OnDismissed != nil {
			cb.OnDismissed()
		}
	}

	clock.AfterFunc(0, func() {
		if err := ctx.Err(); err != nil {
			failed(cb, ads.NewShowError(ads.CodeNotReady, "show cancelled before start: %v", err))
			return
		}
		if cb.OnShowed != nil {
			cb.OnShowed()
		}
		logger.Debug("playback started", "response_id", a.info.ResponseID, "duration", a.info.Duration)

		mu.Lock()
		playback = clock.AfterFunc(a.info.Duration, func() { end(true) })
		mu.Unlock()
	})

	if ctx.Done() == nil {
		return
	}
	go func() {
		<-ctx.Done()
		mu.Lock()
		t := playback
		mu.Unlock()
		// Only cut playback short once it has started
		if t != nil && t.Stop() {
			logger.Debug("playback closed early", "response_id", a.info.ResponseID)
			end(false)
		}
	}()
}

func failed(cb ads.FullScreenCallback, err error) {
	if cb.OnFailedToShow != nil {
		cb.OnFailedToShow(err)
	}
}
