// Package ads owns the lifecycle of rewarded ad slots.
//
// A Slot holds at most one ad for a placement and moves between three
// states: empty, loading and loaded. The ad itself comes from a Network,
// the ad-serving collaborator, which reports every outcome asynchronously
// through callbacks.
package ads

import (
	"context"
	"time"
)

// Reward is the in-app reward granted when the viewer completes an ad.
type Reward struct {
	Type   string
	Amount int
}

// AdInfo describes a loaded ad.
type AdInfo struct {
	ResponseID string
	Source     string // Adapter that served the ad
	Title      string
	Advertiser string
	Duration   time.Duration
}

// Request carries per-request targeting.
type Request struct {
	RequestID string
	Keywords  []string
}

// FullScreenCallback receives the full-screen lifecycle of a shown ad.
// Any field may be nil.
type FullScreenCallback struct {
	OnShowed       func()
	OnDismissed    func()
	OnFailedToShow func(err error)
}

// Ad is a loaded rewarded ad handle.
type Ad interface {
	Info() AdInfo

	// SetFullScreenCallback registers the lifecycle callback used by the
	// next Show.
	SetFullScreenCallback(cb FullScreenCallback)

	// Show presents the ad. onReward fires when the viewer earns the reward.
	// Cancelling ctx closes the ad early.
	Show(ctx context.Context, onReward func(Reward))
}

// LoadCallback receives the outcome of a Network.Load. Exactly one of ad
// and err is non-nil.
type LoadCallback func(ad Ad, err error)

// Network is the ad-serving collaborator.
type Network interface {
	// Load requests an ad for placementID and reports the outcome through cb.
	// It returns immediately.
	Load(ctx context.Context, placementID string, req Request, cb LoadCallback)
}

// Notifier displays short transient messages to the user.
type Notifier interface {
	Notify(text string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(text string)

// Notify calls f(text).
func (f NotifierFunc) Notify(text string) {
	f(text)
}
