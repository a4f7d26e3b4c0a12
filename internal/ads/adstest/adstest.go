// Package adstest provides a manual clock and a scripted ad network for
// tests of code built on package ads.
package adstest

import (
	"context"
	"sync"
	"time"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
)

// Clock is an ads.Clock that only moves when told to.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer
}

type timer struct {
	clock   *Clock
	when    time.Time
	f       func()
	stopped bool
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewClock returns a clock reading start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run during a later Advance.
func (c *Clock) AfterFunc(d time.Duration, f func()) ads.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &timer{clock: c, when: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, running every timer that falls due
// in deadline order on the calling goroutine. Timers scheduled by those
// callbacks run too if they fall inside the window.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := -1
		for i, t := range c.timers {
			if t.stopped || t.when.After(target) {
				continue
			}
			if next < 0 || t.when.Before(c.timers[next].when) {
				next = i
			}
		}
		if next < 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		t := c.timers[next]
		c.timers = append(c.timers[:next], c.timers[next+1:]...)
		t.stopped = true
		if t.when.After(c.now) {
			c.now = t.when
		}
		c.mu.Unlock()

		t.f()
	}
}

// Network is an ads.Network whose loads stay pending until resolved.
type Network struct {
	mu      sync.Mutex
	pending []*PendingLoad
}

// PendingLoad is one captured Load call.
type PendingLoad struct {
	Ctx         context.Context
	PlacementID string
	Request     ads.Request

	cb   ads.LoadCallback
	once sync.Once
}

// Succeed completes the load with ad.
func (p *PendingLoad) Succeed(ad ads.Ad) {
	p.once.Do(func() { p.cb(ad, nil) })
}

// Fail completes the load with err.
func (p *PendingLoad) Fail(err error) {
	p.once.Do(func() { p.cb(nil, err) })
}

// NewNetwork returns an empty scripted network.
func NewNetwork() *Network {
	return &Network{}
}

// Load records the request.
func (n *Network) Load(ctx context.Context, placementID string, req ads.Request, cb ads.LoadCallback) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, &PendingLoad{
		Ctx:         ctx,
		PlacementID: placementID,
		Request:     req,
		cb:          cb,
	})
}

// Loads returns how many Load calls were made.
func (n *Network) Loads() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// Last returns the most recent Load call, or nil.
func (n *Network) Last() *PendingLoad {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pending) == 0 {
		return nil
	}
	return n.pending[len(n.pending)-1]
}

// Call returns the i-th Load call.
func (n *Network) Call(i int) *PendingLoad {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending[i]
}

// Ad is a scripted ads.Ad. Tests drive its callbacks directly.
type Ad struct {
	info ads.AdInfo

	mu       sync.Mutex
	cb       ads.FullScreenCallback
	onReward func(ads.Reward)
	showCtx  context.Context
	shows    int
}

// NewAd returns an ad reporting info.
func NewAd(info ads.AdInfo) *Ad {
	return &Ad{info: info}
}

// Info returns the ad description.
func (a *Ad) Info() ads.AdInfo {
	return a.info
}

// SetFullScreenCallback stores cb.
func (a *Ad) SetFullScreenCallback(cb ads.FullScreenCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cb = cb
}

// Show records the call.
func (a *Ad) Show(ctx context.Context, onReward func(ads.Reward)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shows++
	a.showCtx = ctx
	a.onReward = onReward
}

// Shows returns how many times Show was called.
func (a *Ad) Shows() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shows
}

// ShowContext returns the context passed to the last Show.
func (a *Ad) ShowContext() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.showCtx
}

// Open fires OnShowed.
func (a *Ad) Open() {
	if cb := a.callback().OnShowed; cb != nil {
		cb()
	}
}

// Reward fires the reward callback of the last Show.
func (a *Ad) Reward(r ads.Reward) {
	a.mu.Lock()
	f := a.onReward
	a.mu.Unlock()
	if f != nil {
		f(r)
	}
}

// Dismiss fires OnDismissed.
func (a *Ad) Dismiss() {
	if cb := a.callback().OnDismissed; cb != nil {
		cb()
	}
}

// FailToShow fires OnFailedToShow.
func (a *Ad) FailToShow(err error) {
	if cb := a.callback().OnFailedToShow; cb != nil {
		cb(err)
	}
}

func (a *Ad) callback() ads.FullScreenCallback {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cb
}

// Recorder collects events in delivery order.
type Recorder struct {
	mu     sync.Mutex
	events []ads.Event
}

// Record appends ev. Its method value is a valid Show callback.
func (r *Recorder) Record(ev ads.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []ads.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ads.Event(nil), r.events...)
}

// Notes collects notifier messages.
type Notes struct {
	mu    sync.Mutex
	texts []string
}

// Notify appends text.
func (n *Notes) Notify(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
}

// Texts returns a copy of the collected messages.
func (n *Notes) Texts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.texts...)
}
