// Package game implements the countdown game that hands out coins and
// offers a rewarded video once a round ends.
// It has no UI dependency: the platform layer feeds it time and actions
// and renders State.
package game

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
)

// AdSlot is the part of ads.Slot the controller drives.
type AdSlot interface {
	CanLoad() bool
	Load(ctx context.Context, n ads.Notifier)
	CanShow() bool
	Show(ctx context.Context, onEvent func(ads.Event))
}

var _ AdSlot = (*ads.Slot)(nil)

// Config holds the round parameters.
type Config struct {
	Countdown      time.Duration // Length of one round
	GameOverReward int           // Coins granted when a round ends
}

// DefaultConfig returns a ten second round worth one coin.
func DefaultConfig() Config {
	return Config{
		Countdown:      10 * time.Second,
		GameOverReward: 1,
	}
}

// State is a snapshot for rendering.
type State struct {
	Coins            int
	Remaining        int // Whole seconds left, rounded up
	Paused           bool
	GameOver         bool
	ShowVideoVisible bool
	RetryVisible     bool
	Watching         bool
}

// Controller runs rounds and trades ad rewards for coins.
// It is not safe for concurrent use; callers serialize access the way a
// Bubble Tea model does.
type Controller struct {
	slot     AdSlot
	notifier ads.Notifier
	cfg      Config
	logger   *log.Logger

	coins     int
	started   bool
	paused    bool
	over      bool
	deadline  time.Time
	remaining time.Duration // Authoritative while paused or over

	showVideoVisible bool
	retryVisible     bool

	watching   bool
	cancelShow context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a controller for slot. Load progress is reported to notifier.
func New(slot AdSlot, notifier ads.Notifier, cfg Config, opts ...Option) *Controller {
	if cfg.Countdown <= 0 {
		cfg.Countdown = DefaultConfig().Countdown
	}
	if cfg.GameOverReward < 0 {
		cfg.GameOverReward = 0
	}
	c := &Controller{
		slot:      slot,
		notifier:  notifier,
		cfg:       cfg,
		logger:    log.New(io.Discard),
		remaining: cfg.Countdown,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a new round. Coins carry over between rounds.
func (c *Controller) Start(now time.Time) {
	c.retryVisible = false
	c.showVideoVisible = false
	c.loadAd()

	c.started = true
	c.deadline = now.Add(c.cfg.Countdown)
	c.remaining = c.cfg.Countdown
	c.paused = false
	c.over = false
	c.logger.Debug("round started", "countdown", c.cfg.Countdown)
}

// Tick advances the countdown to now and ends the round once it runs out.
func (c *Controller) Tick(now time.Time) {
	if !c.started || c.paused || c.over {
		return
	}
	c.remaining = c.deadline.Sub(now)
	if c.remaining > 0 {
		return
	}

	c.remaining = 0
	c.over = true
	c.showVideoVisible = true
	c.retryVisible = true
	c.addCoins(c.cfg.GameOverReward)
	c.logger.Info("round over", "coins", c.coins)
}

// Pause freezes the countdown.
func (c *Controller) Pause(now time.Time) {
	if !c.started || c.paused || c.over {
		return
	}
	c.Tick(now)
	if c.over {
		return
	}
	c.paused = true
}

// Resume restarts a paused countdown with the time that was left.
func (c *Controller) Resume(now time.Time) {
	if c.over || !c.paused {
		return
	}
	c.deadline = now.Add(c.remaining)
	c.paused = false
}

// TogglePause pauses a running round or resumes a paused one.
func (c *Controller) TogglePause(now time.Time) {
	if c.paused {
		c.Resume(now)
		return
	}
	c.Pause(now)
}

// ShowVideo plays the loaded ad. Events are handed to deliver, which must
// route them back to HandleAdEvent on the caller's goroutine.
// Without a showable ad it requests one instead and returns.
func (c *Controller) ShowVideo(parent context.Context, deliver func(ads.Event)) {
	if c.watching {
		return
	}
	if !c.slot.CanShow() {
		c.loadAd()
		return
	}

	ctx, cancel := context.WithCancel(parent)
	c.cancelShow = cancel
	c.watching = true
	c.showVideoVisible = false
	c.slot.Show(ctx, deliver)
}

// SkipVideo closes the ad being watched. The ad reports Closed without a reward.
func (c *Controller) SkipVideo() {
	if !c.watching || c.cancelShow == nil {
		return
	}
	c.logger.Debug("skipping ad")
	c.cancelShow()
}

// HandleAdEvent applies one outcome of ShowVideo.
func (c *Controller) HandleAdEvent(ev ads.Event) {
	switch ev := ev.(type) {
	case ads.Opened:
		c.logger.Debug("ad showed fullscreen content")
	case ads.EarnedReward:
		c.addCoins(ev.Reward.Amount)
		c.logger.Info("user earned the reward", "type", ev.Reward.Type, "amount", ev.Reward.Amount)
	case ads.Closed:
		c.logger.Debug("ad was dismissed")
		c.finishWatching()
		c.loadAd()
	case ads.Failed:
		c.logger.Warn("ad failed to show", "err", ev.Err)
		c.finishWatching()
		c.loadAd()
	}
}

// Apply performs a player action at now. It reports whether the action was
// consumed by the game; Back and Quit are left to the caller.
func (c *Controller) Apply(ctx context.Context, a Action, now time.Time, deliver func(ads.Event)) bool {
	switch a {
	case ActionRetry:
		if !c.retryVisible || c.watching {
			return false
		}
		c.Start(now)
	case ActionWatch:
		if !c.showVideoVisible {
			return false
		}
		c.ShowVideo(ctx, deliver)
	case ActionPause:
		if c.watching {
			return false
		}
		c.TogglePause(now)
	case ActionSkip:
		if !c.watching {
			return false
		}
		c.SkipVideo()
	default:
		return false
	}
	return true
}

// State returns the current snapshot.
func (c *Controller) State() State {
	return State{
		Coins:            c.coins,
		Remaining:        ceilSeconds(c.remaining),
		Paused:           c.paused,
		GameOver:         c.over,
		ShowVideoVisible: c.showVideoVisible,
		RetryVisible:     c.retryVisible,
		Watching:         c.watching,
	}
}

func (c *Controller) finishWatching() {
	c.watching = false
	if c.cancelShow != nil {
		c.cancelShow()
		c.cancelShow = nil
	}
}

func (c *Controller) loadAd() {
	if !c.slot.CanLoad() {
		return
	}
	c.slot.Load(context.Background(), c.notifier)
}

func (c *Controller) addCoins(n int) {
	if n <= 0 {
		return
	}
	c.coins += n
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
