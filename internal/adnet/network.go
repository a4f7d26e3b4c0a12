// Package adnet simulates a rewarded-ad serving network.
//
// Loads complete after a random latency and fill according to a configured
// fill rate, picking a creative from an Inventory. Loaded ads play for the
// creative's duration, grant the configured reward and dismiss themselves.
// All callbacks of one ad run in order on timer goroutines.
package adnet

import (
	"context"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
)

// Creative is a servable ad.
type Creative struct {
	ID         int64
	Advertiser string
	Title      string
	Duration   time.Duration
	Weight     int // Relative selection weight; values below 1 count as 1
}

// Inventory supplies the creatives the network can serve.
type Inventory interface {
	Creatives(ctx context.Context) ([]Creative, error)
}

// StaticInventory is a fixed in-memory Inventory.
type StaticInventory []Creative

// Creatives returns the slice itself.
func (s StaticInventory) Creatives(context.Context) ([]Creative, error) {
	return s, nil
}

// DefaultCreatives is served when no inventory database is available.
var DefaultCreatives = StaticInventory{
	{ID: 1, Advertiser: "Starfall Studios", Title: "Starfall Saga: Chapter II", Duration: 5 * time.Second, Weight: 3},
	{ID: 2, Advertiser: "Byte Bakery", Title: "Fresh Builds Daily", Duration: 4 * time.Second, Weight: 2},
	{ID: 3, Advertiser: "Terminal Tours", Title: "See the World in 80 Columns", Duration: 6 * time.Second, Weight: 1},
}

// Config tunes the simulation.
type Config struct {
	Source          string        // Adapter name reported with every ad
	MinLatency      time.Duration // Lower bound of load latency
	MaxLatency      time.Duration // Upper bound of load latency
	FillRate        float64       // Probability a load returns an ad, 0..1
	ShowFailureRate float64       // Probability a show fails, 0..1
	RewardType      string
	RewardAmount    int
	Seed            int64 // 0 means seed from the current time
}

// DefaultConfig returns a config that fills every request within a second.
func DefaultConfig() Config {
	return Config{
		Source:          "SimulatedRewardedAdapter",
		MinLatency:      300 * time.Millisecond,
		MaxLatency:      1200 * time.Millisecond,
		FillRate:        1.0,
		ShowFailureRate: 0.0,
		RewardType:      "coins",
		RewardAmount:    1,
	}
}

// Network implements ads.Network.
type Network struct {
	cfg    Config
	inv    Inventory
	clock  ads.Clock
	logger *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Network.
type Option func(*Network)

// WithClock overrides the time source used for latency and playback.
func WithClock(c ads.Clock) Option {
	return func(n *Network) { n.clock = c }
}

// WithLogger sets the network logger.
func WithLogger(l *log.Logger) Option {
	return func(n *Network) { n.logger = l }
}

// New creates a simulated network serving from inv.
func New(cfg Config, inv Inventory, opts ...Option) *Network {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if inv == nil {
		inv = DefaultCreatives
	}

	n := &Network{
		cfg:    cfg,
		inv:    inv,
		clock:  ads.SystemClock,
		logger: log.New(io.Discard),
		rng:    rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1)^0x9e3779b97f4a7c15)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var _ ads.Network = (*Network)(nil)

// Load simulates an ad request. The callback runs on a timer goroutine
// once the latency elapses, or as soon as ctx is done.
func (n *Network) Load(ctx context.Context, placementID string, req ads.Request, cb ads.LoadCallback) {
	var once sync.Once
	finish := func(ad ads.Ad, err error) {
		once.Do(func() { cb(ad, err) })
	}

	if placementID == "" {
		n.clock.AfterFunc(0, func() {
			finish(nil, ads.NewLoadError(ads.CodeInvalidRequest, "missing placement id"))
		})
		return
	}

	latency := n.latency()
	n.logger.Debug("load requested", "placement", placementID, "request_id", req.RequestID, "latency", latency)

	fired := make(chan struct{})
	t := n.clock.AfterFunc(latency, func() {
		close(fired)
		ad, err := n.fill(ctx, placementID)
		finish(ad, err)
	})

	if ctx.Done() == nil {
		return
	}
	go func() {
		select {
		case <-ctx.Done():
			if t.Stop() {
				finish(nil, ads.ContextLoadError(ctx.Err()))
			}
		case <-fired:
		}
	}()
}

// fill decides the outcome of a load whose latency has elapsed.
func (n *Network) fill(ctx context.Context, placementID string) (ads.Ad, error) {
	if err := ctx.Err(); err != nil {
		return nil, ads.ContextLoadError(err)
	}

	creatives, err := n.inv.Creatives(ctx)
	if err != nil {
		n.logger.Warn("inventory unavailable", "error", err)
		return nil, ads.NewLoadError(ads.CodeInternal, "inventory unavailable: %v", err)
	}

	creative, ok := n.pick(creatives)
	if !ok {
		n.logger.Debug("no fill", "placement", placementID)
		return nil, ads.NewLoadError(ads.CodeNoFill, "no ad to show")
	}

	ad := &rewardedAd{
		network: n,
		info: ads.AdInfo{
			ResponseID: uuid.NewString(),
			Source:     n.cfg.Source,
			Title:      creative.Title,
			Advertiser: creative.Advertiser,
			Duration:   creative.Duration,
		},
		reward: ads.Reward{Type: n.cfg.RewardType, Amount: n.cfg.RewardAmount},
	}
	n.logger.Debug("filled", "placement", placementID, "creative", creative.ID, "response_id", ad.info.ResponseID)
	return ad, nil
}

// pick rolls the fill rate and chooses a weighted creative.
func (n *Network) pick(creatives []Creative) (Creative, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(creatives) == 0 || n.rng.Float64() >= n.cfg.FillRate {
		return Creative{}, false
	}

	total := 0
	for _, c := range creatives {
		total += max(c.Weight, 1)
	}
	roll := n.rng.IntN(total)
	for _, c := range creatives {
		roll -= max(c.Weight, 1)
		if roll < 0 {
			return c, true
		}
	}
	return creatives[len(creatives)-1], true
}

func (n *Network) latency() time.Duration {
	lo, hi := n.cfg.MinLatency, n.cfg.MaxLatency
	if hi <= lo {
		return max(lo, 0)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return lo + time.Duration(n.rng.Int64N(int64(hi-lo)))
}

func (n *Network) rollShowFailure() bool {
	if n.cfg.ShowFailureRate <= 0 {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rng.Float64() < n.cfg.ShowFailureRate
}
