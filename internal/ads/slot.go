package ads

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ValidFor is how long a loaded ad stays showable after its load completes.
const ValidFor = time.Hour

// State is the observable load state of a Slot.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// loadStatus is the tagged state held by a Slot.
type loadStatus interface {
	state() State
}

type statusEmpty struct{}

func (statusEmpty) state() State { return StateEmpty }

type statusLoading struct {
	gen uint64
}

func (statusLoading) state() State { return StateLoading }

type statusLoaded struct {
	ad         Ad
	validUntil time.Time
	gen        uint64
}

func (statusLoaded) state() State { return StateLoaded }

// Slot manages the load/show lifecycle of one rewarded ad placement.
// Methods are safe for concurrent use; callbacks from the Network may
// arrive on any goroutine.
type Slot struct {
	placementID string
	network     Network
	clock       Clock
	logger      *log.Logger
	loadTimeout time.Duration

	mu     sync.Mutex
	status loadStatus
	gen    uint64 // Incremented on every Load; stale completions are dropped
}

// Option configures a Slot.
type Option func(*Slot)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Slot) { s.clock = c }
}

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Slot) { s.logger = l }
}

// WithLoadTimeout bounds every Load request. Zero means no bound.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Slot) { s.loadTimeout = d }
}

// NewSlot creates an empty slot for placementID.
func NewSlot(placementID string, network Network, opts ...Option) *Slot {
	s := &Slot{
		placementID: placementID,
		network:     network,
		clock:       SystemClock,
		logger:      log.New(io.Discard),
		status:      statusEmpty{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlacementID returns the placement this slot serves.
func (s *Slot) PlacementID() string {
	return s.placementID
}

// State returns the current load state.
func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.state()
}

// ValidUntil returns the expiry of the held ad, if one is loaded.
func (s *Slot) ValidUntil() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status.(statusLoaded)
	if !ok {
		return time.Time{}, false
	}
	return st.validUntil, true
}

// Loaded returns the info of the held ad, if one is loaded.
func (s *Slot) Loaded() (AdInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status.(statusLoaded)
	if !ok {
		return AdInfo{}, false
	}
	return st.ad.Info(), true
}

// CanLoad reports whether Load may be called: the slot is empty or holds an
// ad whose validity has elapsed.
func (s *Slot) CanLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.status.(type) {
	case statusEmpty:
		return true
	case statusLoaded:
		if !st.validUntil.After(s.clock.Now()) {
			s.logger.Debug("ad is stale", "placement", s.placementID, "valid_until", st.validUntil)
			return true
		}
	}
	return false
}

// Load requests a new ad. Callers must check CanLoad first; Load does not.
// The outcome is announced through n and applied to the slot when the
// network responds.
func (s *Slot) Load(ctx context.Context, n Notifier) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.status = statusLoading{gen: gen}
	s.mu.Unlock()

	notify(n, "Start loading ad")

	cancel := context.CancelFunc(func() {})
	if s.loadTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
	}

	req := Request{RequestID: uuid.NewString()}
	s.logger.Debug("requesting ad", "placement", s.placementID, "request_id", req.RequestID)

	s.network.Load(ctx, s.placementID, req, func(ad Ad, err error) {
		cancel()
		s.completeLoad(gen, ad, err, n)
	})
}

func (s *Slot) completeLoad(gen uint64, ad Ad, err error, n Notifier) {
	if err == nil && ad == nil {
		err = NewLoadError(CodeInternal, "network returned neither ad nor error")
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("dropping superseded load result", "placement", s.placementID)
		return
	}
	if err != nil {
		s.status = statusEmpty{}
		s.mu.Unlock()

		s.logger.Info("ad failed to load", "placement", s.placementID, "code", ErrorCodeOf(err), "error", err)
		notify(n, "Ad failed to load: "+err.Error())
		return
	}
	validUntil := s.clock.Now().Add(ValidFor)
	s.status = statusLoaded{ad: ad, validUntil: validUntil, gen: gen}
	s.mu.Unlock()

	info := ad.Info()
	s.logger.Info("ad loaded", "placement", s.placementID, "source", info.Source, "response_id", info.ResponseID)
	notify(n, "Ad loaded: "+info.Source)
}

// CanShow reports whether a loaded ad is held and has not yet expired.
func (s *Slot) CanShow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.status.(statusLoaded)
	if !ok {
		return false
	}
	now := s.clock.Now()
	s.logger.Debug("checking ad validity", "valid_until", st.validUntil, "now", now)
	return now.Before(st.validUntil)
}

// Show presents the held ad and reports its outcomes to onEvent. It does
// nothing unless an ad is loaded. Closed and Failed return the slot to
// empty; each outcome is reported at most once and nothing follows Closed
// or Failed.
func (s *Slot) Show(ctx context.Context, onEvent func(Event)) {
	s.mu.Lock()
	st, ok := s.status.(statusLoaded)
	s.mu.Unlock()
	if !ok {
		return
	}

	a := &showAttempt{slot: s, gen: st.gen, onEvent: onEvent}
	st.ad.SetFullScreenCallback(FullScreenCallback{
		OnShowed:       a.opened,
		OnDismissed:    a.dismissed,
		OnFailedToShow: a.failed,
	})
	st.ad.Show(ctx, a.earned)
}

// release empties the slot if it still holds the ad from load gen.
func (s *Slot) release(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status.(statusLoaded); ok && st.gen == gen {
		s.status = statusEmpty{}
	}
}

// showAttempt filters the callbacks of one Show call.
type showAttempt struct {
	slot    *Slot
	gen     uint64
	onEvent func(Event)

	mu       sync.Mutex
	open     bool
	rewarded bool
	finished bool
}

func (a *showAttempt) opened() {
	a.mu.Lock()
	if a.finished || a.open {
		a.mu.Unlock()
		return
	}
	a.open = true
	a.mu.Unlock()

	a.slot.logger.Debug("ad showed full screen content", "placement", a.slot.placementID)
	a.emit(Opened{})
}

func (a *showAttempt) earned(r Reward) {
	a.mu.Lock()
	if a.finished || a.rewarded {
		a.mu.Unlock()
		return
	}
	a.rewarded = true
	a.mu.Unlock()

	a.slot.logger.Info("reward earned", "placement", a.slot.placementID, "type", r.Type, "amount", r.Amount)
	a.emit(EarnedReward{Reward: r})
}

func (a *showAttempt) dismissed() {
	if !a.finish() {
		return
	}
	a.slot.release(a.gen)
	a.slot.logger.Debug("ad dismissed", "placement", a.slot.placementID)
	a.emit(Closed{})
}

func (a *showAttempt) failed(err error) {
	if !a.finish() {
		return
	}
	if err == nil {
		err = NewShowError(CodeInternal, "unknown show failure")
	}
	a.slot.release(a.gen)
	a.slot.logger.Info("ad failed to show", "placement", a.slot.placementID, "error", err)

	var se *ShowError
	if !errors.As(err, &se) {
		err = &ShowError{Code: CodeInternal, Message: err.Error(), Domain: ErrorDomain}
	}
	a.emit(Failed{Err: err})
}

// finish marks the attempt terminal. It returns false if it already was.
func (a *showAttempt) finish() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished {
		return false
	}
	a.finished = true
	return true
}

func (a *showAttempt) emit(ev Event) {
	if a.onEvent != nil {
		a.onEvent(ev)
	}
}

func notify(n Notifier, text string) {
	if n != nil {
		n.Notify(text)
	}
}
