package ads

// Event is an outcome reported for one Show call.
type Event interface {
	rewardedEvent()
}

// Opened is sent when the ad covers the screen.
type Opened struct{}

func (Opened) rewardedEvent() {}

// Closed is sent when the viewer dismisses the ad.
type Closed struct{}

func (Closed) rewardedEvent() {}

// Failed is sent when the ad could not be displayed.
type Failed struct {
	Err error
}

func (Failed) rewardedEvent() {}

// EarnedReward is sent when the viewer completes the ad.
type EarnedReward struct {
	Reward Reward
}

func (EarnedReward) rewardedEvent() {}
