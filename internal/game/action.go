package game

// Action represents a semantic player action, abstracted from physical key presses.
// The TUI maps keys to actions so the controller never sees raw input.
type Action int

const (
	ActionNone  Action = iota
	ActionRetry        // R - start a new round once the countdown has ended
	ActionWatch        // V - watch a rewarded video
	ActionPause        // P - pause/unpause the countdown
	ActionSkip         // X - close the ad currently playing
	ActionBack         // B, Escape - leave the game screen
	ActionQuit         // Q, Ctrl+C - exit the session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionRetry:
		return "Retry"
	case ActionWatch:
		return "Watch"
	case ActionPause:
		return "Pause"
	case ActionSkip:
		return "Skip"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
