package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionDrop           // Space - release the pending block
	ActionLeft           // A, Left arrow - nudge the pending block left
	ActionRight          // D, Right arrow - nudge the pending block right
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P, Escape - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionDrop:
		return "Drop"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Pointer carries mouse state for one frame in cell coordinates.
// Pressed and Released are edge-triggered; Moved reports motion with the
// button held.
type Pointer struct {
	X, Y     int
	Pressed  bool
	Released bool
	Moved    bool
}

// Active reports whether the pointer did anything this frame.
func (p Pointer) Active() bool {
	return p.Pressed || p.Released || p.Moved
}

// InputFrame represents the input state for one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool

	// Pointer is the latest mouse state seen during this frame.
	Pointer Pointer
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Press records a mouse press at (x, y).
func (f *InputFrame) Press(x, y int) {
	f.Pointer.X, f.Pointer.Y = x, y
	f.Pointer.Pressed = true
}

// Move records mouse motion with the button held.
func (f *InputFrame) Move(x, y int) {
	f.Pointer.X, f.Pointer.Y = x, y
	f.Pointer.Moved = true
}

// Release records a mouse release at (x, y).
func (f *InputFrame) Release(x, y int) {
	f.Pointer.X, f.Pointer.Y = x, y
	f.Pointer.Released = true
}

// Clear resets all actions and pointer edges for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointer = Pointer{}
}
