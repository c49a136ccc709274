package pipeline

import "time"

// State is the frame loop gating state. It is owned by one goroutine and
// passed into every Tick.
type State struct {
	// Started is set once a player pressed start.
	Started bool
	// Running is set while the video stream is live.
	Running bool
	// LastTimestamp is the media time of the last processed frame, -1 before
	// the first one.
	LastTimestamp time.Duration
}

// NewState returns a halted state that has not seen any frame.
func NewState() *State {
	return &State{LastTimestamp: -1}
}

// StartGame records the start input. Repeated calls are harmless.
func (s *State) StartGame() {
	s.Started = true
}

// StartStream marks the stream live. The game must be started first.
func (s *State) StartStream() error {
	if !s.Started {
		return ErrGameNotStarted
	}
	if !s.Running {
		s.Running = true
		s.LastTimestamp = -1
	}
	return nil
}

// Stop halts the stream. The game stays started so the stream can resume.
func (s *State) Stop() {
	s.Running = false
}

// Active reports whether ticks should process frames.
func (s *State) Active() bool {
	return s.Started && s.Running
}
