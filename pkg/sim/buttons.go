package sim

import (
	"sync"

	"github.com/itohio/apelscan/pkg/scan"
)

// Button identifies a front panel button.
type Button int

const (
	StartButton Button = iota
	StopButton
	BiasButton
)

func (b Button) String() string {
	switch b {
	case StartButton:
		return "start"
	case StopButton:
		return "stop"
	case BiasButton:
		return "bias"
	default:
		return "unknown"
	}
}

// Buttons simulates the push-buttons. A press keeps the line high for a
// number of reads, the way a finger stays on a button across many loop
// iterations.
type Buttons struct {
	mu    sync.Mutex
	hold  int
	count [3]int
	held  [3]bool
}

// Ensure Buttons implements scan.ButtonReader.
var _ scan.ButtonReader = (*Buttons)(nil)

// NewButtons creates buttons whose presses last hold reads (at least one).
func NewButtons(hold int) *Buttons {
	if hold < 1 {
		hold = 1
	}
	return &Buttons{hold: hold}
}

// Press asserts b for the configured number of reads.
func (s *Buttons) Press(b Button) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count[b] = s.hold
}

// Hold keeps b asserted until released.
func (s *Buttons) Hold(b Button, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[b] = down
}

// ReadButtons samples all lines and counts down pending presses.
func (s *Buttons) ReadButtons() scan.Buttons {
	s.mu.Lock()
	defer s.mu.Unlock()

	var level [3]bool
	for i := range level {
		level[i] = s.held[i] || s.count[i] > 0
		if s.count[i] > 0 {
			s.count[i]--
		}
	}
	return scan.Buttons{
		Start:    level[StartButton],
		Stop:     level[StopButton],
		ReadBias: level[BiasButton],
	}
}
