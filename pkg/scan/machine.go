package scan

import "github.com/itohio/apelscan/pkg/calib"

// Mode is the operating mode selected by the front panel buttons.
type Mode uint8

const (
	Idle        Mode = iota // Welcome screen, nothing sampled
	Running                 // Capturing the peak integrator level
	Stopped                 // Showing the captured peak
	ReadingBias             // Continuously showing the SiPM bias
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case ReadingBias:
		return "bias"
	default:
		return "unknown"
	}
}

// ADC channels wired to the analog front end.
const (
	PeakChannel uint8 = 7
	BiasChannel uint8 = 1
)

// Buttons is a snapshot of the button levels. Pressed is true.
type Buttons struct {
	Start    bool
	Stop     bool
	ReadBias bool
}

// State is everything the controller carries between loop iterations.
type State struct {
	Mode Mode
	Peak uint16 // Largest raw count seen since the last Start
}

// EffectKind identifies a side effect requested by the state machine.
type EffectKind uint8

const (
	UseSupplyReference EffectKind = iota
	UseBandgapReference
	ShowRunning
	ShowPeak
	ShowBiasLabel
	ShowBias
)

func (k EffectKind) String() string {
	switch k {
	case UseSupplyReference:
		return "supply-ref"
	case UseBandgapReference:
		return "bandgap-ref"
	case ShowRunning:
		return "show-running"
	case ShowPeak:
		return "show-peak"
	case ShowBiasLabel:
		return "show-bias-label"
	case ShowBias:
		return "show-bias"
	default:
		return "unknown"
	}
}

// Effect is a side effect to perform on the hardware. Volts is set for
// ShowPeak and ShowBias.
type Effect struct {
	Kind  EffectKind
	Volts float32
}

// Machine is the pure mode state machine. Peak and Bias convert raw counts
// from the peak and bias channels respectively and are not interchangeable.
type Machine struct {
	Peak calib.Divider
	Bias calib.Divider
}

// DefaultMachine uses the calibrations of the production front end.
var DefaultMachine = Machine{Peak: calib.Peak, Bias: calib.Bias}

// Press applies a button snapshot. Only one button is honoured per call, in
// priority order Start, Stop, ReadBias. A held button repeats its transition.
func (m Machine) Press(s State, b Buttons) (State, []Effect) {
	switch {
	case b.Start:
		return State{Mode: Running}, []Effect{
			{Kind: UseBandgapReference},
			{Kind: ShowRunning},
		}
	case b.Stop:
		s.Mode = Stopped
		return s, []Effect{
			{Kind: ShowPeak, Volts: m.Peak.Convert(s.Peak)},
		}
	case b.ReadBias:
		s.Mode = ReadingBias
		return s, []Effect{
			{Kind: UseSupplyReference},
			{Kind: ShowBiasLabel},
		}
	}
	return s, nil
}

// Channel returns the ADC channel sampled in mode m. ok is false for modes
// that do not sample.
func Channel(m Mode) (ch uint8, ok bool) {
	switch m {
	case Running:
		return PeakChannel, true
	case ReadingBias:
		return BiasChannel, true
	}
	return 0, false
}

// Sample applies a raw count read from Channel(s.Mode).
func (m Machine) Sample(s State, raw uint16) (State, []Effect) {
	switch s.Mode {
	case Running:
		if raw > s.Peak {
			s.Peak = raw
		}
	case ReadingBias:
		return s, []Effect{
			{Kind: ShowBias, Volts: m.Bias.Convert(raw)},
		}
	}
	return s, nil
}
