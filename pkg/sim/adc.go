package sim

import (
	"sync"

	"github.com/itohio/apelscan/pkg/adc"
)

// Source returns the voltage present on an analog pin.
type Source func() float32

// Special multiplexer inputs.
const (
	muxBandgap = 0x0E
	muxGround  = 0x0F
)

// ADCConfig configures the simulated converter.
type ADCConfig struct {
	Supply    float32 // AVcc (V)
	Bandgap   float32 // Internal reference (V)
	External  float32 // Voltage on AREF (V)
	BusyPolls int     // Control reads that still report ADSC after a start
}

// ADC models the ATmega328P converter registers.
type ADC struct {
	mu  sync.Mutex
	cfg ADCConfig

	mux     uint8
	control uint8
	result  uint16
	busy    int

	sources     map[uint8]Source
	conversions map[uint8]int
}

// Ensure ADC implements adc.Registers.
var _ adc.Registers = (*ADC)(nil)

// NewADC creates a converter with all channels floating at 0V.
func NewADC(cfg ADCConfig) *ADC {
	return &ADC{
		cfg:         cfg,
		sources:     make(map[uint8]Source),
		conversions: make(map[uint8]int),
	}
}

// Connect attaches src to channel.
func (a *ADC) Connect(channel uint8, src Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sources[channel&adc.MuxMask] = src
}

func (a *ADC) Mux() uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mux
}

func (a *ADC) SetMux(v uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mux = v
}

// SetControl starts a conversion when ADSC is written with the ADC enabled.
// The result is computed immediately and ADSC clears after BusyPolls reads.
func (a *ADC) SetControl(v uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if v&adc.ADEN == 0 {
		v &^= adc.ADSC
	}
	if v&adc.ADSC != 0 && a.control&adc.ADSC == 0 {
		a.result = a.convert()
		a.busy = a.cfg.BusyPolls
		a.conversions[a.mux&adc.MuxMask]++
	}
	a.control = v
}

func (a *ADC) Control() uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.control&adc.ADSC != 0 {
		if a.busy > 0 {
			a.busy--
		} else {
			a.control &^= adc.ADSC
			a.control |= adc.ADIF
		}
	}
	return a.control
}

func (a *ADC) Result() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Conversions returns how many conversions were started on channel.
func (a *ADC) Conversions(channel uint8) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conversions[channel&adc.MuxMask]
}

// Reference returns the voltage of the selected reference, or 0 for the
// reserved selection.
func (a *ADC) Reference() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reference()
}

func (a *ADC) reference() float32 {
	switch adc.Reference(a.mux & adc.RefMask) {
	case adc.ReferenceExternal:
		return a.cfg.External
	case adc.ReferenceSupply:
		return a.cfg.Supply
	case adc.ReferenceBandgap:
		return a.cfg.Bandgap
	}
	return 0
}

// convert quantizes the selected input against the selected reference.
func (a *ADC) convert() uint16 {
	ref := a.reference()
	if ref <= 0 {
		return 0
	}

	var vin float32
	switch ch := a.mux & adc.MuxMask; ch {
	case muxBandgap:
		vin = a.cfg.Bandgap
	case muxGround:
		vin = 0
	default:
		if src := a.sources[ch]; src != nil {
			vin = src()
		}
	}

	code := vin / ref * 1023
	switch {
	case code <= 0:
		return 0
	case code >= 1023:
		return 1023
	}
	return uint16(code)
}
