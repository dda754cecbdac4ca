// Package sim models the APEL Scan hardware so the panel firmware can run on
// a desktop: the character display controller, the ADC register file, the
// push-buttons and the analog front end.
package sim

import (
	"sync"
	"time"

	"github.com/itohio/apelscan/pkg/config"
	"github.com/itohio/apelscan/pkg/scan"
)

// Board wires the simulated parts the way the fixture is wired.
type Board struct {
	LCD     *HD44780
	ADC     *ADC
	Buttons *Buttons
	Signal  *Integrator

	mu   sync.RWMutex
	bias float32
}

// NewBoard builds a board from cfg. now drives the integrator clock and
// defaults to time.Now.
func NewBoard(cfg *config.Config, now func() time.Time) *Board {
	b := &Board{
		LCD: NewHD44780(),
		ADC: NewADC(ADCConfig{
			Supply:    cfg.Sim.Supply,
			Bandgap:   cfg.Sim.Bandgap,
			BusyPolls: cfg.Sim.BusyPolls,
		}),
		Buttons: NewButtons(cfg.Sim.PressTicks),
		Signal:  NewIntegrator(cfg.Sim.SignalPeak, cfg.Sim.RiseTime, cfg.Sim.Ripple, now),
		bias:    cfg.Sim.BiasVoltage,
	}

	peak := cfg.Calibration.Peak
	biasDiv := cfg.Calibration.Bias
	b.ADC.Connect(scan.PeakChannel, func() float32 {
		return peak.Pin(b.Signal.Level())
	})
	b.ADC.Connect(scan.BiasChannel, func() float32 {
		return biasDiv.Pin(b.Bias())
	})

	return b
}

// SetBias sets the SiPM bias voltage ahead of the divider.
func (b *Board) SetBias(v float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bias = v
}

// Bias returns the SiPM bias voltage ahead of the divider.
func (b *Board) Bias() float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bias
}
