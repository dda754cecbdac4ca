// Package scan implements the front panel of the APEL Scan fixture: three
// buttons select a mode, the ADC is sampled according to the mode and the
// result is rendered on a 16x2 character display.
package scan

import (
	"context"
	"log"
	"time"

	"github.com/itohio/apelscan/pkg/lcd"
)

// ButtonReader samples the button input levels.
type ButtonReader interface {
	ReadButtons() Buttons
}

// AnalogChannelReader performs blocking single conversions.
type AnalogChannelReader interface {
	InitSupply()
	InitBandgap()
	Read(channel uint8) uint16
}

// DisplayWriter is the character display.
type DisplayWriter interface {
	Init()
	Command(c byte)
	Data(b byte)
	Print(s string)
	Write(p []byte) (int, error)
}

// GlyphLoader is implemented by displays with programmable characters.
type GlyphLoader interface {
	LoadGlyphs(glyphs []lcd.Glyph)
}

// DefaultWelcomeDelay is how long the welcome screen is held before polling
// starts.
const DefaultWelcomeDelay = 10 * time.Millisecond

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Machine      Machine             // DefaultMachine if both calibrations are zero
	Banner       string              // DefaultBanner if empty
	WelcomeDelay time.Duration       // DefaultWelcomeDelay if zero
	Period       time.Duration       // Pause between iterations in Run, none if zero
	Sleep        func(time.Duration) // time.Sleep if nil
	Logger       *log.Logger         // Mode changes are logged when set
}

// Controller runs the polling loop. It is not safe for concurrent use.
type Controller struct {
	buttons ButtonReader
	analog  AnalogChannelReader
	display DisplayWriter
	machine Machine
	render  renderer
	state   State

	welcomeDelay time.Duration
	period       time.Duration
	sleep        func(time.Duration)
	logger       *log.Logger
}

// New creates a Controller in Idle mode.
func New(buttons ButtonReader, analog AnalogChannelReader, display DisplayWriter, opts Options) *Controller {
	if opts.Machine == (Machine{}) {
		opts.Machine = DefaultMachine
	}
	if opts.Banner == "" {
		opts.Banner = DefaultBanner
	}
	if opts.WelcomeDelay == 0 {
		opts.WelcomeDelay = DefaultWelcomeDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	return &Controller{
		buttons:      buttons,
		analog:       analog,
		display:      display,
		machine:      opts.Machine,
		render:       renderer{display: display, banner: opts.Banner},
		welcomeDelay: opts.WelcomeDelay,
		period:       opts.Period,
		sleep:        opts.Sleep,
		logger:       opts.Logger,
	}
}

// Start initializes the display, loads the logo glyphs and shows the welcome
// screen.
func (c *Controller) Start() {
	c.display.Init()
	if gl, ok := c.display.(GlyphLoader); ok {
		gl.LoadGlyphs(lcd.Logo)
	}
	c.render.welcome()
	c.sleep(c.welcomeDelay)
}

// Tick runs one loop iteration: buttons first, then at most one conversion
// for the current mode.
func (c *Controller) Tick() {
	next, effects := c.machine.Press(c.state, c.buttons.ReadButtons())
	c.apply(next, effects)

	ch, ok := Channel(c.state.Mode)
	if !ok {
		return
	}
	next, effects = c.machine.Sample(c.state, c.analog.Read(ch))
	c.apply(next, effects)
}

// Run calls Tick until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.Tick()
		if c.period > 0 {
			c.sleep(c.period)
		}
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.state.Mode
}

func (c *Controller) apply(next State, effects []Effect) {
	if c.logger != nil && next.Mode != c.state.Mode {
		c.logger.Printf("mode %v -> %v", c.state.Mode, next.Mode)
	}
	c.state = next

	for _, e := range effects {
		switch e.Kind {
		case UseSupplyReference:
			c.analog.InitSupply()
		case UseBandgapReference:
			c.analog.InitBandgap()
		case ShowRunning:
			c.render.running()
		case ShowPeak:
			c.render.peak(e.Volts)
		case ShowBiasLabel:
			c.render.biasLabel()
		case ShowBias:
			c.render.reading(e.Volts)
		}
	}
}
