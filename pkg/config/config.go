package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/apelscan/pkg/calib"
	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/scan"
)

// Config represents the bench configuration. The firmware uses Default().
type Config struct {
	Calibration CalibrationConfig `yaml:"calibration"`
	ADC         ADCConfig         `yaml:"adc"`
	Display     DisplayConfig     `yaml:"display"`
	Sim         SimConfig         `yaml:"sim"`
}

// CalibrationConfig holds the two front end calibrations.
type CalibrationConfig struct {
	Peak calib.Divider `yaml:"peak"` // Integrator output against the bandgap
	Bias calib.Divider `yaml:"bias"` // SiPM bias against the supply
}

// ADCConfig contains converter clocking.
type ADCConfig struct {
	CPUHz uint32 `yaml:"cpu_hz"` // Core clock the prescaler divides
}

// DisplayConfig contains character display timing and text.
type DisplayConfig struct {
	Settle       time.Duration `yaml:"settle"`        // Hold time around each enable pulse
	WelcomeDelay time.Duration `yaml:"welcome_delay"` // Welcome screen hold
	Banner       string        `yaml:"banner"`        // Second welcome line
}

// SimConfig contains simulated hardware parameters.
type SimConfig struct {
	Supply       float32       `yaml:"supply"`        // AVcc (V)
	Bandgap      float32       `yaml:"bandgap"`       // Internal reference (V)
	BiasVoltage  float32       `yaml:"bias_voltage"`  // SiPM bias before the divider (V)
	SignalPeak   float32       `yaml:"signal_peak"`   // Integrator steady state before the divider (V)
	RiseTime     time.Duration `yaml:"rise_time"`     // Integrator time constant
	Ripple       float32       `yaml:"ripple"`        // Integrator ripple (V)
	LoopPeriod   time.Duration `yaml:"loop_period"`   // Pause between loop iterations
	PressTicks   int           `yaml:"press_ticks"`   // Loop iterations a button press lasts
	BusyPolls    int           `yaml:"busy_polls"`    // Polls before a conversion completes
	DisplaySpeed float64       `yaml:"display_speed"` // Settle time scale, 0 disables delays
}

// Default returns the production configuration.
func Default() *Config {
	return &Config{
		Calibration: CalibrationConfig{
			Peak: calib.Peak,
			Bias: calib.Bias,
		},
		ADC: ADCConfig{
			CPUHz: 1_000_000, // Internal RC oscillator, CKDIV8 fuse set
		},
		Display: DisplayConfig{
			Settle:       lcd.DefaultSettle,
			WelcomeDelay: scan.DefaultWelcomeDelay,
			Banner:       scan.DefaultBanner,
		},
		Sim: SimConfig{
			Supply:       5.0,
			Bandgap:      1.1,
			BiasVoltage:  28.0,
			SignalPeak:   3.0,
			RiseTime:     2 * time.Second,
			Ripple:       0.002,
			LoopPeriod:   5 * time.Millisecond,
			PressTicks:   3,
			BusyPolls:    2,
			DisplaySpeed: 0,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values defaults cannot repair.
func (c *Config) Validate() error {
	if !c.Calibration.Peak.Valid() {
		return fmt.Errorf("invalid peak calibration: %+v", c.Calibration.Peak)
	}
	if !c.Calibration.Bias.Valid() {
		return fmt.Errorf("invalid bias calibration: %+v", c.Calibration.Bias)
	}
	if c.Sim.DisplaySpeed < 0 {
		return fmt.Errorf("invalid display speed: %v", c.Sim.DisplaySpeed)
	}
	return nil
}

// Machine returns the mode state machine for the configured calibrations.
func (c *Config) Machine() scan.Machine {
	return scan.Machine{Peak: c.Calibration.Peak, Bias: c.Calibration.Bias}
}

// ensureDefaults fills fields left empty in the file.
func (c *Config) ensureDefaults() {
	def := Default()

	c.Calibration.Peak = mergeDivider(c.Calibration.Peak, def.Calibration.Peak)
	c.Calibration.Bias = mergeDivider(c.Calibration.Bias, def.Calibration.Bias)

	if c.ADC.CPUHz == 0 {
		c.ADC.CPUHz = def.ADC.CPUHz
	}

	if c.Display.Settle == 0 {
		c.Display.Settle = def.Display.Settle
	}
	if c.Display.WelcomeDelay == 0 {
		c.Display.WelcomeDelay = def.Display.WelcomeDelay
	}
	if c.Display.Banner == "" {
		c.Display.Banner = def.Display.Banner
	}

	if c.Sim.Supply == 0 {
		c.Sim.Supply = def.Sim.Supply
	}
	if c.Sim.Bandgap == 0 {
		c.Sim.Bandgap = def.Sim.Bandgap
	}
	if c.Sim.RiseTime == 0 {
		c.Sim.RiseTime = def.Sim.RiseTime
	}
	if c.Sim.PressTicks == 0 {
		c.Sim.PressTicks = def.Sim.PressTicks
	}
}

func mergeDivider(d, def calib.Divider) calib.Divider {
	if d.VRef == 0 {
		d.VRef = def.VRef
	}
	if d.R1 == 0 {
		d.R1 = def.R1
	}
	if d.R2 == 0 {
		d.R2 = def.R2
	}
	if d.FullScale == 0 {
		d.FullScale = def.FullScale
	}
	return d
}
