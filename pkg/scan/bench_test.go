package scan_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/apelscan/pkg/adc"
	"github.com/itohio/apelscan/pkg/config"
	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/scan"
	"github.com/itohio/apelscan/pkg/sim"
)

type bench struct {
	board *sim.Board
	ctrl  *scan.Controller
	now   time.Time
}

func newBench(t *testing.T, cfg *config.Config) *bench {
	t.Helper()
	b := &bench{now: time.Unix(1700000000, 0)}
	b.board = sim.NewBoard(cfg, func() time.Time { return b.now })

	noSleep := func(time.Duration) {}
	display := lcd.New(b.board.LCD, lcd.Config{Sleep: noSleep})
	sampler := adc.New(b.board.ADC, cfg.ADC.CPUHz)
	b.ctrl = scan.New(b.board.Buttons, sampler, display, scan.Options{
		Machine: cfg.Machine(),
		Banner:  cfg.Display.Banner,
		Sleep:   noSleep,
	})
	b.ctrl.Start()
	return b
}

// run advances the simulated clock by step per iteration.
func (b *bench) run(n int, step time.Duration) {
	for i := 0; i < n; i++ {
		b.now = b.now.Add(step)
		b.ctrl.Tick()
	}
}

func (b *bench) lines() [2]string {
	s := b.board.LCD.Screen()
	return [2]string{s.Line(0, '#'), s.Line(1, '#')}
}

func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Sim.Ripple = 0
	cfg.Sim.PressTicks = 1
	return cfg
}

func TestBench_WelcomeScreen(t *testing.T) {
	b := newBench(t, quietConfig())

	assert.Equal(t, [2]string{
		" #.#.#.#. Scan  ",
		"   UNLV  2017   ",
	}, b.lines())

	s := b.board.LCD.Screen()
	for i, g := range lcd.Logo {
		assert.Equal(t, g, s.Glyphs[i])
	}
}

func TestBench_PeakMeasurement(t *testing.T) {
	cfg := quietConfig()
	cfg.Sim.SignalPeak = 3.0
	cfg.Sim.RiseTime = 100 * time.Millisecond
	b := newBench(t, cfg)

	b.board.Buttons.Press(sim.StartButton)
	b.run(1, time.Millisecond)
	assert.Equal(t, scan.Running, b.ctrl.Mode())
	assert.Equal(t, "   Running...   ", b.lines()[1])
	assert.Equal(t, float32(1.1), b.board.ADC.Reference())

	b.run(200, 10*time.Millisecond)

	b.board.Buttons.Press(sim.StopButton)
	b.run(1, time.Millisecond)
	require.Equal(t, scan.Stopped, b.ctrl.Mode())

	lines := b.lines()
	assert.Equal(t, "  Peak Voltage  ", lines[0])
	// 3V through the divider is 0.511V at the pin, 475 counts.
	assert.True(t, strings.HasPrefix(lines[1], "2.99"), "got %q", lines[1])
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[1], " "), " V"))

	peakReads := b.board.ADC.Conversions(scan.PeakChannel)
	b.run(50, 10*time.Millisecond)
	assert.Equal(t, peakReads, b.board.ADC.Conversions(scan.PeakChannel), "stopped mode does not sample")
	assert.Equal(t, lines, b.lines(), "result stays on screen")
}

func TestBench_BiasReading(t *testing.T) {
	cfg := quietConfig()
	cfg.Sim.BiasVoltage = 28.0
	b := newBench(t, cfg)

	b.board.Buttons.Press(sim.BiasButton)
	b.run(3, time.Millisecond)

	assert.Equal(t, scan.ReadingBias, b.ctrl.Mode())
	assert.Equal(t, float32(5.0), b.board.ADC.Reference())
	lines := b.lines()
	assert.Equal(t, "   SiPM Bias    ", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "27.99"), "got %q", lines[1])
	assert.Equal(t, 3, b.board.ADC.Conversions(scan.BiasChannel))

	b.board.SetBias(12.0)
	b.run(1, time.Millisecond)
	assert.True(t, strings.HasPrefix(b.board.LCD.Screen().Line(1, '#'), "11.9"), "got %q", b.lines()[1])
}

func TestBench_RestartClearsPeak(t *testing.T) {
	cfg := quietConfig()
	cfg.Sim.RiseTime = 10 * time.Millisecond
	b := newBench(t, cfg)

	b.board.Buttons.Press(sim.StartButton)
	b.run(50, 10*time.Millisecond)
	first := b.ctrl.State().Peak
	require.NotZero(t, first)

	b.board.Signal.Discharge()
	b.board.Signal.SetTarget(0.5)
	b.board.Buttons.Press(sim.StartButton)
	b.run(50, 10*time.Millisecond)

	second := b.ctrl.State().Peak
	assert.Less(t, second, first, "a new session does not inherit the old peak")
	assert.NotZero(t, second)
}

func TestBench_HeldButtonsFollowPriority(t *testing.T) {
	b := newBench(t, quietConfig())

	b.board.Buttons.Hold(sim.BiasButton, true)
	b.board.Buttons.Hold(sim.StopButton, true)
	b.run(2, time.Millisecond)
	assert.Equal(t, scan.Stopped, b.ctrl.Mode())

	b.board.Buttons.Hold(sim.StartButton, true)
	b.run(2, time.Millisecond)
	assert.Equal(t, scan.Running, b.ctrl.Mode())
	assert.Equal(t, float32(1.1), b.board.ADC.Reference())
}
