package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/apelscan/pkg/adc"
	"github.com/itohio/apelscan/pkg/config"
	"github.com/itohio/apelscan/pkg/scan"
)

func TestBoard_ChannelsFollowDividers(t *testing.T) {
	clk := newFakeClock()
	cfg := config.Default()
	cfg.Sim.Ripple = 0
	cfg.Sim.RiseTime = time.Millisecond

	b := NewBoard(cfg, clk.Now)
	clk.Advance(time.Second)
	s := adc.New(b.ADC, cfg.ADC.CPUHz)

	s.InitBandgap()
	peak := s.Read(scan.PeakChannel)
	assert.InDelta(t, 3.0, float64(cfg.Calibration.Peak.Convert(peak)), 0.01)

	s.InitSupply()
	bias := s.Read(scan.BiasChannel)
	assert.InDelta(t, 28.0, float64(cfg.Calibration.Bias.Convert(bias)), 0.03)

	b.SetBias(10)
	assert.Equal(t, float32(10), b.Bias())
	bias = s.Read(scan.BiasChannel)
	assert.InDelta(t, 10.0, float64(cfg.Calibration.Bias.Convert(bias)), 0.03)

	assert.Equal(t, 1, b.ADC.Conversions(scan.PeakChannel))
	assert.Equal(t, 2, b.ADC.Conversions(scan.BiasChannel))
}

func TestBoard_UnusedChannelReadsZero(t *testing.T) {
	cfg := config.Default()
	b := NewBoard(cfg, newFakeClock().Now)
	s := adc.New(b.ADC, cfg.ADC.CPUHz)

	s.InitSupply()
	assert.Zero(t, s.Read(3))
}

func TestBoard_ButtonsUsePressTicks(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.PressTicks = 2
	b := NewBoard(cfg, newFakeClock().Now)

	b.Buttons.Press(StartButton)
	assert.True(t, b.Buttons.ReadButtons().Start)
	assert.True(t, b.Buttons.ReadButtons().Start)
	assert.False(t, b.Buttons.ReadButtons().Start)
}
