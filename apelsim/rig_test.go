package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/apelscan/pkg/config"
	"github.com/itohio/apelscan/pkg/sim"
)

func TestRig_StartClose(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.LoopPeriod = time.Millisecond
	r := newRig(cfg)

	require.NoError(t, r.Start())
	assert.True(t, r.Running())
	assert.ErrorIs(t, r.Start(), errRunning)

	board := r.Board()
	require.NotNil(t, board)
	board.Buttons.Press(sim.BiasButton)

	assert.Eventually(t, func() bool {
		return strings.HasPrefix(board.LCD.Screen().Line(1, '#'), "27.99")
	}, 2*time.Second, 5*time.Millisecond)

	r.Close()
	assert.False(t, r.Running())
	r.Close()
}

func TestRig_RestartPowerCycles(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.LoopPeriod = time.Millisecond
	r := newRig(cfg)
	require.NoError(t, r.Start())
	defer r.Close()

	first := r.Board()
	require.NoError(t, r.Restart())
	assert.NotSame(t, first, r.Board())
	assert.True(t, r.Running())
}

func TestRig_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Calibration.Peak.R2 = 0
	r := newRig(cfg)

	err := r.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "peak calibration")
	assert.False(t, r.Running())
}

func TestScaledSleep(t *testing.T) {
	start := time.Now()
	scaledSleep(0)(time.Hour)
	assert.Less(t, time.Since(start), time.Second)
}
