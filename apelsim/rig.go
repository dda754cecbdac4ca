package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/itohio/apelscan/pkg/adc"
	"github.com/itohio/apelscan/pkg/config"
	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/scan"
	"github.com/itohio/apelscan/pkg/sim"
)

// minLoopPeriod keeps the simulated loop from spinning a core.
const minLoopPeriod = time.Millisecond

var errRunning = errors.New("rig is already running")

// rig runs the panel firmware against a simulated board in a goroutine.
type rig struct {
	cfg    *config.Config
	logger *log.Logger

	mu     sync.Mutex
	board  *sim.Board
	cancel context.CancelFunc
	done   chan struct{}
}

func newRig(cfg *config.Config) *rig {
	return &rig{
		cfg:    cfg,
		logger: log.New(os.Stderr, "scan: ", log.LstdFlags),
	}
}

// Start powers up a fresh board and runs the controller until Close.
func (r *rig) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return errRunning
	}
	if err := r.cfg.Validate(); err != nil {
		return fmt.Errorf("failed to start rig: %w", err)
	}

	board := sim.NewBoard(r.cfg, nil)
	display := lcd.New(board.LCD, lcd.Config{
		Settle: r.cfg.Display.Settle,
		Sleep:  scaledSleep(r.cfg.Sim.DisplaySpeed),
	})
	sampler := adc.New(board.ADC, r.cfg.ADC.CPUHz)
	if _, ok := adc.PrescalerFor(r.cfg.ADC.CPUHz); !ok {
		log.Printf("ADC clock out of range for %d Hz core clock", r.cfg.ADC.CPUHz)
	}

	period := max(r.cfg.Sim.LoopPeriod, minLoopPeriod)
	ctrl := scan.New(board.Buttons, sampler, display, scan.Options{
		Machine:      r.cfg.Machine(),
		Banner:       r.cfg.Display.Banner,
		WelcomeDelay: r.cfg.Display.WelcomeDelay,
		Period:       period,
		Logger:       r.logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Start()
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Controller stopped: %v", err)
		}
	}()

	r.board = board
	r.cancel = cancel
	r.done = done
	log.Printf("Rig started (loop period %v)", period)
	return nil
}

// Close stops the controller and waits for its goroutine to exit.
func (r *rig) Close() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("Rig stopped")
}

// Restart power cycles the board.
func (r *rig) Restart() error {
	r.Close()
	return r.Start()
}

// Board returns the board of the last Start, or nil.
func (r *rig) Board() *sim.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board
}

// Running reports whether the controller goroutine is active.
func (r *rig) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// scaledSleep slows the display bus by speed. Zero drops the delays.
func scaledSleep(speed float64) func(time.Duration) {
	if speed <= 0 {
		return func(time.Duration) {}
	}
	return func(d time.Duration) {
		time.Sleep(time.Duration(float64(d) * speed))
	}
}
