package sim

import (
	"sync"
	"time"

	"github.com/chewxy/math32"
)

// Integrator simulates the SiPM pulse integrator: its output approaches a
// target level with a first order lag and carries a small ripple.
type Integrator struct {
	mu sync.Mutex

	target float32       // Steady state output (V)
	tau    time.Duration // Time constant
	ripple float32       // Ripple amplitude (V)
	now    func() time.Time

	start time.Time
	last  time.Time
	level float32
}

// NewIntegrator creates a discharged integrator. now defaults to time.Now.
func NewIntegrator(target float32, tau time.Duration, ripple float32, now func() time.Time) *Integrator {
	if now == nil {
		now = time.Now
	}
	if tau <= 0 {
		tau = time.Second
	}
	t := now()
	return &Integrator{
		target: target,
		tau:    tau,
		ripple: ripple,
		now:    now,
		start:  t,
		last:   t,
	}
}

// SetTarget changes the level the output settles to.
func (g *Integrator) SetTarget(v float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advance()
	g.target = v
}

// Target returns the steady state level.
func (g *Integrator) Target() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}

// Discharge drops the output to zero.
func (g *Integrator) Discharge() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advance()
	g.level = 0
}

// Level returns the present output voltage, never negative.
func (g *Integrator) Level() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.advance()
	t := float32(g.last.Sub(g.start).Seconds())
	v := g.level + g.ripple*0.5*(math32.Sin(2*math32.Pi*7.3*t)+math32.Cos(2*math32.Pi*3.1*t))
	if v < 0 {
		return 0
	}
	return v
}

// advance integrates the lag up to now.
func (g *Integrator) advance() {
	now := g.now()
	dt := now.Sub(g.last)
	if dt <= 0 {
		return
	}
	g.last = now

	alpha := 1 - math32.Exp(-float32(dt.Seconds()/g.tau.Seconds()))
	g.level += alpha * (g.target - g.level)
}
