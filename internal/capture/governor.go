package capture

import "time"

// Frame rate defaults for the capture loop.
const (
	DefaultIdleFPS     = 5
	DefaultActiveFPS   = 15
	DefaultIdleTimeout = 2 * time.Second
)

// Governor picks the capture frame rate. Motion switches to the active
// rate at once; the idle rate returns only after IdleTimeout without
// motion.
type Governor struct {
	IdleFPS     int
	ActiveFPS   int
	IdleTimeout time.Duration

	fps        int
	lastMotion time.Time
}

// NewGovernor creates a Governor that starts at the idle rate. Non-positive
// arguments take their defaults.
func NewGovernor(idleFPS, activeFPS int, idleTimeout time.Duration) *Governor {
	if idleFPS <= 0 {
		idleFPS = DefaultIdleFPS
	}
	if activeFPS <= 0 {
		activeFPS = DefaultActiveFPS
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Governor{
		IdleFPS:     idleFPS,
		ActiveFPS:   activeFPS,
		IdleTimeout: idleTimeout,
		fps:         idleFPS,
	}
}

// FPS returns the current rate.
func (g *Governor) FPS() int { return g.fps }

// Interval returns the time between frames at the current rate.
func (g *Governor) Interval() time.Duration {
	return time.Second / time.Duration(g.fps)
}

// Observe records whether the latest frame had motion and returns the
// rate to use next, with changed set when it differs from the last one.
func (g *Governor) Observe(motion bool, now time.Time) (int, bool) {
	prev := g.fps
	switch {
	case motion:
		g.lastMotion = now
		g.fps = g.ActiveFPS
	case g.fps == g.ActiveFPS && now.Sub(g.lastMotion) > g.IdleTimeout:
		g.fps = g.IdleFPS
	}
	return g.fps, g.fps != prev
}
