package capture

import (
	"testing"
	"time"
)

func TestNewGovernor_Defaults(t *testing.T) {
	g := NewGovernor(0, 0, 0)
	if g.IdleFPS != DefaultIdleFPS || g.ActiveFPS != DefaultActiveFPS || g.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("NewGovernor(0,0,0) = %+v, want defaults", g)
	}
	if g.FPS() != DefaultIdleFPS {
		t.Errorf("FPS() = %d, want idle rate", g.FPS())
	}
	if g.Interval() != 200*time.Millisecond {
		t.Errorf("Interval() = %v, want 200ms", g.Interval())
	}
}

func TestGovernor_Observe(t *testing.T) {
	start := time.Unix(1000, 0)
	g := NewGovernor(5, 15, 2*time.Second)

	steps := []struct {
		name        string
		motion      bool
		at          time.Duration
		wantFPS     int
		wantChanged bool
	}{
		{"still at start", false, 0, 5, false},
		{"motion switches to active", true, 100 * time.Millisecond, 15, true},
		{"motion keeps active", true, 500 * time.Millisecond, 15, false},
		{"still within timeout", false, 2 * time.Second, 15, false},
		{"still at timeout edge", false, 2500 * time.Millisecond, 15, false},
		{"still past timeout", false, 2600 * time.Millisecond, 5, true},
		{"still stays idle", false, 10 * time.Second, 5, false},
		{"motion again", true, 11 * time.Second, 15, true},
	}

	for _, s := range steps {
		fps, changed := g.Observe(s.motion, start.Add(s.at))
		if fps != s.wantFPS || changed != s.wantChanged {
			t.Errorf("%s: Observe() = (%d, %v), want (%d, %v)", s.name, fps, changed, s.wantFPS, s.wantChanged)
		}
	}
}
