package game

import (
	"math"
	"testing"
)

func TestNewSimulationStartsIdleAtCorners(t *testing.T) {
	s := NewSimulation()
	if s.Status() != SimIdle {
		t.Fatalf("status = %v, want %v", s.Status(), SimIdle)
	}
	starts := StartPositions()
	for i, b := range s.Balls() {
		if b.X != starts[i].X || b.Y != starts[i].Y {
			t.Errorf("ball %d at (%v,%v), want %v", i, b.X, b.Y, starts[i])
		}
		if b.VX != 0 || b.VY != 0 {
			t.Errorf("ball %d has nonzero velocity", i)
		}
	}
}

func TestTickIgnoredWhenIdle(t *testing.T) {
	s := NewSimulation()
	tilt := &TiltReading{GravityX: 0.3, FrictionX: 0.01}
	frame := s.Tick(1000, tilt)
	if frame.Status != SimIdle {
		t.Errorf("idle tick changed status to %v", frame.Status)
	}
	if frame.Balls != s.Balls() || frame.Balls[0].X != 20 {
		t.Errorf("idle tick moved balls: %+v", frame.Balls[0])
	}
}

func TestFirstTickOnlyRecordsBaseline(t *testing.T) {
	s := NewSimulation()
	s.Start()
	tilt := &TiltReading{GravityX: 0.1, FrictionX: 0.01}

	frame := s.Tick(5000, tilt)
	if frame.Status != SimRunning {
		t.Fatalf("status after first tick = %v, want %v", frame.Status, SimRunning)
	}
	if frame.Balls[0].X != 20 || frame.Balls[0].VX != 0 {
		t.Errorf("first tick moved ball 0: %+v", frame.Balls[0])
	}

	// One frame unit later: velocity 0.1 less one friction step, applied once.
	frame = s.Tick(5000+FrameUnit, tilt)
	b := frame.Balls[0]
	if math.Abs(b.VX-0.09) > 1e-12 {
		t.Errorf("VX = %v, want 0.09", b.VX)
	}
	if math.Abs(b.X-20.09) > 1e-12 {
		t.Errorf("X = %v, want 20.09", b.X)
	}
	if b.Y != 20 {
		t.Errorf("Y moved with zero vertical gravity: %v", b.Y)
	}
}

func TestTickScalesWithElapsedTime(t *testing.T) {
	run := func(step float64, n int) Ball {
		s := NewSimulation()
		s.Start()
		tilt := &TiltReading{GravityX: 0.1, FrictionX: 0.01}
		ts := 0.0
		s.Tick(ts, tilt)
		for i := 0; i < n; i++ {
			ts += step
			s.Tick(ts, tilt)
		}
		return s.Balls()[0]
	}

	// A late frame carries a proportionally larger dt; a single
	// double-length tick must outrun a single normal tick.
	slow := run(FrameUnit, 1)
	fast := run(2*FrameUnit, 1)
	if fast.X <= slow.X {
		t.Errorf("double dt tick X = %v, not beyond single tick X = %v", fast.X, slow.X)
	}
}

func TestNilTiltSkipsIntegration(t *testing.T) {
	s := NewSimulation()
	s.Start()
	s.Tick(0, nil)
	frame := s.Tick(FrameUnit, nil)
	if frame.Status != SimRunning {
		t.Errorf("status = %v, want %v", frame.Status, SimRunning)
	}
	var want [NumBalls]Ball
	for i, p := range StartPositions() {
		want[i] = Ball{X: p.X, Y: p.Y}
	}
	if frame.Balls != want {
		t.Errorf("nil-tilt tick moved balls: %+v", frame.Balls)
	}
}

func TestStartOnlyTransitionsFromIdle(t *testing.T) {
	s := NewSimulation()
	s.Start()
	s.Tick(0, nil)
	s.Tick(FrameUnit, &TiltReading{GravityX: 0.1, FrictionX: 0.01})
	moved := s.Balls()

	// Start while running must not rearm the baseline or reset anything.
	s.Start()
	if s.Status() != SimRunning {
		t.Fatalf("Start while running changed status to %v", s.Status())
	}
	frame := s.Tick(2*FrameUnit, &TiltReading{GravityX: 0.1, FrictionX: 0.01})
	if frame.Balls[0].X <= moved[0].X {
		t.Errorf("tick after redundant Start did not advance: %v <= %v", frame.Balls[0].X, moved[0].X)
	}
}

func TestWinLatchesAndFreezesBalls(t *testing.T) {
	s := NewSimulation()
	s.Start()
	s.Tick(0, nil)

	center := MazeCenter()
	for i := range s.balls {
		s.balls[i] = Ball{X: center.X + float64(i), Y: center.Y}
	}

	frame := s.Tick(FrameUnit, nil)
	if frame.Status != SimWon {
		t.Fatalf("status = %v, want %v", frame.Status, SimWon)
	}

	// Further ticks are no-ops even with live tilt.
	after := s.Tick(2*FrameUnit, &TiltReading{GravityX: 1, FrictionX: 0.01})
	if after.Status != SimWon {
		t.Errorf("status after win = %v, want %v", after.Status, SimWon)
	}
	if after.Balls != frame.Balls {
		t.Errorf("balls moved after win: %+v", after.Balls)
	}
}

func TestGoalBoundaryIsInclusive(t *testing.T) {
	s := NewSimulation()
	s.Start()
	s.Tick(0, nil)

	center := MazeCenter()
	for i := range s.balls {
		s.balls[i] = Ball{X: center.X, Y: center.Y}
	}
	s.balls[3] = Ball{X: center.X + GoalRadius + 0.001, Y: center.Y}

	if frame := s.Tick(FrameUnit, nil); frame.Status != SimRunning {
		t.Fatalf("ball just outside the goal still won: %v", frame.Status)
	}

	// Exactly on the rim counts as inside.
	s.balls[3] = Ball{X: center.X + GoalRadius, Y: center.Y}
	if frame := s.Tick(2*FrameUnit, nil); frame.Status != SimWon {
		t.Errorf("ball on the goal rim did not win: %v", frame.Status)
	}
}

func TestResetReturnsToIdleFromAnyState(t *testing.T) {
	s := NewSimulation()
	s.Start()
	s.Tick(0, nil)
	s.Tick(FrameUnit, &TiltReading{GravityX: 0.3, GravityY: 0.2, FrictionX: 0.01, FrictionY: 0.01})

	balls := s.Reset()
	if s.Status() != SimIdle {
		t.Fatalf("status after reset = %v, want %v", s.Status(), SimIdle)
	}
	starts := StartPositions()
	for i := range balls {
		if balls[i].X != starts[i].X || balls[i].Y != starts[i].Y || balls[i].VX != 0 || balls[i].VY != 0 {
			t.Errorf("ball %d not restored: %+v", i, balls[i])
		}
	}

	// Reset rearms the baseline: the first tick of the next run must not
	// integrate against the previous run's clock.
	s.Start()
	frame := s.Tick(1e6, &TiltReading{GravityX: 0.3, FrictionX: 0.01})
	if frame.Balls[0].X != starts[0].X {
		t.Errorf("first tick after reset integrated: X = %v", frame.Balls[0].X)
	}
}
