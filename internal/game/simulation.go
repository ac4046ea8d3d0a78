package game

// SimStatus is the simulation state machine: Idle → Running → (Won | Idle).
type SimStatus string

const (
	SimIdle    SimStatus = "IDLE"
	SimRunning SimStatus = "RUNNING"
	SimWon     SimStatus = "WON"
)

// TiltReading is one gravity/friction sample derived from device tilt. A
// nil reading means the tilt source has not produced a value yet; the
// driver skips integration for that tick.
type TiltReading struct {
	GravityX  float64 `json:"gravity_x"`
	GravityY  float64 `json:"gravity_y"`
	FrictionX float64 `json:"friction_x"`
	FrictionY float64 `json:"friction_y"`
}

// Frame is the result of one tick: ball positions and the driver state.
type Frame struct {
	Balls  [NumBalls]Ball `json:"balls"`
	Status SimStatus      `json:"status"`
}

// Simulation owns the four balls and the wall list and advances exactly one
// physics step per Tick call. It is deliberately single-threaded: one
// logical owner calls Tick, Start and Reset; there is no internal locking.
type Simulation struct {
	balls       [NumBalls]Ball
	walls       []Wall
	status      SimStatus
	maxVelocity float64
	lastTime    float64
	hasBaseline bool
}

// NewSimulation builds a simulation over the default maze with balls at
// their corner starting cells.
func NewSimulation() *Simulation {
	s := &Simulation{
		walls:       BuildWalls(),
		maxVelocity: MaxVelocity,
	}
	s.Reset()
	return s
}

// Walls returns the immutable wall list.
func (s *Simulation) Walls() []Wall {
	return s.walls
}

// Status returns the current driver state.
func (s *Simulation) Status() SimStatus {
	return s.status
}

// Balls returns a copy of the current ball states.
func (s *Simulation) Balls() [NumBalls]Ball {
	return s.balls
}

// Reset places the balls back on the four corner starting cells with zero
// velocity and returns to Idle. Callable from any state.
func (s *Simulation) Reset() [NumBalls]Ball {
	for i, p := range StartPositions() {
		s.balls[i] = Ball{X: p.X, Y: p.Y}
	}
	s.status = SimIdle
	s.hasBaseline = false
	return s.balls
}

// Start transitions Idle → Running. Calls in any other state are ignored.
// The first tick after Start only records a timestamp baseline, so the
// initial dt cannot blow up from clock skew.
func (s *Simulation) Start() {
	if s.status != SimIdle {
		return
	}
	s.status = SimRunning
	s.hasBaseline = false
}

// Tick advances one frame. timestamp is a monotonically increasing clock
// reading in milliseconds; tilt may be nil when no reading is available
// yet, in which case integration is skipped but the win condition is still
// checked. Once all balls are inside the goal the status latches to Won and
// further ticks no longer mutate ball state.
func (s *Simulation) Tick(timestamp float64, tilt *TiltReading) Frame {
	if s.status != SimRunning {
		return Frame{Balls: s.balls, Status: s.status}
	}

	if !s.hasBaseline {
		s.lastTime = timestamp
		s.hasBaseline = true
		return Frame{Balls: s.balls, Status: s.status}
	}

	dt := (timestamp - s.lastTime) / FrameUnit
	s.lastTime = timestamp

	if tilt != nil {
		for i := range s.balls {
			stepBall(&s.balls[i], s.walls,
				tilt.GravityX, tilt.GravityY,
				tilt.FrictionX, tilt.FrictionY,
				dt, s.maxVelocity)
		}
	}

	if s.allInGoal() {
		s.status = SimWon
	}

	return Frame{Balls: s.balls, Status: s.status}
}

func (s *Simulation) allInGoal() bool {
	center := MazeCenter()
	for i := range s.balls {
		if Distance(Point{X: s.balls[i].X, Y: s.balls[i].Y}, center) > GoalRadius {
			return false
		}
	}
	return true
}
