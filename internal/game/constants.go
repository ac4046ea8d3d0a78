package game

// Maze geometry constants. These MUST match the client-side renderer
// constants exactly; every derived distance in the physics core comes from
// these three numbers.
const (
	PathWidth = 30.0 // open corridor width
	WallWidth = 10.0 // wall thickness; cap radius is WallWidth/2
	BallSize  = 20.0 // ball diameter

	// CellPitch is the grid cell spacing: one corridor plus one wall.
	CellPitch = PathWidth + WallWidth // 40

	GridCells = 10
	MazeSize  = GridCells * CellPitch // 400

	// ClearanceRadius is the resolving distance between a ball center and
	// any wall centerline or cap center.
	ClearanceRadius = WallWidth/2 + BallSize/2 // 15

	// GoalRadius is the win-detection radius around the maze center. The
	// goal is not a physical obstacle.
	GoalRadius = 75.0 / 2

	// MaxVelocity caps per-axis ball speed after integration.
	MaxVelocity = 1.5

	// VelocityHardLimit bounds the raw post-acceleration velocity before
	// friction is applied.
	VelocityHardLimit = 1.5

	// FrameUnit converts tick timestamps (milliseconds) to frame units:
	// one nominal frame is 16 ms.
	FrameUnit = 16.0

	NumBalls = 4
)

// MazeCenter returns the center of the maze, which is also the goal center.
func MazeCenter() Point {
	return Point{X: MazeSize / 2, Y: MazeSize / 2}
}
