package game

// Wall is an axis-aligned wall segment in pixel space. X,Y is the start
// endpoint (left end for horizontal walls, top end for vertical ones) and
// the wall extends +Length along its axis. The wall body is a rectangle of
// thickness WallWidth around the centerline, closed at both ends by a
// circular cap of radius WallWidth/2.
type Wall struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Horizontal bool    `json:"horizontal"`
	Length     float64 `json:"length"`
}

// Start returns the start-cap center.
func (w Wall) Start() Point {
	return Point{X: w.X, Y: w.Y}
}

// End returns the end-cap center.
func (w Wall) End() Point {
	if w.Horizontal {
		return Point{X: w.X + w.Length, Y: w.Y}
	}
	return Point{X: w.X, Y: w.Y + w.Length}
}

// wallSpec describes a wall in grid units: Col,Row locate the start corner
// on the grid-line lattice and Cells is the length in cell pitches.
type wallSpec struct {
	Col        int
	Row        int
	Horizontal bool
	Cells      int
}

// mazeLayout is the fixed 10×10 maze: the four border walls followed by 30
// interior segments. The table is a frozen data asset shared with the
// client renderer; changing any entry changes maze solvability, so edits
// must go through the reachability test in walls_test.go.
var mazeLayout = []wallSpec{
	// Border
	{0, 0, true, 10},
	{0, 10, true, 10},
	{0, 0, false, 10},
	{10, 0, false, 10},

	// Outer ring (lines 2 and 8) with one gap per side
	{2, 2, true, 3},
	{6, 2, true, 2},
	{2, 8, true, 2},
	{5, 8, true, 3},
	{2, 2, false, 3},
	{2, 6, false, 2},
	{8, 2, false, 2},
	{8, 5, false, 3},

	// Goal box (lines 4 and 6) with a single entrance from below
	{4, 4, true, 2},
	{4, 6, true, 1},
	{4, 4, false, 2},
	{6, 4, false, 2},

	// Outer band obstacles
	{5, 0, false, 1},
	{0, 5, true, 1},
	{4, 9, false, 1},
	{9, 5, true, 1},
	{7, 1, false, 1},
	{1, 8, true, 1},

	// Mid-ring obstacles
	{3, 4, true, 1},
	{3, 6, false, 1},
	{6, 4, true, 1},
	{6, 6, false, 1},
	{2, 6, true, 1},
	{7, 3, false, 1},
	{4, 3, true, 1},
	{5, 7, true, 1},
	{5, 2, false, 1},
	{7, 6, true, 1},
	{4, 7, false, 1},
	{2, 3, true, 1},
}

// BuildWalls converts the grid-unit layout into pixel-space walls. Walls
// are constructed once and never mutated.
func BuildWalls() []Wall {
	walls := make([]Wall, len(mazeLayout))
	for i, s := range mazeLayout {
		walls[i] = Wall{
			X:          float64(s.Col) * CellPitch,
			Y:          float64(s.Row) * CellPitch,
			Horizontal: s.Horizontal,
			Length:     float64(s.Cells) * CellPitch,
		}
	}
	return walls
}

// StartPositions returns the four corner starting cells, converted to cell
// centers in pixel space.
func StartPositions() [NumBalls]Point {
	cells := [NumBalls][2]int{{0, 0}, {9, 0}, {0, 9}, {9, 9}}
	var pos [NumBalls]Point
	for i, c := range cells {
		pos[i] = Point{
			X: float64(c[0])*CellPitch + CellPitch/2,
			Y: float64(c[1])*CellPitch + CellPitch/2,
		}
	}
	return pos
}
