package game

import "testing"

func TestBuildWallsPixelConversion(t *testing.T) {
	walls := BuildWalls()
	if len(walls) != len(mazeLayout) {
		t.Fatalf("wall count = %d, want %d", len(walls), len(mazeLayout))
	}

	// Top border: full width along the top grid line.
	top := walls[0]
	if top != (Wall{X: 0, Y: 0, Horizontal: true, Length: MazeSize}) {
		t.Errorf("top border = %+v", top)
	}

	// Spot-check an interior segment against its grid spec.
	for i, s := range mazeLayout {
		w := walls[i]
		if w.X != float64(s.Col)*CellPitch || w.Y != float64(s.Row)*CellPitch {
			t.Errorf("wall %d start = (%v,%v), spec (%d,%d)", i, w.X, w.Y, s.Col, s.Row)
		}
		if w.Length != float64(s.Cells)*CellPitch {
			t.Errorf("wall %d length = %v, spec %d cells", i, w.Length, s.Cells)
		}
	}
}

func TestWallEndpoints(t *testing.T) {
	h := Wall{X: 80, Y: 120, Horizontal: true, Length: 120}
	if h.Start() != (Point{X: 80, Y: 120}) || h.End() != (Point{X: 200, Y: 120}) {
		t.Errorf("horizontal endpoints = %+v / %+v", h.Start(), h.End())
	}
	v := Wall{X: 80, Y: 120, Horizontal: false, Length: 120}
	if v.Start() != (Point{X: 80, Y: 120}) || v.End() != (Point{X: 80, Y: 240}) {
		t.Errorf("vertical endpoints = %+v / %+v", v.Start(), v.End())
	}
}

func TestStartPositionsAreCornerCellCenters(t *testing.T) {
	want := [NumBalls]Point{
		{X: 20, Y: 20},
		{X: 380, Y: 20},
		{X: 20, Y: 380},
		{X: 380, Y: 380},
	}
	if got := StartPositions(); got != want {
		t.Errorf("StartPositions = %v, want %v", got, want)
	}
}

// TestMazeIsSolvableFromEveryCorner walks the cell grid with BFS, treating a
// wall segment on a shared grid line as a blocked edge, and requires a path
// from each corner cell to the four center cells under the goal. This is the
// guard the layout table comment points at: any edit to mazeLayout that
// closes off a corner fails here.
func TestMazeIsSolvableFromEveryCorner(t *testing.T) {
	const n = MazeSize / CellPitch

	// hSeg[c][line]: a horizontal wall covers column c on grid line `line`.
	// vSeg[line][r]: a vertical wall covers row r on grid line `line`.
	var hSeg [n][n + 1]bool
	var vSeg [n + 1][n]bool
	for _, s := range mazeLayout {
		if s.Horizontal {
			for c := s.Col; c < s.Col+s.Cells; c++ {
				hSeg[c][s.Row] = true
			}
		} else {
			for r := s.Row; r < s.Row+s.Cells; r++ {
				vSeg[s.Col][r] = true
			}
		}
	}

	reachable := func(start [2]int) map[[2]int]bool {
		seen := map[[2]int]bool{start: true}
		queue := [][2]int{start}
		for len(queue) > 0 {
			cell := queue[0]
			queue = queue[1:]
			c, r := cell[0], cell[1]

			try := func(nc, nr int) {
				next := [2]int{nc, nr}
				if nc < 0 || nc >= n || nr < 0 || nr >= n || seen[next] {
					return
				}
				seen[next] = true
				queue = append(queue, next)
			}

			if !hSeg[c][r] {
				try(c, r-1)
			}
			if !hSeg[c][r+1] {
				try(c, r+1)
			}
			if !vSeg[c][r] {
				try(c-1, r)
			}
			if !vSeg[c+1][r] {
				try(c+1, r)
			}
		}
		return seen
	}

	corners := [][2]int{{0, 0}, {n - 1, 0}, {0, n - 1}, {n - 1, n - 1}}
	center := [][2]int{{4, 4}, {5, 4}, {4, 5}, {5, 5}}
	for _, corner := range corners {
		seen := reachable(corner)
		for _, goal := range center {
			if !seen[goal] {
				t.Errorf("no path from corner %v to center cell %v", corner, goal)
			}
		}
	}
}
