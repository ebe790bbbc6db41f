package geopoly

import "testing"

func mustPolygon(t *testing.T, coords []float32) *Polygon {
	t.Helper()
	p, err := NewPolygon(coords)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// TestAreaScenarioS1 covers scenario S1 (spec.md §8): the CCW unit square
// has signed area +1.0 under the pinned bit-for-bit convention.
func TestAreaScenarioS1(t *testing.T) {
	p := unitSquare(t)
	if got := Area(p); got != 1.0 {
		t.Errorf("Area() = %v, want 1.0", got)
	}
}

// TestAreaSign covers testable property 6: area(reverse(P)) == -area(P).
func TestAreaSign(t *testing.T) {
	p := unitSquare(t)
	if got, want := Area(p.Reverse()), -Area(p); got != want {
		t.Errorf("Area(Reverse(P)) = %v, want %v", got, want)
	}
}

// TestWithinScenarios covers scenarios S2-S4 (spec.md §8).
func TestWithinScenarios(t *testing.T) {
	p := unitSquare(t)
	tests := []struct {
		name   string
		x, y   float64
		expect int
	}{
		{"S2 inside", 0.5, 0.5, Inside},
		{"S3 boundary vertex", 0, 0, Boundary},
		{"S4 outside", 2, 2, Outside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Within(p, tt.x, tt.y); got != tt.expect {
				t.Errorf("Within(P, %v, %v) = %d, want %d", tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// TestWithinOnVertices covers testable property 7: every vertex of P
// classifies as BOUNDARY.
func TestWithinOnVertices(t *testing.T) {
	p := mustPolygon(t, []float32{0, 0, 3, 0, 3, 2, 1.5, 4, 0, 2})
	for i := 0; i < p.NVertex(); i++ {
		x := float64(p.Coord(i, AxisX))
		y := float64(p.Coord(i, AxisY))
		if got := Within(p, x, y); got != Boundary {
			t.Errorf("Within(P, vertex %d = (%v,%v)) = %d, want Boundary", i, x, y, got)
		}
	}
}

func TestWithinOnBoundaryEdge(t *testing.T) {
	p := unitSquare(t)
	if got := Within(p, 0.5, 0); got != Boundary {
		t.Errorf("Within(P, 0.5, 0) = %d, want Boundary", got)
	}
}

// TestBBoxTightness covers testable property 5.
func TestBBoxTightness(t *testing.T) {
	p := mustPolygon(t, []float32{0, 0, 3, -1, 4, 2, 1, 5})
	bbox := ComputeBBox(p)
	if bbox.MinX != 0 || bbox.MaxX != 4 || bbox.MinY != -1 || bbox.MaxY != 5 {
		t.Errorf("ComputeBBox() = %+v, want {0,4,-1,5}", bbox)
	}
	for i := 0; i < p.NVertex(); i++ {
		x, y := p.Coord(i, AxisX), p.Coord(i, AxisY)
		if x < bbox.MinX || x > bbox.MaxX || y < bbox.MinY || y > bbox.MaxY {
			t.Errorf("vertex %d = (%v,%v) falls outside bbox %+v", i, x, y, bbox)
		}
	}
}

func TestBBoxPolygon(t *testing.T) {
	p := mustPolygon(t, []float32{0, 0, 3, -1, 4, 2, 1, 5})
	bp := BBoxPolygon(p)
	want := []float32{0, -1, 4, -1, 4, 5, 0, 5}
	for i, c := range want {
		if bp.coords[i] != c {
			t.Errorf("BBoxPolygon coords[%d] = %v, want %v", i, bp.coords[i], c)
		}
	}
}
