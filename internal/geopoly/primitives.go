package geopoly

// Within classification result codes (spec.md §4.E / §6).
const (
	Outside  = 0
	Boundary = 1
	Inside   = 2
)

// Area returns the signed area of the polygon via the shoelace formula,
// summed over all edges including the closing edge (spec.md §4.E):
//
//	½·Σ (x_i − x_{i+1})·(y_i + y_{i+1})
//
// Positive when the polygon winds counter-clockwise (spec.md §9 pins this
// convention bit-for-bit against the source formula).
func Area(p *Polygon) float64 {
	n := p.NVertex()
	var area float64
	var i int
	for i = 0; i < n-1; i++ {
		x0 := float64(p.Coord(i, AxisX))
		x1 := float64(p.Coord(i+1, AxisX))
		y0 := float64(p.Coord(i, AxisY))
		y1 := float64(p.Coord(i+1, AxisY))
		area += (x0 - x1) * (y0 + y1) * 0.5
	}
	xN := float64(p.Coord(i, AxisX))
	yN := float64(p.Coord(i, AxisY))
	x0 := float64(p.Coord(0, AxisX))
	y0 := float64(p.Coord(0, AxisY))
	area += (xN - x0) * (yN + y0) * 0.5
	return area
}

// BBox is an axis-aligned bounding box (spec.md §3).
type BBox struct {
	MinX, MaxX, MinY, MaxY float32
}

// ComputeBBox does a single pass over the polygon's vertices to find its
// axis-aligned bounding box (spec.md §4.E).
func ComputeBBox(p *Polygon) BBox {
	minX := p.Coord(0, AxisX)
	maxX := minX
	minY := p.Coord(0, AxisY)
	maxY := minY

	for i := 1; i < p.NVertex(); i++ {
		if x := p.Coord(i, AxisX); x < minX {
			minX = x
		} else if x > maxX {
			maxX = x
		}
		if y := p.Coord(i, AxisY); y < minY {
			minY = y
		} else if y > maxY {
			maxY = y
		}
	}

	return BBox{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
}

// BBoxPolygon builds the 4-vertex rectangle polygon for a bounding box, CCW
// from min-min (spec.md §6): (minX,minY),(maxX,minY),(maxX,maxY),(minX,maxY).
func BBoxPolygon(p *Polygon) *Polygon {
	b := ComputeBBox(p)
	return &Polygon{coords: []float32{
		b.MinX, b.MinY,
		b.MaxX, b.MinY,
		b.MaxX, b.MaxY,
		b.MinX, b.MaxY,
	}}
}

// Within classifies point (x0,y0) against polygon p via ray-casting
// (spec.md §4.E), returning Outside, Boundary, or Inside.
func Within(p *Polygon, x0, y0 float64) int {
	n := p.NVertex()
	v := 0
	cnt := 0
	i := 0
	for ; i < n-1; i++ {
		v = pointBeneathLine(x0, y0,
			float64(p.Coord(i, AxisX)), float64(p.Coord(i, AxisY)),
			float64(p.Coord(i+1, AxisX)), float64(p.Coord(i+1, AxisY)))
		if v == 2 {
			break
		}
		cnt += v
	}
	if v != 2 {
		v = pointBeneathLine(x0, y0,
			float64(p.Coord(i, AxisX)), float64(p.Coord(i, AxisY)),
			float64(p.Coord(0, AxisX)), float64(p.Coord(0, AxisY)))
	}
	if v == 2 {
		return Boundary
	}
	if (v+cnt)&1 == 0 {
		return Outside
	}
	return Inside
}

// pointBeneathLine determines whether (x0,y0) lies on, beneath, or
// elsewhere relative to directed segment (x1,y1)->(x2,y2) (spec.md §4.E).
//
// Returns 2 if the point is on the segment (including the vertical-segment
// and exact-vertex special cases), 1 if the point is strictly beneath a
// non-degenerate segment with x0 in the half-open interval
// (min(x1,x2), max(x1,x2)], and 0 otherwise.
func pointBeneathLine(x0, y0, x1, y1, x2, y2 float64) int {
	if x0 == x1 && y0 == y1 {
		return 2
	}
	if x1 < x2 {
		if x0 <= x1 || x0 > x2 {
			return 0
		}
	} else if x1 > x2 {
		if x0 <= x2 || x0 > x1 {
			return 0
		}
	} else {
		// Vertical segment.
		if x0 != x1 {
			return 0
		}
		if y0 < y1 && y0 < y2 {
			return 0
		}
		if y0 > y1 && y0 > y2 {
			return 0
		}
		return 2
	}

	y := y1 + (y2-y1)*(x0-x1)/(x2-x1)
	if y0 == y {
		return 2
	}
	if y0 < y {
		return 1
	}
	return 0
}
