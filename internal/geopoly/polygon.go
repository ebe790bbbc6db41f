// Package geopoly implements the polygon representation, codecs, geometric
// primitives, and plane-sweep overlap classifier at the core of the geopoly
// engine. Callers that need the SQL-facing surface (scalar functions, the
// virtual-table adapter) should use the public github.com/polyspace/geopoly/pkg/geopoly
// package instead; this package is the internal, host-agnostic engine.
package geopoly

// Axis selects one component of a vertex.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
)

// minVertices is the minimum vertex count a well-formed polygon must have
// (spec.md §3: "nVertex ≥ 3 for every polygon the core emits or exposes").
const minVertices = 3

// Polygon is a non-empty, ordered ring of vertices. Edges are implicit:
// (v[i], v[i+1]) for i < n-1, plus a closing edge (v[n-1], v[0]). There is no
// stored closing duplicate (spec.md §3 — this differs from GeoJSON).
//
// Polygon owns its coordinate buffer. No interior vertex reference should
// outlive the Polygon.
type Polygon struct {
	coords []float32 // 2*nVertex values: x0,y0,x1,y1,...
}

// NewPolygon constructs a Polygon from a flat coordinate buffer (x,y pairs).
// The buffer is taken by reference, not copied; callers that need an owned
// Polygon should pass a slice they will not mutate afterward.
func NewPolygon(coords []float32) (*Polygon, error) {
	if len(coords) < minVertices*2 || len(coords)%2 != 0 {
		return nil, &ErrDegeneratePolygon{NVertex: len(coords) / 2}
	}
	return &Polygon{coords: coords}, nil
}

// NVertex returns the number of vertices in the polygon.
func (p *Polygon) NVertex() int {
	return len(p.coords) / 2
}

// Coord returns the coordinate of the given axis for vertex i (0-indexed).
func (p *Polygon) Coord(i int, axis Axis) float32 {
	return p.coords[i*2+int(axis)]
}

// Coords returns the raw, shared coordinate buffer. Callers must not mutate
// the returned slice.
func (p *Polygon) Coords() []float32 {
	return p.coords
}

// ByteLen returns the length in bytes of the binary encoding of this
// polygon (spec.md §3: 4 + 8*nVertex).
func (p *Polygon) ByteLen() int {
	return 4 + 8*p.NVertex()
}

// Clone returns a Polygon with its own copy of the coordinate buffer.
func (p *Polygon) Clone() *Polygon {
	cp := make([]float32, len(p.coords))
	copy(cp, p.coords)
	return &Polygon{coords: cp}
}

// Reverse returns a new Polygon with vertex order reversed. Used by tests
// to exercise the area-sign property (spec.md §8 property 6).
func (p *Polygon) Reverse() *Polygon {
	n := p.NVertex()
	out := make([]float32, len(p.coords))
	for i := 0; i < n; i++ {
		out[i*2] = p.coords[(n-1-i)*2]
		out[i*2+1] = p.coords[(n-1-i)*2+1]
	}
	return &Polygon{coords: out}
}
