// Package geopoly is the public surface of the polygon geometry engine: a
// Go-native API over the internal engine (github.com/polyspace/geopoly/internal/geopoly)
// plus the SQLite scalar-function and virtual-table registration that plugs
// it into a host database connection.
//
// Callers that only need the geometry — decode, render, measure, classify —
// can use the functions in this file without ever touching Register or the
// virtual-table adapter.
package geopoly

import (
	"log"

	core "github.com/polyspace/geopoly/internal/geopoly"
)

// Polygon is an immutable 2-D polygon: an ordered ring of at least 3
// vertices, edges implicit between consecutive vertices plus a closing edge
// from the last vertex back to the first.
type Polygon struct {
	p *core.Polygon
}

// NVertex returns the number of vertices.
func (g Polygon) NVertex() int { return g.p.NVertex() }

// Decode parses the on-disk binary polygon format.
func Decode(blob []byte) (Polygon, error) {
	p, err := core.Decode(blob)
	if err != nil {
		return Polygon{}, err
	}
	return Polygon{p: p}, nil
}

// ParseJSON parses the textual `[[x,y],...]` polygon format.
func ParseJSON(text string) (Polygon, error) {
	p, err := core.ParseJSON(text)
	if err != nil {
		return Polygon{}, err
	}
	return Polygon{p: p}, nil
}

// Blob serializes the polygon to the on-disk binary format, in host byte
// order.
func (g Polygon) Blob() []byte { return core.Encode(g.p) }

// JSON renders the polygon as `[[x0,y0],...,[xn-1,yn-1],[x0,y0]]`.
func (g Polygon) JSON() string { return core.RenderJSON(g.p) }

// SVG renders the polygon as an SVG <polyline>, appending any extra
// attribute strings verbatim.
func (g Polygon) SVG(attrs ...string) string { return core.RenderSVG(g.p, attrs...) }

// Area returns the signed area via the shoelace formula: positive for a
// counter-clockwise winding.
func (g Polygon) Area() float64 { return core.Area(g.p) }

// BBox is the polygon's axis-aligned bounding box.
type BBox = core.BBox

// BBox returns the polygon's axis-aligned bounding box.
func (g Polygon) BBox() BBox { return core.ComputeBBox(g.p) }

// BBoxPolygon returns the 4-vertex rectangle polygon for g's bounding box,
// wound counter-clockwise starting at (minX,minY).
func (g Polygon) BBoxPolygon() Polygon { return Polygon{p: core.BBoxPolygon(g.p)} }

// Within classification codes.
const (
	Outside  = core.Outside
	Boundary = core.Boundary
	Inside   = core.Inside
)

// Within classifies point (x,y) against the polygon.
func (g Polygon) Within(x, y float64) int { return core.Within(g.p, x, y) }

// Overlap classification codes.
const (
	OverlapDisjoint     = core.OverlapDisjoint
	OverlapCross        = core.OverlapCross
	OverlapP1ContainsP2 = core.OverlapP1ContainsP2
	OverlapP2ContainsP1 = core.OverlapP2ContainsP1
	OverlapEqual        = core.OverlapEqual
)

// Overlap classifies the relationship between g and other via the
// plane-sweep algorithm, returning one of the Overlap* codes above.
func (g Polygon) Overlap(other Polygon) int { return core.Overlap(g.p, other.p) }

// SetDebug toggles process-wide debug diagnostics (the Go equivalent of the
// source extension's compile-time GEOPOLY_ENABLE_DEBUG flag; here it is a
// runtime atomic instead of a build tag). The flag and its logger live in
// the core engine package, since the overlap sweep is what actually emits
// diagnostic lines (spec.md §4.G); this just forwards to it so callers don't
// need to import the internal package themselves.
func SetDebug(on bool) { core.SetDebug(on) }

// Debug reports whether debug diagnostics are currently enabled.
func Debug() bool { return core.Debug() }

// SetLogger redirects debug diagnostics to l instead of log.Default().
func SetLogger(l *log.Logger) { core.SetLogger(l) }
