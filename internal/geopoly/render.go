package geopoly

import (
	"strconv"
	"strings"
)

// formatCoord renders a coordinate using the shortest round-trip
// single-precision representation (spec.md §4.D).
func formatCoord(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// RenderJSON renders the polygon as a JSON array of coordinates, with the
// first vertex repeated as the closing point (spec.md §4.D):
//
//	[[x0,y0],...,[xn-1,yn-1],[x0,y0]]
func RenderJSON(p *Polygon) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < p.NVertex(); i++ {
		b.WriteByte('[')
		b.WriteString(formatCoord(p.Coord(i, AxisX)))
		b.WriteByte(',')
		b.WriteString(formatCoord(p.Coord(i, AxisY)))
		b.WriteString("],")
	}
	b.WriteByte('[')
	b.WriteString(formatCoord(p.Coord(0, AxisX)))
	b.WriteByte(',')
	b.WriteString(formatCoord(p.Coord(0, AxisY)))
	b.WriteString("]]")
	return b.String()
}

// RenderSVG renders the polygon as an SVG <polyline>, with the first vertex
// repeated as the explicit closing point (spec.md §4.D). Each extra
// argument, if non-empty, is appended verbatim as an attribute.
func RenderSVG(p *Polygon, attrs ...string) string {
	var b strings.Builder
	b.WriteString("<polyline points='")
	for i := 0; i < p.NVertex(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatCoord(p.Coord(i, AxisX)))
		b.WriteByte(',')
		b.WriteString(formatCoord(p.Coord(i, AxisY)))
	}
	b.WriteByte(' ')
	b.WriteString(formatCoord(p.Coord(0, AxisX)))
	b.WriteByte(',')
	b.WriteString(formatCoord(p.Coord(0, AxisY)))
	b.WriteByte('\'')
	for _, a := range attrs {
		if a != "" {
			b.WriteByte(' ')
			b.WriteString(a)
		}
	}
	b.WriteString("></polyline>")
	return b.String()
}
