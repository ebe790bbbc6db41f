package geopoly

// Overlap classification result codes (spec.md §4.F / §6). Per the source
// doc comment this is pinned against (original_source/ext/rtree/geopoly.c:
// "2 P1 is completely contained within P2", "3 P2 is completely contained
// within P1"), OverlapP2ContainsP1 is rc 2 and OverlapP1ContainsP2 is rc 3 —
// spec.md's own S7/S8 scenario table has these two swapped; the bit-for-bit
// aOverlap classification rule it states in the same breath is what was
// preserved here, since that rule is copied verbatim from the algorithm
// (see DESIGN.md).
const (
	OverlapDisjoint     = 0
	OverlapCross        = 1
	OverlapP2ContainsP1 = 2
	OverlapP1ContainsP2 = 3
	OverlapEqual        = 4
)

// overlapSide identifies which input polygon a segment belongs to. Values
// double as the XOR mask used while sweeping (spec.md §4.F).
type overlapSide uint8

const (
	sideP1 overlapSide = 1
	sideP2 overlapSide = 2
)

const (
	eventAdd    = 0
	eventRemove = 1
)

// segment is one non-vertical polygon edge, expressed as y = c*x + b over
// x in [x0,x1]. next links it into either the sweep's active list or,
// transiently, a sortSegmentsByYAndC merge-sort lane.
type segment struct {
	c, b float64
	y    float64 // y at the sweep's current x
	y0   float64 // y at the left endpoint, x0
	side overlapSide
	next int32
}

// event fires when the sweep line reaches a segment's left (add) or right
// (remove) endpoint. next links it into the sortEventsByX merge-sort lane
// and, after sorting, into the final x-ordered traversal list.
type event struct {
	x    float64
	kind uint8
	seg  int32
	next int32
}

// overlapWorkspace is the transient arena a single Overlap call allocates:
// exactly enough events and segments for the two input polygons, indexed
// rather than pointer-linked, and owned by that call alone (spec.md §4.F).
type overlapWorkspace struct {
	events   []event
	segments []segment
	nEvent   int
	nSegment int
}

// addSegment appends one polygon edge as a segment plus its two endpoint
// events. Vertical edges (x0 == x1) contribute nothing to the sweep and are
// skipped, matching the source: a vertical edge can never be crossed by a
// vertical sweep line.
func (w *overlapWorkspace) addSegment(x0, y0, x1, y1 float64, side overlapSide) {
	if x0 == x1 {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	segIdx := int32(w.nSegment)
	c := (y1 - y0) / (x1 - x0)
	w.segments[w.nSegment] = segment{
		c:    c,
		b:    y1 - x1*c,
		y0:   y0,
		side: side,
		next: nilIdx,
	}
	w.nSegment++

	w.events[w.nEvent] = event{x: x0, kind: eventAdd, seg: segIdx, next: nilIdx}
	w.nEvent++
	w.events[w.nEvent] = event{x: x1, kind: eventRemove, seg: segIdx, next: nilIdx}
	w.nEvent++
}

// addPolygonSegments adds every edge of p, including the implicit closing
// edge from the last vertex back to the first, as segments belonging to side.
func (w *overlapWorkspace) addPolygonSegments(p *Polygon, side overlapSide) {
	n := p.NVertex()
	i := 0
	for ; i < n-1; i++ {
		w.addSegment(
			float64(p.Coord(i, AxisX)), float64(p.Coord(i, AxisY)),
			float64(p.Coord(i+1, AxisX)), float64(p.Coord(i+1, AxisY)),
			side)
	}
	w.addSegment(
		float64(p.Coord(i, AxisX)), float64(p.Coord(i, AxisY)),
		float64(p.Coord(0, AxisX)), float64(p.Coord(0, AxisY)),
		side)
}

// Overlap classifies the spatial relationship between p1 and p2 using a
// left-to-right plane sweep (spec.md §4.F, the algorithmic centerpiece):
//
//  1. Every edge of both polygons becomes a segment plus add/remove events
//     at its endpoints; events are sorted by x.
//  2. Segments active at the sweep line are kept in a list sorted by
//     (y, then slope) whenever a new segment has joined since the last sort.
//  3. At each distinct x, the active list is walked twice: once comparing
//     each segment's y from the previous stop (to mark which side-pair gap
//     aOverlap[mask] changed), then again after recomputing y at the new x
//     — a strict y inversion between adjacent segments on different sides
//     means the polygons cross and the sweep can return OverlapCross
//     immediately.
//  4. Once every event is consumed, aOverlap[3] (whether a region inside
//     both polygons ever appeared) separates disjoint polygons from the rest,
//     and aOverlap[1] and aOverlap[2] (whether a P1-only or P2-only gap ever
//     appeared) distinguish contained, equal, and overlapping polygons.
func Overlap(p1, p2 *Polygon) int {
	maxSeg := p1.NVertex() + p2.NVertex()
	w := &overlapWorkspace{
		events:   make([]event, maxSeg*2),
		segments: make([]segment, maxSeg),
	}
	w.addPolygonSegments(p1, sideP1)
	w.addPolygonSegments(p2, sideP2)

	eventHead := w.sortEventsByX()
	if eventHead == nilIdx {
		return OverlapDisjoint
	}

	var aOverlap [4]bool
	var active int32 = nilIdx
	needSort := false

	var rX float64
	if w.events[eventHead].x == 0.0 {
		rX = -1.0
	} else {
		rX = 0.0
	}

	for e := eventHead; e != nilIdx; e = w.events[e].next {
		ev := &w.events[e]
		if ev.x != rX {
			Debugf("distinct x: %g", ev.x)
			rX = ev.x
			if needSort {
				Debugf("sort")
				active = w.sortSegmentsByYAndC(active)
				needSort = false
			}

			iMask := 0
			var prev int32 = nilIdx
			for s := active; s != nilIdx; s = w.segments[s].next {
				if prev != nilIdx && w.segments[prev].y != w.segments[s].y {
					Debugf("mask: %d", iMask)
					aOverlap[iMask] = true
				}
				iMask ^= int(w.segments[s].side)
				prev = s
			}

			iMask = 0
			prev = nilIdx
			for s := active; s != nilIdx; s = w.segments[s].next {
				seg := &w.segments[s]
				newY := seg.c*rX + seg.b
				Debugf("segment %d.%d %g->%g", seg.side, s, seg.y, newY)
				seg.y = newY
				if prev != nilIdx {
					pv := &w.segments[prev]
					if pv.y > seg.y && pv.side != seg.side {
						Debugf("crossing: %d.%d and %d.%d", pv.side, prev, seg.side, s)
						return OverlapCross
					} else if pv.y != seg.y {
						Debugf("mask: %d", iMask)
						aOverlap[iMask] = true
					}
				}
				iMask ^= int(seg.side)
				prev = s
			}
		}

		evSeg := &w.segments[ev.seg]
		if ev.kind == eventAdd {
			Debugf("add %d.%d c=%g b=%g", evSeg.side, ev.seg, evSeg.c, evSeg.b)
		} else {
			Debugf("rm %d.%d c=%g b=%g", evSeg.side, ev.seg, evSeg.c, evSeg.b)
		}

		if ev.kind == eventAdd {
			seg := &w.segments[ev.seg]
			seg.y = seg.y0
			seg.next = active
			active = ev.seg
			needSort = true
		} else if active == ev.seg {
			active = w.segments[active].next
		} else {
			for s := active; s != nilIdx; s = w.segments[s].next {
				if w.segments[s].next == ev.seg {
					w.segments[s].next = w.segments[ev.seg].next
					break
				}
			}
		}
	}

	switch {
	case !aOverlap[3]:
		return OverlapDisjoint
	case aOverlap[1] && !aOverlap[2]:
		return OverlapP1ContainsP2
	case !aOverlap[1] && aOverlap[2]:
		return OverlapP2ContainsP1
	case !aOverlap[1] && !aOverlap[2]:
		return OverlapEqual
	default:
		return OverlapCross
	}
}
