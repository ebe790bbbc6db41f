package geopoly

import (
	"github.com/dhconnelly/rtreego"

	core "github.com/polyspace/geopoly/internal/geopoly"
)

// rtreeBackend is the collaborator trait the virtual-table adapter needs
// from a 2-D R-tree (spec.md §9's nAux/nRowEst/nNodeRef/ChooseLeaf/
// rtreeInsertCell/rtreeDeleteRowid/rtreeSqlInit/nodeGetRowid/nodeRelease/
// rtreeRelease collaborator surface, narrowed to exactly the operations the
// adapter calls): insert and delete a row's bbox by rowid, and list the
// rowids whose bbox intersects a query bbox.
type rtreeBackend interface {
	Insert(rowid int64, bbox core.BBox)
	Delete(rowid int64) bool
	SearchIntersect(bbox core.BBox) []int64
	Count() int
}

// rtreeEntry is the rtreego.Spatial value stored per indexed row.
type rtreeEntry struct {
	rowid int64
	bbox  core.BBox
}

// epsilon pads a zero-width or zero-height bbox so rtreego's rectangle
// constructor (which rejects non-positive side lengths) still accepts a
// polygon that happens to be degenerate along one axis — mirrors the
// epsilon-padding the teacher applies to zero-area feature bounds.
const epsilon = 1e-6

func (e *rtreeEntry) Bounds() rtreego.Rect {
	w := float64(e.bbox.MaxX - e.bbox.MinX)
	h := float64(e.bbox.MaxY - e.bbox.MinY)
	if w <= 0 {
		w = epsilon
	}
	if h <= 0 {
		h = epsilon
	}
	rect, _ := rtreego.NewRect(rtreego.Point{float64(e.bbox.MinX), float64(e.bbox.MinY)}, []float64{w, h})
	return rect
}

// rtreeIndex implements rtreeBackend over a real *rtreego.Rtree. rtreego's
// Delete and Insert operate on the Spatial value itself, not a bare rowid,
// so the entry for each indexed rowid is kept in a side map.
type rtreeIndex struct {
	tree    *rtreego.Rtree
	entries map[int64]*rtreeEntry
}

func newRtreeIndex() *rtreeIndex {
	return &rtreeIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[int64]*rtreeEntry),
	}
}

func (r *rtreeIndex) Insert(rowid int64, bbox core.BBox) {
	if old, ok := r.entries[rowid]; ok {
		r.tree.Delete(old)
	}
	e := &rtreeEntry{rowid: rowid, bbox: bbox}
	r.entries[rowid] = e
	r.tree.Insert(e)
}

func (r *rtreeIndex) Delete(rowid int64) bool {
	e, ok := r.entries[rowid]
	if !ok {
		return false
	}
	delete(r.entries, rowid)
	return r.tree.Delete(e)
}

func (r *rtreeIndex) SearchIntersect(bbox core.BBox) []int64 {
	w := float64(bbox.MaxX - bbox.MinX)
	h := float64(bbox.MaxY - bbox.MinY)
	if w <= 0 {
		w = epsilon
	}
	if h <= 0 {
		h = epsilon
	}
	rect, err := rtreego.NewRect(rtreego.Point{float64(bbox.MinX), float64(bbox.MinY)}, []float64{w, h})
	if err != nil {
		return nil
	}
	hits := r.tree.SearchIntersect(rect)
	rowids := make([]int64, 0, len(hits))
	for _, h := range hits {
		rowids = append(rowids, h.(*rtreeEntry).rowid)
	}
	return rowids
}

func (r *rtreeIndex) Count() int { return len(r.entries) }
