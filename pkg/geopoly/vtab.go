package geopoly

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-sqlite3"

	core "github.com/polyspace/geopoly/internal/geopoly"
)

// BestIndex strategy identifiers (spec.md §4.H).
const (
	idxFullScan   = 0
	idxRowidEQ    = 1
	idxShapeMatch = 2
)

const rowidConstraintColumn = -1

// Table is one geopoly virtual-table instance: user columns c1..ck plus the
// visible _shape column and the hidden _bbox column (spec.md §4.H), backed
// by an R-tree for spatial pruning and an auxStore for everything else.
// nAux counts the user columns plus _shape, matching the collaborator field
// named in spec.md §9.
type Table struct {
	name    string
	columns []string
	nAux    int
	rtree   rtreeBackend
	aux     *auxStore

	// nNodeRef counts open cursors; Update refuses with ErrLocked while it
	// is nonzero (spec.md §4.H/§5's nNodeRef guard).
	nNodeRef int32
}

func newTable(db *sql.DB, name string, columns []string) (*Table, error) {
	aux, err := newAuxStore(db, name, columns)
	if err != nil {
		return nil, err
	}
	return &Table{
		name:    name,
		columns: columns,
		nAux:    len(columns) + 1,
		rtree:   newRtreeIndex(),
		aux:     aux,
	}, nil
}

func (t *Table) Open() (sqlite3.VTabCursor, error) {
	atomic.AddInt32(&t.nNodeRef, 1)
	return &cursor{table: t}, nil
}

func (t *Table) Disconnect() error { return nil }
func (t *Table) Destroy() error    { return t.aux.close() }

// BestIndex chooses one of the three strategies spec.md §4.H names, with
// their exact cost/row-count formulas:
//
//  1. Rowid equality, only usable when no MATCH constraint is present:
//     cost 30, 1 row, unique.
//  2. Shape MATCH against _shape (column index == nAux-1; _shape is the
//     last aux-backed column, nAux itself is the hidden _bbox column):
//     idxStr "Fx", cost/rows 6*(nRowEst/100 + 5).
//  3. Full scan, the default, same cost formula with an empty idxStr.
func (t *Table) BestIndex(cst []sqlite3.InfoConstraint, _ []sqlite3.InfoOrderBy) (*sqlite3.IndexResult, error) {
	matchArg, hasMatch := -1, false
	rowidArg, hasRowidEQ := -1, false
	anyMatch := false

	for i, c := range cst {
		if c.Op == sqlite3.OpMATCH {
			anyMatch = true
		}
		if !c.Usable {
			continue
		}
		if c.Column == t.nAux-1 && c.Op == sqlite3.OpMATCH {
			hasMatch, matchArg = true, i
		}
		if c.Column == rowidConstraintColumn && c.Op == sqlite3.OpEQ {
			hasRowidEQ, rowidArg = true, i
		}
	}

	used := make([]bool, len(cst))

	if !anyMatch && hasRowidEQ {
		used[rowidArg] = true
		return &sqlite3.IndexResult{
			Used:          used,
			IdxNum:        idxRowidEQ,
			EstimatedCost: 30.0,
			EstimatedRows: 1,
		}, nil
	}

	nRowEst := int64(t.rtree.Count())
	cost := 6.0 * (float64(nRowEst)/100.0 + 5.0)

	if hasMatch {
		used[matchArg] = true
		return &sqlite3.IndexResult{
			Used:          used,
			IdxNum:        idxShapeMatch,
			IdxStr:        "Fx",
			EstimatedCost: cost,
			EstimatedRows: nRowEst,
		}, nil
	}

	return &sqlite3.IndexResult{
		Used:          used,
		IdxNum:        idxFullScan,
		EstimatedCost: cost,
		EstimatedRows: nRowEst,
	}, nil
}

// Update applies one insert/update/delete in the ordering spec.md §5
// requires: bbox validation, conflict check, old-row deletion, new-row
// insertion, aux-column write; no rollback is attempted on a mid-sequence
// failure. data[0] is the old rowid (nil on a pure insert); data[1] is the
// new rowid (nil on a pure delete); data[2:] are the new column values in
// schema order (c1..ck, _shape) when this is not a pure delete.
//
// This signature is mattn/go-sqlite3's VTabUpdater interface, so the driver
// calls it directly from its cgo xUpdate shim for any INSERT/UPDATE/DELETE
// against the virtual table — no manual routing from Register is needed.
// Tests call it directly too, to exercise the ordering without SQL.
//
// Conflict handling is simplified relative to spec.md §4.H: mattn/go-sqlite3's
// VTabUpdater interface does not surface SQLite's ON CONFLICT mode the way
// the real xUpdate hook would, so there is no signal available to distinguish
// "resolve as REPLACE" from "report a constraint error" — Update always
// resolves a rowid collision by deleting the colliding row, which is correct
// for the REPLACE case and a deliberate narrowing of the other modes.
func (t *Table) Update(data []any) (newRowid int64, err error) {
	if atomic.LoadInt32(&t.nNodeRef) > 0 {
		return 0, &ErrLocked{}
	}

	oldRowid, oldValid := asRowid(data[0])
	var newRowidVal int64
	newValid := false
	if len(data) > 1 {
		newRowidVal, newValid = asRowid(data[1])
	}
	isDelete := !newValid

	var bbox core.BBox
	var shapeBlob []byte
	var userVals []any

	if !isDelete {
		shapeBlob, _ = data[2+len(t.columns)].([]byte)
		poly, decErr := Decode(shapeBlob)
		if decErr != nil {
			return 0, &ErrBadShape{}
		}
		bbox = poly.BBox()
		userVals = data[2 : 2+len(t.columns)]

		if newValid && (!oldValid || newRowidVal != oldRowid) {
			if _, _, readErr := t.aux.read(newRowidVal); readErr == nil {
				if err := t.deleteRow(newRowidVal); err != nil {
					return 0, fmt.Errorf("resolve rowid conflict on %d: %w", newRowidVal, err)
				}
			}
		}
	}

	if oldValid {
		t.rtree.Delete(oldRowid)
		if !isDelete && newRowidVal != oldRowid {
			if err := t.aux.delete(oldRowid); err != nil {
				return 0, err
			}
		}
	}

	if isDelete {
		if err := t.aux.delete(oldRowid); err != nil {
			return 0, err
		}
		return 0, nil
	}

	t.rtree.Insert(newRowidVal, bbox)
	if err := t.aux.write(newRowidVal, userVals, shapeBlob); err != nil {
		return 0, err
	}
	return newRowidVal, nil
}

var _ sqlite3.VTabUpdater = (*Table)(nil)

func (t *Table) deleteRow(rowid int64) error {
	t.rtree.Delete(rowid)
	return t.aux.delete(rowid)
}

func asRowid(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// cursor walks the rowid list a Filter call produced.
type cursor struct {
	table      *Table
	rowids     []int64
	bboxShapes map[int64][]byte // populated only for MATCH scans
	pos        int
}

func (c *cursor) Close() error {
	atomic.AddInt32(&c.table.nNodeRef, -1)
	return nil
}

func (c *cursor) Filter(idxNum int, _ string, vals []any) error {
	c.pos = 0
	c.bboxShapes = nil

	switch idxNum {
	case idxRowidEQ:
		rowid, ok := asRowid(vals[0])
		if !ok {
			c.rowids = nil
			return nil
		}
		if _, _, err := c.table.aux.read(rowid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.rowids = nil
				return nil
			}
			return err
		}
		c.rowids = []int64{rowid}

	case idxShapeMatch:
		shapeArg, _ := vals[0].([]byte)
		query, err := Decode(shapeArg)
		if err != nil {
			c.rowids = nil
			return nil
		}
		bbox := query.BBox()
		candidates := c.table.rtree.SearchIntersect(bbox)
		c.bboxShapes = make(map[int64][]byte, len(candidates))
		filtered := make([]int64, 0, len(candidates))
		for _, rowid := range candidates {
			_, shape, err := c.table.aux.read(rowid)
			if err != nil {
				continue
			}
			cand, err := Decode(shape)
			if err != nil {
				continue
			}
			switch cand.Overlap(query) {
			case OverlapCross, OverlapP1ContainsP2, OverlapP2ContainsP1, OverlapEqual:
				filtered = append(filtered, rowid)
				c.bboxShapes[rowid] = cand.BBoxPolygon().Blob()
			}
		}
		c.rowids = filtered

	default:
		rowids, err := c.table.aux.allRowids()
		if err != nil {
			return err
		}
		c.rowids = rowids
	}
	return nil
}

func (c *cursor) Next() error {
	c.pos++
	return nil
}

func (c *cursor) EOF() bool {
	return c.pos >= len(c.rowids)
}

func (c *cursor) Rowid() (int64, error) {
	return c.rowids[c.pos], nil
}

func (c *cursor) Column(ctx *sqlite3.SQLiteContext, col int) error {
	rowid := c.rowids[c.pos]
	nAux := c.table.nAux

	if col < nAux {
		vals, shape, err := c.table.aux.read(rowid)
		if err != nil {
			ctx.ResultNull()
			return nil
		}
		if col == nAux-1 {
			ctx.ResultBlob(shape)
			return nil
		}
		resultValue(ctx, vals[col])
		return nil
	}

	// col == nAux: the hidden _bbox column, filled in only when the
	// current scan came from the R-tree MATCH filter (spec.md §4.H).
	if blob, ok := c.bboxShapes[rowid]; ok {
		ctx.ResultBlob(blob)
	} else {
		ctx.ResultNull()
	}
	return nil
}

func resultValue(ctx *sqlite3.SQLiteContext, v any) {
	switch val := v.(type) {
	case int64:
		ctx.ResultInt64(val)
	case float64:
		ctx.ResultDouble(val)
	case string:
		ctx.ResultText(val)
	case []byte:
		ctx.ResultBlob(val)
	default:
		ctx.ResultNull()
	}
}

// module implements sqlite3.Module, creating one Table per
// `CREATE VIRTUAL TABLE ... USING geopoly(...)` statement.
type module struct {
	db *sql.DB
}

func (m *module) Create(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.Connect(c, args)
}

func (m *module) Connect(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	name, columns, err := parseModuleArgs(args)
	if err != nil {
		return nil, err
	}
	if err := c.DeclareVTab(declareSQL(columns)); err != nil {
		return nil, fmt.Errorf("declare geopoly vtab %s: %w", name, err)
	}
	return newTable(m.db, name, columns)
}

func (m *module) DestroyModule() {}

// parseModuleArgs extracts the table name and user column definitions from
// CREATE VIRTUAL TABLE's argument vector: args[0] is the module name,
// args[1] the database name, args[2] the table name, the rest user column
// definitions.
func parseModuleArgs(args []string) (name string, columns []string, err error) {
	if len(args) < 3 {
		return "", nil, fmt.Errorf("geopoly: CREATE VIRTUAL TABLE arguments lack a table name")
	}
	name = args[2]
	for _, a := range args[3:] {
		columns = append(columns, strings.TrimSpace(a))
	}
	return name, columns, nil
}

func declareSQL(columns []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE x(")
	for _, c := range columns {
		b.WriteString(c)
		b.WriteString(", ")
	}
	b.WriteString("_shape, _bbox HIDDEN)")
	return b.String()
}
