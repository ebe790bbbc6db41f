package geopoly

import (
	"database/sql"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Register wires the geopoly_* scalar functions and the geopoly virtual
// table onto a live SQLite connection. Call it from a
// sqlite3.SQLiteDriver.ConnectHook so every new connection picks up both;
// db should be the *sql.DB the same ConnectHook's connection belongs to —
// the virtual table's auxiliary-column storage runs its own prepared
// statements through it (spec.md §4.H), since go-sqlite3's virtual-table
// bridge hands the module a raw *sqlite3.SQLiteConn, not a *sql.DB.
func Register(db *sql.DB, conn *sqlite3.SQLiteConn) error {
	scalarFuncs := map[string]any{
		"geopoly_blob":    scalarBlob,
		"geopoly_json":    scalarJSON,
		"geopoly_svg":     scalarSVG,
		"geopoly_area":    scalarArea,
		"geopoly_bbox":    scalarBBox,
		"geopoly_within":  scalarWithin,
		"geopoly_overlap": scalarOverlap,
		"geopoly_debug":   scalarDebug,
	}
	for name, fn := range scalarFuncs {
		if err := conn.RegisterFunc(name, fn, true); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}

	if err := conn.CreateModule("geopoly", &module{db: db}); err != nil {
		return fmt.Errorf("register geopoly module: %w", err)
	}
	return nil
}

// coerce-then-NULL scalar wrappers (spec.md §4.G/§6): a coercion failure
// returns Go nil, which the driver maps to SQL NULL rather than an error.

func scalarBlob(x any) []byte {
	p, ok := coerce(x)
	if !ok {
		return nil
	}
	return p.Blob()
}

func scalarJSON(x any) any {
	p, ok := coerce(x)
	if !ok {
		return nil
	}
	return p.JSON()
}

func scalarSVG(x any, attrs ...string) any {
	p, ok := coerce(x)
	if !ok {
		return nil
	}
	return p.SVG(attrs...)
}

func scalarArea(x any) any {
	p, ok := coerce(x)
	if !ok {
		return nil
	}
	return p.Area()
}

func scalarBBox(x any) []byte {
	p, ok := coerce(x)
	if !ok {
		return nil
	}
	return p.BBoxPolygon().Blob()
}

func scalarWithin(x any, px, py float64) any {
	p, ok := coerce(x)
	if !ok {
		return nil
	}
	return int64(p.Within(px, py))
}

func scalarOverlap(x, y any) any {
	p1, ok1 := coerce(x)
	p2, ok2 := coerce(y)
	if !ok1 || !ok2 {
		return nil
	}
	return int64(p1.Overlap(p2))
}

// scalarDebug implements geopoly_debug(i): toggles the process-wide debug
// flag and echoes its argument, matching the source's no-op-unless-enabled
// convention (spec.md §4.G).
func scalarDebug(i int64) int64 {
	SetDebug(i != 0)
	return i
}
