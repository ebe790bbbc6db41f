package geopoly

import (
	"fmt"

	core "github.com/polyspace/geopoly/internal/geopoly"
)

// coerce implements the scalar-function argument coercion (spec.md §4.G):
// a BLOB argument is decoded via the binary format first; a TEXT argument
// falls back to the JSON parser; anything else is not a polygon. The bool
// result is false whenever the argument could not be coerced — callers
// return SQL NULL in that case rather than propagating an error, matching
// the source's "bad input yields NULL, not an error" scalar-function
// convention. The underlying failure (including a SQL-type mismatch, which
// has no Decode/ParseJSON error of its own) is still logged through the
// package's debug diagnostics when enabled.
func coerce(arg any) (Polygon, bool) {
	p, err := coerceErr(arg)
	if err != nil {
		core.Debugf("coerce: %v", err)
		return Polygon{}, false
	}
	return p, true
}

func coerceErr(arg any) (Polygon, error) {
	switch v := arg.(type) {
	case []byte:
		return Decode(v)
	case string:
		return ParseJSON(v)
	default:
		return Polygon{}, &core.ErrNotAPolygon{Kind: fmt.Sprintf("%T", arg)}
	}
}
