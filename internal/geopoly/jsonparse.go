package geopoly

import "strconv"

// initialVertexChunk is the number of vertex pairs the vertex buffer holds
// before it must grow (spec.md §4.C: "initial chunk of 16 pairs").
const initialVertexChunk = 16

// ParseJSON parses the textual polygon format: a JSON array of 2-element
// (or longer — extra coordinates are parsed and discarded) numeric arrays,
// optionally with a repeated first point at the end (spec.md §3/§4.C).
//
// Whitespace (space, tab, LF, CR) is ignored between tokens. On success the
// returned polygon has nVertex >= 3; if the last point bitwise equals the
// first, it is dropped before that check.
func ParseJSON(text string) (*Polygon, error) {
	z := []byte(text)
	i := skipSpace(z, 0)
	if i >= len(z) || z[i] != '[' {
		return nil, &ErrInvalidJSON{Offset: i, Reason: "expected '['"}
	}
	i++

	verts := make([]float32, 0, initialVertexChunk*2)

	for {
		i = skipSpace(z, i)
		if i >= len(z) {
			return nil, &ErrInvalidJSON{Offset: i, Reason: "unexpected end of input"}
		}
		if z[i] == ']' {
			i++
			break
		}
		if z[i] != '[' {
			return nil, &ErrInvalidJSON{Offset: i, Reason: "expected a point array"}
		}
		i++

		var x, y float32
		count := 0
		for {
			i = skipSpace(z, i)
			val, next, ok := parseNumber(z, i)
			if !ok {
				return nil, &ErrInvalidJSON{Offset: i, Reason: "expected a number"}
			}
			switch count {
			case 0:
				x = val
			case 1:
				y = val
			}
			count++
			i = skipSpace(z, next)
			if i >= len(z) {
				return nil, &ErrInvalidJSON{Offset: i, Reason: "unexpected end of input"}
			}
			if z[i] == ',' {
				i++
				continue
			}
			if z[i] == ']' {
				i++
				break
			}
			return nil, &ErrInvalidJSON{Offset: i, Reason: "expected ',' or ']' in point"}
		}
		if count < 2 {
			return nil, &ErrInvalidJSON{Offset: i, Reason: "point needs at least two numbers"}
		}
		verts = appendVertex(verts, x, y)

		i = skipSpace(z, i)
		if i < len(z) && z[i] == ',' {
			i++
			i = skipSpace(z, i)
			if i < len(z) && z[i] == ']' {
				// Trailing comma before the closing bracket is allowed:
				// polygon := '[' point (',' point)* ','? ']'
				i++
				break
			}
			continue
		}
		if i < len(z) && z[i] == ']' {
			i++
			break
		}
		return nil, &ErrInvalidJSON{Offset: i, Reason: "expected ',' or ']'"}
	}

	nVertex := len(verts) / 2
	if nVertex >= 2 {
		lastX, lastY := verts[(nVertex-1)*2], verts[(nVertex-1)*2+1]
		if lastX == verts[0] && lastY == verts[1] {
			verts = verts[:len(verts)-2]
			nVertex--
		}
	}
	if nVertex < minVertices {
		return nil, &ErrInvalidJSON{Offset: i, Reason: "fewer than 3 vertices remain"}
	}

	return &Polygon{coords: verts}, nil
}

// appendVertex appends one (x,y) pair, growing the backing array
// geometrically (doubling) when full.
func appendVertex(verts []float32, x, y float32) []float32 {
	if len(verts)+2 > cap(verts) {
		newCap := cap(verts) * 2
		if newCap == 0 {
			newCap = initialVertexChunk * 2
		}
		grown := make([]float32, len(verts), newCap)
		copy(grown, verts)
		verts = grown
	}
	return append(verts, x, y)
}

func skipSpace(z []byte, i int) int {
	for i < len(z) {
		switch z[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		}
		break
	}
	return i
}

// parseNumber scans one JSON number (spec.md §4.C grammar) starting at z[i],
// returning its value, the index just past it, and whether a valid number
// was found. It never partially consumes invalid input: on failure, next
// equals the starting index.
//
// Grammar:
//
//	number := '-'? int ('.' frac)? ([eE] [+-]? digit+)?
//	int    := '0' | [1-9] digit*     (leading zeros forbidden)
func parseNumber(z []byte, i int) (value float32, next int, ok bool) {
	start := i
	n := len(z)

	if i < n && z[i] == '-' {
		i++
	}

	if i >= n || z[i] < '0' || z[i] > '9' {
		return 0, start, false
	}
	if z[i] == '0' {
		i++
		if i < n && z[i] >= '0' && z[i] <= '9' {
			return 0, start, false // leading zero forbidden
		}
	} else {
		for i < n && z[i] >= '0' && z[i] <= '9' {
			i++
		}
	}

	seenDot := false
	seenExp := false
	lastWasDigit := true

loop:
	for i < n {
		c := z[i]
		switch {
		case c >= '0' && c <= '9':
			i++
			lastWasDigit = true
		case c == '.':
			if seenDot || seenExp {
				return 0, start, false
			}
			seenDot = true
			lastWasDigit = false
			i++
		case c == 'e' || c == 'E':
			if seenExp {
				return 0, start, false
			}
			if !lastWasDigit {
				return 0, start, false
			}
			seenExp = true
			lastWasDigit = false
			i++
			if i < n && (z[i] == '+' || z[i] == '-') {
				i++
			}
			if i >= n || z[i] < '0' || z[i] > '9' {
				return 0, start, false
			}
		default:
			break loop
		}
	}

	if !lastWasDigit {
		return 0, start, false
	}

	f, err := strconv.ParseFloat(string(z[start:i]), 32)
	if err != nil {
		return 0, start, false
	}
	return float32(f), i, true
}
