package geopoly

import (
	"encoding/binary"
	"math"
)

// coordSize is the on-disk size, in bytes, of a single coordinate
// (spec.md §3: coordinates are single-precision floats).
const coordSize = 4

// headerSize is the size, in bytes, of the binary polygon header: a 1-byte
// endian flag followed by a 24-bit big-endian vertex count.
const headerSize = 4

// hostIsLittleEndian reports whether the running architecture is
// little-endian, without resorting to unsafe pointer tricks.
func hostIsLittleEndian() bool {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 1)
	return buf[0] == 1
}

// Decode parses the on-disk binary polygon format (spec.md §3/§4.B).
//
// Validation requires:
//   - length >= headerSize + minVertices*2*coordSize (at least 3 vertices)
//   - length == headerSize + nVertex*2*coordSize
//   - endian flag in {0, 1}
//
// Coordinates are read according to the declared endian flag; the resulting
// in-memory Polygon holds true float32 values independent of either the
// source or host byte order.
func Decode(blob []byte) (*Polygon, error) {
	minLen := headerSize + minVertices*2*coordSize
	if len(blob) < minLen {
		return nil, &ErrInvalidBlob{Reason: "too short for a 3-vertex polygon", Length: len(blob)}
	}

	endianFlag := blob[0]
	if endianFlag != 0 && endianFlag != 1 {
		return nil, &ErrInvalidBlob{Reason: "endian flag must be 0 or 1", Length: len(blob)}
	}

	nVertex := int(blob[1])<<16 | int(blob[2])<<8 | int(blob[3])
	want := headerSize + nVertex*2*coordSize
	if want != len(blob) {
		return nil, &ErrInvalidBlob{Reason: "length does not match header vertex count", Length: len(blob)}
	}

	var order binary.ByteOrder = binary.BigEndian
	if endianFlag == 1 {
		order = binary.LittleEndian
	}

	coords := make([]float32, nVertex*2)
	for i := range coords {
		off := headerSize + i*coordSize
		coords[i] = math.Float32frombits(order.Uint32(blob[off : off+coordSize]))
	}

	return &Polygon{coords: coords}, nil
}

// Encode serializes a Polygon to the on-disk binary format, using the host's
// native byte order for coordinates and recording that order in the endian
// flag (spec.md §4.B).
func Encode(p *Polygon) []byte {
	n := p.NVertex()
	buf := make([]byte, headerSize+n*2*coordSize)

	var order binary.ByteOrder = binary.BigEndian
	buf[0] = 0
	if hostIsLittleEndian() {
		order = binary.LittleEndian
		buf[0] = 1
	}

	buf[1] = byte(n >> 16)
	buf[2] = byte(n >> 8)
	buf[3] = byte(n)

	for i, c := range p.coords {
		off := headerSize + i*coordSize
		order.PutUint32(buf[off:off+coordSize], math.Float32bits(c))
	}

	return buf
}
