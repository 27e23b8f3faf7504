package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/xivgo/server/internal/common"
	"golang.org/x/text/unicode/norm"
)

// Writer builds a little-endian wire payload.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString writes s as NFC-normalized UTF-8 into a fixed n-byte field,
// null padded. Overlong strings are truncated at a rune boundary.
func (w *Writer) WriteString(s string, n int) {
	raw := []byte(norm.NFC.String(s))
	if len(raw) > n {
		raw = raw[:n]
		for len(raw) > 0 && !utf8.Valid(raw) {
			raw = raw[:len(raw)-1]
		}
	}
	w.buf = append(w.buf, raw...)
	for i := len(raw); i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// WritePosition writes a full-precision position (3 × f32).
func (w *Writer) WritePosition(p common.Position) {
	w.WriteF32(p.X)
	w.WriteF32(p.Y)
	w.WriteF32(p.Z)
}

// packAxis quantizes a world coordinate into u16 over the packed range.
const packedRange = 1000.0 // world units covered by the packed u16 per axis

func packAxis(v float32) uint16 {
	scaled := (float64(v) + packedRange) * float64(math.MaxUint16) / (packedRange * 2)
	if scaled < 0 {
		scaled = 0
	}
	if scaled > math.MaxUint16 {
		scaled = math.MaxUint16
	}
	return uint16(scaled)
}

// WritePackedPosition writes a position quantized to u16 per axis over the
// bounded movement range, as positional updates carry it.
func (w *Writer) WritePackedPosition(p common.Position) {
	w.WriteU16(packAxis(p.X))
	w.WriteU16(packAxis(p.Y))
	w.WriteU16(packAxis(p.Z))
}

// WriteRotation quantizes a rotation in radians (-π..π) to u16.
func (w *Writer) WriteRotation(rot float32) {
	w.WriteU16(uint16((float64(rot) + math.Pi) / (2 * math.Pi) * math.MaxUint16))
}

// Pad appends n zero bytes.
func (w *Writer) Pad(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// PadTo zero-fills the buffer up to total length n. Writing past n is a bug
// in the payload layout; the length is left as-is so the size-contract test
// catches it.
func (w *Writer) PadTo(n int) {
	for len(w.buf) < n {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Bytes() []byte {
	return w.buf
}
