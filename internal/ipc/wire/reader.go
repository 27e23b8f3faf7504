package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/xivgo/server/internal/common"
)

// Reader reads little-endian wire fields from a payload. A short read marks
// the reader failed; every later read returns zero values. Callers check
// Err() once after decoding a payload — a failed reader discards the packet.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) fail(n int) {
	if r.err == nil {
		r.err = fmt.Errorf("truncated payload: need %d bytes at offset %d of %d", n, r.off, len(r.data))
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.fail(n)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) ReadU8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) ReadU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) ReadU32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) ReadU64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *Reader) ReadI32() int32 {
	return int32(r.ReadU32())
}

func (r *Reader) ReadF32() float32 {
	return math.Float32frombits(r.ReadU32())
}

// ReadBytes reads n raw bytes into a fresh slice.
func (r *Reader) ReadBytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return make([]byte, n)
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadString reads a fixed n-byte null-padded UTF-8 field.
func (r *Reader) ReadString(n int) string {
	b := r.take(n)
	if b == nil {
		return ""
	}
	end := 0
	for end < len(b) && b[end] != 0 {
		end++
	}
	return string(b[:end])
}

// ReadPosition reads a full-precision position (3 × f32).
func (r *Reader) ReadPosition() common.Position {
	return common.Position{X: r.ReadF32(), Y: r.ReadF32(), Z: r.ReadF32()}
}

func unpackAxis(v uint16) float32 {
	return float32(float64(v)*(packedRange*2)/float64(math.MaxUint16) - packedRange)
}

// ReadPackedPosition reads a u16-per-axis quantized position.
func (r *Reader) ReadPackedPosition() common.Position {
	return common.Position{
		X: unpackAxis(r.ReadU16()),
		Y: unpackAxis(r.ReadU16()),
		Z: unpackAxis(r.ReadU16()),
	}
}

// ReadRotation reads a u16-quantized rotation back into radians.
func (r *Reader) ReadRotation() float32 {
	return float32(float64(r.ReadU16())*(2*math.Pi)/math.MaxUint16 - math.Pi)
}

// Skip advances past n padding bytes.
func (r *Reader) Skip(n int) {
	r.take(n)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.err != nil {
		return 0
	}
	return len(r.data) - r.off
}

// Err reports the first short read, if any.
func (r *Reader) Err() error {
	return r.err
}
