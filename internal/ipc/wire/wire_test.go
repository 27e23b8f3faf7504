package wire

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivgo/server/internal/common"
)

func TestWriterLittleEndian(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0xAB)
	w.WriteU16(0x1234)
	w.WriteU32(0xDEADBEEF)
	w.WriteU64(0x1122334455667788)

	assert.Equal(t, []byte{
		0xAB,
		0x34, 0x12,
		0xEF, 0xBE, 0xAD, 0xDE,
		0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11,
	}, w.Bytes())
}

func TestFixedString(t *testing.T) {
	w := NewWriter()
	w.WriteString("Orca", 8)
	assert.Equal(t, []byte{'O', 'r', 'c', 'a', 0, 0, 0, 0}, w.Bytes())

	r := NewReader(w.Bytes())
	assert.Equal(t, "Orca", r.ReadString(8))
	require.NoError(t, r.Err())
}

func TestFixedStringTruncatesAtRuneBoundary(t *testing.T) {
	w := NewWriter()
	w.WriteString("abécd", 3) // é is 2 bytes; a naive cut at 3 splits it
	b := w.Bytes()
	require.Len(t, b, 3)

	r := NewReader(b)
	s := r.ReadString(3)
	assert.True(t, utf8.ValidString(s), "truncation must not leave a partial rune")
	assert.Equal(t, "ab", s)
}

func TestReaderShortReadIsSticky(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	assert.Equal(t, uint8(1), r.ReadU8())
	assert.Equal(t, uint32(0), r.ReadU32()) // only one byte left
	require.Error(t, r.Err())
	assert.Equal(t, uint16(0), r.ReadU16()) // still failed
	require.Error(t, r.Err())
}

func TestPackedPositionRoundTrip(t *testing.T) {
	w := NewWriter()
	p := common.Position{X: 40.5, Y: 4.0, Z: -150.25}
	w.WritePackedPosition(p)
	require.Equal(t, 6, w.Len())

	r := NewReader(w.Bytes())
	got := r.ReadPackedPosition()
	require.NoError(t, r.Err())

	// Truncating quantization over ±1000 at 16 bits keeps the error within
	// one step, about 0.03 world units.
	assert.InDelta(t, p.X, got.X, 0.05)
	assert.InDelta(t, p.Y, got.Y, 0.05)
	assert.InDelta(t, p.Z, got.Z, 0.05)
}

func TestRotationRoundTrip(t *testing.T) {
	for _, rot := range []float32{-math.Pi, -1.5, 0, 0.75, 3.1} {
		w := NewWriter()
		w.WriteRotation(rot)
		r := NewReader(w.Bytes())
		assert.InDelta(t, rot, r.ReadRotation(), 0.001)
	}
}

func TestPadTo(t *testing.T) {
	w := NewWriter()
	w.WriteU16(7)
	w.PadTo(8)
	assert.Equal(t, []byte{7, 0, 0, 0, 0, 0, 0, 0}, w.Bytes())
}
