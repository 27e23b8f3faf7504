package ipc

import (
	"fmt"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc/wire"
)

// HeaderSize is the fixed IPC header inside an Ipc segment.
const HeaderSize = 16

// Header is the 16-byte IPC header: reserved u8, route u8, opcode u16,
// reserved u16, server_id u16, timestamp u32 (seconds), reserved u32.
type Header struct {
	Route     uint8
	Opcode    uint16
	ServerID  uint16
	Timestamp uint32
}

func (h *Header) encode(w *wire.Writer) {
	w.WriteU8(0)
	w.WriteU8(h.Route)
	w.WriteU16(h.Opcode)
	w.WriteU16(0)
	w.WriteU16(h.ServerID)
	w.WriteU32(h.Timestamp)
	w.WriteU32(0)
}

func decodeHeader(r *wire.Reader) Header {
	r.Skip(1)
	route := r.ReadU8()
	opcode := r.ReadU16()
	r.Skip(2)
	serverID := r.ReadU16()
	timestamp := r.ReadU32()
	r.Skip(4)
	return Header{Route: route, Opcode: opcode, ServerID: serverID, Timestamp: timestamp}
}

// Payload is one IPC body. Marshal writes the variant layout; Unmarshal
// reads it back. Layout errors surface through the wire reader.
type Payload interface {
	MarshalBody(w *wire.Writer)
	UnmarshalBody(r *wire.Reader)
}

// splitEnvelope cracks an envelope into header and body.
func splitEnvelope(envelope []byte) (Header, []byte, error) {
	if len(envelope) < HeaderSize {
		return Header{}, nil, fmt.Errorf("ipc envelope too short: %d", len(envelope))
	}
	hr := wire.NewReader(envelope[:HeaderSize])
	h := decodeHeader(hr)
	return h, envelope[HeaderSize:], nil
}

// encodeEnvelope builds header+body bytes for a payload. When the opcode has
// a known expected size the body is padded out to it; a body that overruns
// its expected size is a layout bug and fails loudly.
func encodeEnvelope(opcode uint16, serverID uint16, p Payload, expected uint32, sized bool) ([]byte, error) {
	h := Header{Opcode: opcode, ServerID: serverID, Timestamp: common.TimestampSecs()}
	w := wire.NewWriter()
	h.encode(w)
	p.MarshalBody(w)
	if sized {
		if uint32(w.Len()) > expected {
			return nil, fmt.Errorf("opcode 0x%X body overruns expected size: %d > %d", opcode, w.Len(), expected)
		}
		w.PadTo(int(expected))
	}
	return w.Bytes(), nil
}

// decodeBody runs a payload's unmarshal over the body, enforcing the
// expected length for known opcodes.
func decodeBody(opcode uint16, p Payload, body []byte, expected uint32, sized bool) error {
	if sized && uint32(len(body))+HeaderSize != expected {
		return fmt.Errorf("opcode 0x%X body size mismatch: got %d, want %d", opcode, len(body)+HeaderSize, expected)
	}
	r := wire.NewReader(body)
	p.UnmarshalBody(r)
	if err := r.Err(); err != nil {
		return fmt.Errorf("opcode 0x%X: %w", opcode, err)
	}
	return nil
}
