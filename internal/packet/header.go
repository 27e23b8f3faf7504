package packet

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ConnectionType tags which role a packet belongs to.
type ConnectionType uint16

const (
	ConnectionNone  ConnectionType = 0
	ConnectionZone  ConnectionType = 1
	ConnectionChat  ConnectionType = 2
	ConnectionLobby ConnectionType = 3
	// ConnectionCustom is the private server-to-server channel on the world port.
	ConnectionCustom ConnectionType = 0xFFFF
)

func (t ConnectionType) String() string {
	switch t {
	case ConnectionNone:
		return "None"
	case ConnectionZone:
		return "Zone"
	case ConnectionChat:
		return "Chat"
	case ConnectionLobby:
		return "Lobby"
	case ConnectionCustom:
		return "Custom"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(t))
	}
}

// HeaderSize is the fixed packet header length on the wire.
const HeaderSize = 40

// Header is the 40-byte little-endian packet header.
// Layout: prefix[16]=0, timestamp u64 (ms), size u32 (header+payload),
// connection_type u16, segment_count u16, version u16=0,
// compression_type u8, unk u8=0, uncompressed_size u32.
type Header struct {
	Timestamp        uint64
	Size             uint32
	ConnectionType   ConnectionType
	SegmentCount     uint16
	CompressionType  CompressionType
	UncompressedSize uint32
}

// WriteTo serializes the header.
func (h *Header) WriteTo(w io.Writer) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint64(buf[16:], h.Timestamp)
	binary.LittleEndian.PutUint32(buf[24:], h.Size)
	binary.LittleEndian.PutUint16(buf[28:], uint16(h.ConnectionType))
	binary.LittleEndian.PutUint16(buf[30:], h.SegmentCount)
	// buf[32:34] version, always zero
	buf[34] = byte(h.CompressionType)
	// buf[35] unused
	binary.LittleEndian.PutUint32(buf[36:], h.UncompressedSize)
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads one packet header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("read packet header: %w", err)
	}
	h := Header{
		Timestamp:        binary.LittleEndian.Uint64(buf[16:]),
		Size:             binary.LittleEndian.Uint32(buf[24:]),
		ConnectionType:   ConnectionType(binary.LittleEndian.Uint16(buf[28:])),
		SegmentCount:     binary.LittleEndian.Uint16(buf[30:]),
		CompressionType:  CompressionType(buf[34]),
		UncompressedSize: binary.LittleEndian.Uint32(buf[36:]),
	}
	if h.Size < HeaderSize {
		return Header{}, fmt.Errorf("packet size %d smaller than header", h.Size)
	}
	return h, nil
}
