package packet

import (
	"fmt"
	"io"

	"github.com/xivgo/server/internal/common"
	"github.com/xivgo/server/internal/ipc/wire"
)

// ReadPacket reads and decodes one framed packet from r. The whole packet is
// discarded on any codec failure — segments are never partially delivered.
func ReadPacket(r io.Reader, state *ConnectionState, maxSize uint32) (Header, []Segment, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	if header.Size > maxSize {
		return Header{}, nil, fmt.Errorf("frame too large: %d > %d", header.Size, maxSize)
	}

	payload := make([]byte, header.Size-HeaderSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Header{}, nil, fmt.Errorf("read packet payload (%d bytes): %w", len(payload), err)
	}

	payload, err = decompress(state.ServerboundOodle, &header, payload)
	if err != nil {
		return Header{}, nil, err
	}

	segments := make([]Segment, 0, header.SegmentCount)
	pr := wire.NewReader(payload)
	for i := uint16(0); i < header.SegmentCount; i++ {
		seg, err := decodeSegment(pr, state)
		if err != nil {
			return Header{}, nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, seg)
	}
	return header, segments, nil
}

// SendPacket frames, optionally compresses, and writes the segments as one
// packet.
func SendPacket(w io.Writer, state *ConnectionState, connType ConnectionType, compressionType CompressionType, segments []Segment) error {
	body := wire.NewWriter()
	for i := range segments {
		if err := segments[i].encode(body, state.ClientKey); err != nil {
			return fmt.Errorf("encode segment %d: %w", i, err)
		}
	}

	payload, uncompressedSize, err := compress(state.ClientboundOodle, compressionType, body.Bytes())
	if err != nil {
		return err
	}

	header := Header{
		Timestamp:        common.TimestampMsecs(),
		Size:             uint32(HeaderSize + len(payload)),
		ConnectionType:   connType,
		SegmentCount:     uint16(len(segments)),
		CompressionType:  compressionType,
		UncompressedSize: uncompressedSize,
	}
	if err := header.WriteTo(w); err != nil {
		return fmt.Errorf("write packet header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write packet payload: %w", err)
	}
	return nil
}

// SendKeepAlive answers a keep-alive request inline on the read path,
// bypassing the send queue.
func SendKeepAlive(w io.Writer, state *ConnectionState, connType ConnectionType, id, timestamp uint32) error {
	seg := Segment{
		Data: KeepAliveData{Response: true, ID: id, Timestamp: timestamp},
	}
	return SendPacket(w, state, connType, CompressionNone, []Segment{seg})
}
