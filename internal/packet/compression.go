package packet

import "fmt"

// CompressionType selects the block codec for a packet's payload.
type CompressionType uint8

const (
	CompressionNone  CompressionType = 0
	CompressionOodle CompressionType = 2
)

// Oodle is the network block codec boundary. The real codec is proprietary;
// anything satisfying this interface can stand in. Instances are stateful
// per direction and must not be shared between connections.
type Oodle interface {
	// Encode compresses a contiguous block.
	Encode(data []byte) []byte
	// Decode decompresses back to exactly expectedSize bytes.
	Decode(data []byte, expectedSize uint32) ([]byte, error)
}

// PassthroughOodle is the stand-in codec used when the proprietary library
// is not linked: blocks pass through unchanged, sizes still enforced.
type PassthroughOodle struct{}

func (PassthroughOodle) Encode(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

func (PassthroughOodle) Decode(data []byte, expectedSize uint32) ([]byte, error) {
	if uint32(len(data)) != expectedSize {
		return nil, fmt.Errorf("decompressed size mismatch: got %d, want %d", len(data), expectedSize)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// compress runs the payload through the selected codec. Returns the on-wire
// bytes and the uncompressed size field value (zero when uncompressed).
func compress(codec Oodle, compressionType CompressionType, payload []byte) ([]byte, uint32, error) {
	switch compressionType {
	case CompressionNone:
		return payload, 0, nil
	case CompressionOodle:
		if codec == nil {
			return nil, 0, fmt.Errorf("oodle compression requested but no codec attached")
		}
		return codec.Encode(payload), uint32(len(payload)), nil
	default:
		return nil, 0, fmt.Errorf("unsupported compression type %d", compressionType)
	}
}

// decompress undoes compress, enforcing the advertised uncompressed size.
func decompress(codec Oodle, h *Header, payload []byte) ([]byte, error) {
	switch h.CompressionType {
	case CompressionNone:
		return payload, nil
	case CompressionOodle:
		if codec == nil {
			return nil, fmt.Errorf("oodle packet received but no codec attached")
		}
		data, err := codec.Decode(payload, h.UncompressedSize)
		if err != nil {
			return nil, err
		}
		if uint32(len(data)) != h.UncompressedSize {
			return nil, fmt.Errorf("decompressed size mismatch: got %d, want %d", len(data), h.UncompressedSize)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported compression type %d", h.CompressionType)
	}
}
