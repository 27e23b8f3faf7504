package packet

import (
	"fmt"

	"github.com/xivgo/server/internal/ipc/wire"
)

// SegmentType tags one framed unit within a packet.
type SegmentType uint16

const (
	SegmentSetup             SegmentType = 0x1
	SegmentInitialize        SegmentType = 0x2
	SegmentIpc               SegmentType = 0x3
	SegmentKeepAliveRequest  SegmentType = 0x7
	SegmentKeepAliveResponse SegmentType = 0x8
	SegmentKeyInit           SegmentType = 0x9
	SegmentKeyResponse       SegmentType = 0xA
	SegmentCustomIpc         SegmentType = 0xB
)

// segmentHeaderSize is the per-segment header: size u32, source u32,
// target u32, type u16, reserved u16.
const segmentHeaderSize = 16

// IpcHeaderSize is the fixed IPC header inside an Ipc segment body.
const IpcHeaderSize = 16

// SegmentData is the type-specific body of a segment.
type SegmentData interface {
	segmentType() SegmentType
	encode(w *wire.Writer)
}

// SetupData opens a session; the ticket carries the service account token.
type SetupData struct {
	Ticket string
}

const setupTicketLength = 64

func (SetupData) segmentType() SegmentType { return SegmentSetup }
func (d SetupData) encode(w *wire.Writer) {
	w.Pad(4)
	w.WriteString(d.Ticket, setupTicketLength)
}

// InitializeData acknowledges a session with the assigned actor id.
type InitializeData struct {
	ActorID   uint32
	Timestamp uint32
}

func (InitializeData) segmentType() SegmentType { return SegmentInitialize }
func (d InitializeData) encode(w *wire.Writer) {
	w.WriteU32(d.ActorID)
	w.WriteU32(d.Timestamp)
	w.Pad(32)
}

// IpcData is an opcode-tagged application payload. Envelope holds the
// 16-byte IPC header followed by the (decrypted) body; the ipc package
// owns its interpretation.
type IpcData struct {
	Envelope []byte
}

func (IpcData) segmentType() SegmentType { return SegmentIpc }
func (d IpcData) encode(w *wire.Writer) {
	w.WriteBytes(d.Envelope)
}

// KeepAliveData is shared by request and response segments.
type KeepAliveData struct {
	Response  bool
	ID        uint32
	Timestamp uint32
}

func (d KeepAliveData) segmentType() SegmentType {
	if d.Response {
		return SegmentKeepAliveResponse
	}
	return SegmentKeepAliveRequest
}
func (d KeepAliveData) encode(w *wire.Writer) {
	w.WriteU32(d.ID)
	w.WriteU32(d.Timestamp)
}

// KeyInitData carries the client's key material and handshake phrase.
type KeyInitData struct {
	Phrase string
	Key    [4]byte
}

const keyInitPhraseLength = 32

func (KeyInitData) segmentType() SegmentType { return SegmentKeyInit }
func (d KeyInitData) encode(w *wire.Writer) {
	w.Pad(36)
	w.WriteString(d.Phrase, keyInitPhraseLength)
	w.WriteBytes(d.Key[:])
	w.Pad(32)
}

// KeyResponseData acknowledges the derived session key.
type KeyResponseData struct {
	Data uint64
}

func (KeyResponseData) segmentType() SegmentType { return SegmentKeyResponse }
func (d KeyResponseData) encode(w *wire.Writer) {
	w.WriteU32(0xE0003C2A)
	w.WriteU64(d.Data)
}

// CustomIpcData is the private server-to-server envelope. Same shape as
// IpcData but never encrypted or compressed.
type CustomIpcData struct {
	Envelope []byte
}

func (CustomIpcData) segmentType() SegmentType { return SegmentCustomIpc }
func (d CustomIpcData) encode(w *wire.Writer) {
	w.WriteBytes(d.Envelope)
}

// Segment is one framed unit: routing pair plus a typed body.
type Segment struct {
	Source uint32
	Target uint32
	Data   SegmentData
}

// Type returns the segment's wire type tag.
func (s *Segment) Type() SegmentType {
	return s.Data.segmentType()
}

// encode serializes the segment, applying lobby-phase body encryption to
// IPC segments when a key is present.
func (s *Segment) encode(w *wire.Writer, key *[16]byte) error {
	body := wire.NewWriter()
	s.Data.encode(body)
	raw := body.Bytes()

	if ipcData, ok := s.Data.(IpcData); ok && key != nil {
		if len(ipcData.Envelope) < IpcHeaderSize {
			return fmt.Errorf("ipc envelope shorter than header: %d", len(ipcData.Envelope))
		}
		encrypted, err := encryptBody(key[:], raw[IpcHeaderSize:])
		if err != nil {
			return err
		}
		raw = append(raw[:IpcHeaderSize:IpcHeaderSize], encrypted...)
	}

	w.WriteU32(uint32(segmentHeaderSize + len(raw)))
	w.WriteU32(s.Source)
	w.WriteU32(s.Target)
	w.WriteU16(uint16(s.Data.segmentType()))
	w.WriteU16(0)
	w.WriteBytes(raw)
	return nil
}

// decodeSegment parses one segment, decrypting IPC bodies in the lobby phase.
func decodeSegment(r *wire.Reader, state *ConnectionState) (Segment, error) {
	size := r.ReadU32()
	source := r.ReadU32()
	target := r.ReadU32()
	segType := SegmentType(r.ReadU16())
	r.Skip(2)
	if err := r.Err(); err != nil {
		return Segment{}, fmt.Errorf("segment header: %w", err)
	}
	if size < segmentHeaderSize {
		return Segment{}, fmt.Errorf("segment size %d smaller than header", size)
	}
	body := r.ReadBytes(int(size) - segmentHeaderSize)
	if err := r.Err(); err != nil {
		return Segment{}, fmt.Errorf("segment body: %w", err)
	}

	seg := Segment{Source: source, Target: target}
	br := wire.NewReader(body)

	switch segType {
	case SegmentSetup:
		br.Skip(4)
		seg.Data = SetupData{Ticket: br.ReadString(setupTicketLength)}
	case SegmentInitialize:
		seg.Data = InitializeData{ActorID: br.ReadU32(), Timestamp: br.ReadU32()}
	case SegmentIpc:
		envelope := body
		if state.Phase == PhaseLobby {
			if state.ClientKey == nil {
				return Segment{}, fmt.Errorf("lobby ipc segment before key exchange")
			}
			if len(body) < IpcHeaderSize {
				return Segment{}, fmt.Errorf("ipc segment shorter than header: %d", len(body))
			}
			decrypted, err := decryptBody(state.ClientKey[:], body[IpcHeaderSize:])
			if err != nil {
				return Segment{}, err
			}
			envelope = append(body[:IpcHeaderSize:IpcHeaderSize], decrypted...)
		}
		seg.Data = IpcData{Envelope: envelope}
	case SegmentKeepAliveRequest:
		seg.Data = KeepAliveData{ID: br.ReadU32(), Timestamp: br.ReadU32()}
	case SegmentKeepAliveResponse:
		seg.Data = KeepAliveData{Response: true, ID: br.ReadU32(), Timestamp: br.ReadU32()}
	case SegmentKeyInit:
		br.Skip(36)
		d := KeyInitData{Phrase: br.ReadString(keyInitPhraseLength)}
		copy(d.Key[:], br.ReadBytes(4))
		seg.Data = d
	case SegmentKeyResponse:
		br.Skip(4)
		seg.Data = KeyResponseData{Data: br.ReadU64()}
	case SegmentCustomIpc:
		seg.Data = CustomIpcData{Envelope: body}
	default:
		return Segment{}, fmt.Errorf("unsupported segment type 0x%X", uint16(segType))
	}

	if err := br.Err(); err != nil {
		return Segment{}, fmt.Errorf("segment type 0x%X: %w", uint16(segType), err)
	}
	return seg, nil
}
