package packet

// Phase is the handshake phase of one socket. Only the lobby phase carries
// segment-level encryption.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseLobby
	PhaseZone
	PhaseChat
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "None"
	case PhaseLobby:
		return "Lobby"
	case PhaseZone:
		return "Zone"
	case PhaseChat:
		return "Chat"
	default:
		return "Invalid"
	}
}

// ConnectionState is the per-socket codec state: phase, the session key once
// derived, and the two direction-bound compressor instances.
type ConnectionState struct {
	Phase     Phase
	ClientKey *[16]byte

	// Compressors are stateful and direction-bound; never share across sockets.
	ClientboundOodle Oodle
	ServerboundOodle Oodle
}

// NewConnectionState returns codec state for a fresh socket with passthrough
// compressors attached.
func NewConnectionState() *ConnectionState {
	return &ConnectionState{
		Phase:            PhaseNone,
		ClientboundOodle: PassthroughOodle{},
		ServerboundOodle: PassthroughOodle{},
	}
}

// SetLobbyKey derives and installs the lobby session key.
func (s *ConnectionState) SetLobbyKey(rawKey []byte, phrase string, version uint16) {
	key := GenerateEncryptionKey(rawKey, phrase, version)
	s.ClientKey = &key
	s.Phase = PhaseLobby
}
