package packet

import (
	"fmt"
	"net"
	"time"
)

// RoundTripCustom dials the world server's private channel, sends one
// CustomIpc segment and waits for the first response segment. Used by the
// lobby for name reservation and character-create coordination.
func RoundTripCustom(addr string, envelope []byte, maxSize uint32) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial world: %w", err)
	}
	defer conn.Close()

	state := NewConnectionState()
	seg := Segment{Data: CustomIpcData{Envelope: envelope}}
	if err := SendPacket(conn, state, ConnectionCustom, CompressionNone, []Segment{seg}); err != nil {
		return nil, fmt.Errorf("send custom ipc: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, segments, err := ReadPacket(conn, state, maxSize)
	if err != nil {
		return nil, fmt.Errorf("read custom ipc reply: %w", err)
	}
	for i := range segments {
		if data, ok := segments[i].Data.(CustomIpcData); ok {
			return data.Envelope, nil
		}
	}
	return nil, fmt.Errorf("no custom ipc segment in reply")
}
