package lobby

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"github.com/xivgo/server/internal/config"
	"github.com/xivgo/server/internal/ipc"
	"github.com/xivgo/server/internal/packet"
)

func testConfig() *config.Config {
	return &config.Config{
		Lobby: config.LobbyConfig{WorldName: "Orca", WorldID: 63},
		World: config.WorldConfig{ServerID: 1, PublicHost: "127.0.0.1:7100"},
		Game: config.GameConfig{
			Version:           7000,
			ReceiveBufferSize: 64 * 1024,
			HandshakeTimeout:  5 * time.Second,
		},
	}
}

// TestLobbyHandshakeAndLogin drives a client through the key exchange and
// the encrypted LoginEx round trip.
func TestLobbyHandshakeAndLogin(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	conn := NewConnection(serverConn, 1, testConfig(), zap.NewNop())
	go conn.Run()

	clientState := packet.NewConnectionState()

	// 1. Key exchange.
	keyInit := packet.KeyInitData{Phrase: "foobar", Key: [4]byte{0, 0, 0, 0}}
	require.NoError(t, packet.SendPacket(clientConn, clientState, packet.ConnectionLobby,
		packet.CompressionNone, []packet.Segment{{Data: keyInit}}))

	clientConn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, segments, err := packet.ReadPacket(clientConn, clientState, 64*1024)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	_, isKeyResponse := segments[0].Data.(packet.KeyResponseData)
	require.True(t, isKeyResponse)

	// Derive the same session key the server derived.
	clientState.SetLobbyKey(keyInit.Key[:], keyInit.Phrase, 7000)

	// 2. Encrypted LoginEx.
	envelope, err := ipc.EncodeClientLobby(0, &ipc.LoginEx{
		Sequence:  1,
		SessionID: "service-ticket",
	})
	require.NoError(t, err)
	require.NoError(t, packet.SendPacket(clientConn, clientState, packet.ConnectionLobby,
		packet.CompressionNone, []packet.Segment{{Data: packet.IpcData{Envelope: envelope}}}))

	_, segments, err = packet.ReadPacket(clientConn, clientState, 64*1024)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	ipcData, ok := segments[0].Data.(packet.IpcData)
	require.True(t, ok)

	_, payload, err := ipc.DecodeServerLobby(ipcData.Envelope)
	require.NoError(t, err)
	reply, ok := payload.(*ipc.LoginReply)
	require.True(t, ok)
	assert.Equal(t, uint64(1), reply.Sequence)
	assert.Equal(t, uint8(1), reply.NumServiceAccounts)
}

// TestLobbyIpcBeforeKeyExchangeCloses verifies the hard error on a missing
// session key.
func TestLobbyIpcBeforeKeyExchangeCloses(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	conn := NewConnection(serverConn, 1, testConfig(), zap.NewNop())
	done := make(chan struct{})
	go func() {
		conn.Run()
		close(done)
	}()

	envelope, err := ipc.EncodeClientLobby(0, &ipc.LoginEx{Sequence: 1})
	require.NoError(t, err)
	clientState := packet.NewConnectionState()
	require.NoError(t, packet.SendPacket(clientConn, clientState, packet.ConnectionLobby,
		packet.CompressionNone, []packet.Segment{{Data: packet.IpcData{Envelope: envelope}}}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("connection should close on unkeyed lobby ipc")
	}
}
