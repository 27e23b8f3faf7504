package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBufferSize = 64 * 1024

func testEnvelope(body []byte) []byte {
	// 16-byte IPC header (contents opaque to this package) plus body.
	env := make([]byte, IpcHeaderSize, IpcHeaderSize+len(body))
	env[2] = 0x42 // opcode low byte, keeps the header non-trivial
	return append(env, body...)
}

func TestPacketRoundTripUncompressed(t *testing.T) {
	var buf bytes.Buffer
	out := NewConnectionState()
	out.Phase = PhaseZone

	segments := []Segment{
		{Source: 0x1001, Target: 0x2002, Data: IpcData{Envelope: testEnvelope([]byte{1, 2, 3, 4})}},
		{Data: KeepAliveData{ID: 7, Timestamp: 1234}},
	}
	require.NoError(t, SendPacket(&buf, out, ConnectionZone, CompressionNone, segments))

	in := NewConnectionState()
	in.Phase = PhaseZone
	header, decoded, err := ReadPacket(&buf, in, testBufferSize)
	require.NoError(t, err)

	assert.Equal(t, ConnectionZone, header.ConnectionType)
	assert.Equal(t, uint16(2), header.SegmentCount)
	assert.Equal(t, uint32(0), header.UncompressedSize)
	require.Len(t, decoded, 2)

	assert.Equal(t, uint32(0x1001), decoded[0].Source)
	assert.Equal(t, uint32(0x2002), decoded[0].Target)
	ipcData, ok := decoded[0].Data.(IpcData)
	require.True(t, ok)
	assert.Equal(t, testEnvelope([]byte{1, 2, 3, 4}), ipcData.Envelope)

	ka, ok := decoded[1].Data.(KeepAliveData)
	require.True(t, ok)
	assert.False(t, ka.Response)
	assert.Equal(t, uint32(7), ka.ID)
	assert.Equal(t, uint32(1234), ka.Timestamp)
}

func TestPacketRoundTripOodle(t *testing.T) {
	var buf bytes.Buffer
	out := NewConnectionState()
	out.Phase = PhaseZone

	env := testEnvelope(bytes.Repeat([]byte{0xAA}, 100))
	require.NoError(t, SendPacket(&buf, out, ConnectionZone, CompressionOodle,
		[]Segment{{Data: IpcData{Envelope: env}}}))

	in := NewConnectionState()
	in.Phase = PhaseZone
	header, decoded, err := ReadPacket(&buf, in, testBufferSize)
	require.NoError(t, err)
	assert.Equal(t, CompressionOodle, header.CompressionType)
	assert.NotZero(t, header.UncompressedSize)
	require.Len(t, decoded, 1)
	assert.Equal(t, env, decoded[0].Data.(IpcData).Envelope)
}

func TestLobbyPhaseEncryptsIpcBodies(t *testing.T) {
	key := GenerateEncryptionKey([]byte{0, 0, 0, 0}, "foobar", 7000)

	out := NewConnectionState()
	out.Phase = PhaseLobby
	out.ClientKey = &key

	env := testEnvelope([]byte("characters follow"))
	var buf bytes.Buffer
	require.NoError(t, SendPacket(&buf, out, ConnectionLobby, CompressionNone,
		[]Segment{{Data: IpcData{Envelope: env}}}))

	// The plaintext body must not appear on the wire.
	assert.NotContains(t, string(buf.Bytes()), "characters follow")

	in := NewConnectionState()
	in.Phase = PhaseLobby
	in.ClientKey = &key
	_, decoded, err := ReadPacket(&buf, in, testBufferSize)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	got := decoded[0].Data.(IpcData).Envelope
	// Decrypted envelope is the original, plus block padding zeroes.
	assert.Equal(t, env, got[:len(env)])
}

func TestLobbyIpcWithoutKeyFails(t *testing.T) {
	var buf bytes.Buffer
	out := NewConnectionState()
	out.Phase = PhaseZone // sender unkeyed on purpose
	require.NoError(t, SendPacket(&buf, out, ConnectionLobby, CompressionNone,
		[]Segment{{Data: IpcData{Envelope: testEnvelope(nil)}}}))

	in := NewConnectionState()
	in.Phase = PhaseLobby // receiver expects a key
	_, _, err := ReadPacket(&buf, in, testBufferSize)
	require.Error(t, err)
}

func TestKeyExchangeSegmentsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	out := NewConnectionState()

	keyInit := KeyInitData{Phrase: "foobar", Key: [4]byte{9, 8, 7, 6}}
	require.NoError(t, SendPacket(&buf, out, ConnectionLobby, CompressionNone,
		[]Segment{{Data: keyInit}, {Data: KeyResponseData{Data: 0xBEEF}}}))

	in := NewConnectionState()
	_, decoded, err := ReadPacket(&buf, in, testBufferSize)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	gotInit, ok := decoded[0].Data.(KeyInitData)
	require.True(t, ok)
	assert.Equal(t, keyInit, gotInit)

	gotResp, ok := decoded[1].Data.(KeyResponseData)
	require.True(t, ok)
	assert.Equal(t, uint64(0xBEEF), gotResp.Data)
}

func TestFrameTooLargeRejected(t *testing.T) {
	var buf bytes.Buffer
	out := NewConnectionState()
	env := testEnvelope(make([]byte, 512))
	require.NoError(t, SendPacket(&buf, out, ConnectionZone, CompressionNone,
		[]Segment{{Data: IpcData{Envelope: env}}}))

	in := NewConnectionState()
	_, _, err := ReadPacket(&buf, in, 256)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame too large")
}

func TestTruncatedPayloadFailsPacket(t *testing.T) {
	var buf bytes.Buffer
	out := NewConnectionState()
	require.NoError(t, SendPacket(&buf, out, ConnectionZone, CompressionNone,
		[]Segment{{Data: KeepAliveData{ID: 1, Timestamp: 2}}}))

	// Chop the tail off the frame.
	raw := buf.Bytes()
	short := bytes.NewReader(raw[:len(raw)-3])

	in := NewConnectionState()
	_, _, err := ReadPacket(short, in, testBufferSize)
	require.Error(t, err)
}

func TestSetupAndInitializeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	out := NewConnectionState()
	require.NoError(t, SendPacket(&buf, out, ConnectionZone, CompressionNone, []Segment{
		{Data: SetupData{Ticket: "service-ticket-0001"}},
		{Data: InitializeData{ActorID: 0x10203040, Timestamp: 99}},
	}))

	in := NewConnectionState()
	_, decoded, err := ReadPacket(&buf, in, testBufferSize)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, SetupData{Ticket: "service-ticket-0001"}, decoded[0].Data)
	assert.Equal(t, InitializeData{ActorID: 0x10203040, Timestamp: 99}, decoded[1].Data)
}
