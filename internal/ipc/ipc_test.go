package ipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivgo/server/internal/ipc/wire"
)

// zeroEnvelope builds an envelope carrying an all-zero body of the expected
// size for the given opcode.
func zeroEnvelope(opcode uint16, size uint32) []byte {
	w := wire.NewWriter()
	h := Header{Opcode: opcode}
	h.encode(w)
	w.PadTo(int(size))
	return w.Bytes()
}

// Every known opcode must decode its default body and re-encode to exactly
// the expected size, with the payload surviving the round trip.

func TestServerZoneSizeContract(t *testing.T) {
	for op, size := range serverZoneOpcodeSizes {
		_, p, err := DecodeServerZone(zeroEnvelope(uint16(op), size))
		require.NoError(t, err, "%s", op)
		require.NotNil(t, p, "%s", op)
		if _, unknown := p.(*UnknownServerZone); unknown {
			t.Fatalf("%s decoded as unknown", op)
		}

		env, err := EncodeServerZone(1, p)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, int(size), len(env), "%s encoded size", op)

		_, p2, err := DecodeServerZone(env)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, p, p2, "%s round trip", op)
	}
}

func TestClientZoneSizeContract(t *testing.T) {
	for op, size := range clientZoneOpcodeSizes {
		_, p, err := DecodeClientZone(zeroEnvelope(uint16(op), size))
		require.NoError(t, err, "%s", op)
		if _, unknown := p.(*UnknownClientZone); unknown {
			t.Fatalf("%s decoded as unknown", op)
		}

		env, err := EncodeClientZone(1, p)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, int(size), len(env), "%s encoded size", op)

		_, p2, err := DecodeClientZone(env)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, p, p2, "%s round trip", op)
	}
}

func TestLobbySizeContract(t *testing.T) {
	for op, size := range clientLobbyOpcodeSizes {
		_, p, err := DecodeClientLobby(zeroEnvelope(uint16(op), size))
		require.NoError(t, err, "%s", op)
		env, err := EncodeClientLobby(1, p)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, int(size), len(env), "%s encoded size", op)
	}
	for op, size := range serverLobbyOpcodeSizes {
		_, p, err := DecodeServerLobby(zeroEnvelope(uint16(op), size))
		require.NoError(t, err, "%s", op)
		env, err := EncodeServerLobby(1, p)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, int(size), len(env), "%s encoded size", op)
	}
}

func TestChatSizeContract(t *testing.T) {
	for op, size := range clientChatOpcodeSizes {
		_, p, err := DecodeClientChat(zeroEnvelope(uint16(op), size))
		require.NoError(t, err, "%s", op)
		env, err := EncodeClientChat(1, p)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, int(size), len(env), "%s encoded size", op)
	}
	for op, size := range serverChatOpcodeSizes {
		_, p, err := DecodeServerChat(zeroEnvelope(uint16(op), size))
		require.NoError(t, err, "%s", op)
		env, err := EncodeServerChat(1, p)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, int(size), len(env), "%s encoded size", op)
	}
}

func TestCustomSizeContract(t *testing.T) {
	for op, size := range customOpcodeSizes {
		_, p, err := DecodeCustom(zeroEnvelope(uint16(op), size))
		require.NoError(t, err, "%s", op)
		env, err := EncodeCustom(1, p)
		require.NoError(t, err, "%s", op)
		assert.Equal(t, int(size), len(env), "%s encoded size", op)
	}
}

func TestUnknownOpcodeRoundTrips(t *testing.T) {
	w := wire.NewWriter()
	h := Header{Opcode: 0xBEEF}
	h.encode(w)
	w.WriteBytes([]byte{0xDE, 0xAD, 0xC0, 0xDE, 0x99})
	env := w.Bytes()

	_, p, err := DecodeServerZone(env)
	require.NoError(t, err)
	u, ok := p.(*UnknownServerZone)
	require.True(t, ok)
	assert.Equal(t, uint16(0xBEEF), u.Opcode)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xC0, 0xDE, 0x99}, u.Data)

	env2, err := EncodeServerZone(1, u)
	require.NoError(t, err)
	_, p2, err := DecodeServerZone(env2)
	require.NoError(t, err)
	assert.Equal(t, u.Data, p2.(*UnknownServerZone).Data)
}

func TestKnownOpcodeSizeMismatchRejected(t *testing.T) {
	env := zeroEnvelope(uint16(ServerZoneActorControl), 40)
	_, _, err := DecodeServerZone(env[:len(env)-4])
	require.Error(t, err)
}

func TestSceneBracketSelection(t *testing.T) {
	cases := []struct {
		params  int
		bracket int
	}{
		{0, 2}, {1, 2}, {2, 2},
		{3, 4}, {4, 4},
		{5, 8}, {8, 8},
		{9, 16}, {16, 16},
		{17, 32}, {33, 64}, {65, 128}, {129, 255}, {255, 255},
	}
	for _, c := range cases {
		params := make([]uint32, c.params)
		scene, ok := PackageScene(targetID(1), 0x130003, 0, 0, params)
		require.True(t, ok, "%d params", c.params)
		assert.Equal(t, c.bracket, scene.Bracket(), "%d params", c.params)
		assert.GreaterOrEqual(t, scene.Bracket(), len(params))
	}

	_, ok := PackageScene(targetID(1), 1, 0, 0, make([]uint32, 256))
	assert.False(t, ok, "256 params cannot be packaged")
}

func TestResumeBracketSelection(t *testing.T) {
	for params, want := range map[int]int{0: 2, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8} {
		resume, ok := PackageResume(1, 0, 0, make([]uint32, params))
		require.True(t, ok)
		assert.Equal(t, want, resume.Bracket())
	}
	_, ok := PackageResume(1, 0, 0, make([]uint32, 9))
	assert.False(t, ok)
}

func TestScenePayloadRoundTrip(t *testing.T) {
	scene, ok := PackageScene(targetID(277124129), 0x130003, 0, 4959237, []uint32{7, 11, 13})
	require.True(t, ok)
	assert.Equal(t, ServerZoneEventScene4, scene.ServerZoneOpcode())

	env, err := EncodeServerZone(1, scene)
	require.NoError(t, err)
	sz, _ := ServerZoneEventScene4.Size()
	assert.Equal(t, int(sz), len(env))

	_, p, err := DecodeServerZone(env)
	require.NoError(t, err)
	got := p.(*EventScene)
	assert.Equal(t, uint32(0x130003), got.EventID)
	assert.Equal(t, uint32(4959237), got.SceneFlags)
	assert.Equal(t, uint8(3), got.ParamCount)
	assert.Equal(t, []uint32{7, 11, 13, 0}, got.Params)
}
