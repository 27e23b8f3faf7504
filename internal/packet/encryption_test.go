package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEncryptionKey(t *testing.T) {
	// Reference vector for a zero key, phrase "foobar" and game version 7201.
	key := GenerateEncryptionKey([]byte{0x00, 0x00, 0x00, 0x00}, "foobar", 7201)
	assert.Equal(t, [16]byte{
		0xE3, 0x95, 0xC1, 0x4C, 0x8A, 0x46, 0x61, 0x17,
		0x10, 0x2F, 0x7F, 0x99, 0x61, 0x6D, 0x1D, 0x57,
	}, key)
}

func TestGenerateEncryptionKeyDependsOnInputs(t *testing.T) {
	base := GenerateEncryptionKey([]byte{0, 0, 0, 0}, "foobar", 7000)
	assert.NotEqual(t, base, GenerateEncryptionKey([]byte{1, 0, 0, 0}, "foobar", 7000))
	assert.NotEqual(t, base, GenerateEncryptionKey([]byte{0, 0, 0, 0}, "foobaz", 7000))
	assert.NotEqual(t, base, GenerateEncryptionKey([]byte{0, 0, 0, 0}, "foobar", 7001))
}

func TestBlowfishBodyRoundTrip(t *testing.T) {
	key := GenerateEncryptionKey([]byte{0, 0, 0, 0}, "foobar", 7000)

	body := []byte("hello segment body") // 18 bytes, not block aligned
	encrypted, err := encryptBody(key[:], body)
	require.NoError(t, err)
	require.Equal(t, 24, len(encrypted), "padded to the blowfish block boundary")
	assert.NotEqual(t, body, encrypted[:len(body)])

	decrypted, err := decryptBody(key[:], encrypted)
	require.NoError(t, err)
	assert.Equal(t, body, decrypted[:len(body)])
	// zero padding survives the round trip
	for _, b := range decrypted[len(body):] {
		assert.Zero(t, b)
	}
}

func TestDecryptRejectsUnalignedBody(t *testing.T) {
	key := GenerateEncryptionKey([]byte{0, 0, 0, 0}, "foobar", 7000)
	_, err := decryptBody(key[:], make([]byte, 13))
	require.Error(t, err)
}
