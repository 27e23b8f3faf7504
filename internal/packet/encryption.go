package packet

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// GenerateEncryptionKey derives the 16-byte session key from the raw key
// material the client sent during KeyInit and its handshake phrase:
// MD5( 78 56 34 12 || raw_key || u16le(version) || 00 00 || phrase ).
func GenerateEncryptionKey(rawKey []byte, phrase string, version uint16) [16]byte {
	base := make([]byte, 0, 8+len(rawKey)+len(phrase))
	base = append(base, 0x78, 0x56, 0x34, 0x12)
	base = append(base, rawKey...)
	base = binary.LittleEndian.AppendUint16(base, version)
	base = append(base, 0x00, 0x00)
	base = append(base, phrase...)
	return md5.Sum(base)
}

// encryptBody Blowfish-ECB encrypts an IPC segment body in place of a fresh
// buffer, zero padded up to the block boundary.
func encryptBody(key []byte, body []byte) ([]byte, error) {
	cipher, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init blowfish: %w", err)
	}
	padded := make([]byte, roundUpBlock(len(body)))
	copy(padded, body)
	for i := 0; i < len(padded); i += blowfish.BlockSize {
		cipher.Encrypt(padded[i:i+blowfish.BlockSize], padded[i:i+blowfish.BlockSize])
	}
	return padded, nil
}

// decryptBody reverses encryptBody. The input length must already be block
// aligned — the client always sends whole blocks.
func decryptBody(key []byte, body []byte) ([]byte, error) {
	if len(body)%blowfish.BlockSize != 0 {
		return nil, fmt.Errorf("encrypted body length %d not block aligned", len(body))
	}
	cipher, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init blowfish: %w", err)
	}
	out := make([]byte, len(body))
	for i := 0; i < len(body); i += blowfish.BlockSize {
		cipher.Decrypt(out[i:i+blowfish.BlockSize], body[i:i+blowfish.BlockSize])
	}
	return out, nil
}

func roundUpBlock(n int) int {
	return (n + blowfish.BlockSize - 1) / blowfish.BlockSize * blowfish.BlockSize
}
