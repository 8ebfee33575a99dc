// aead.go wraps AES-256-GCM, the sole AEAD suite used across the ratchet,
// file encryption, and vault layers.
//
// Nonce uniqueness is the caller's responsibility: the ratchet derives a
// fresh message key per message so any fixed nonce is safe, and file
// encryption uses a deterministic per-chunk nonce under a key that is
// never reused across files. Callers MUST NOT reuse a (key, nonce) pair.
package primitives

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// AEAD wraps an AES-256-GCM cipher.AEAD instance bound to a single key.
type AEAD struct {
	gcm cipher.AEAD
}

// NewAEAD constructs an AEAD over a 32-byte key.
func NewAEAD(key []byte) (*AEAD, error) {
	if len(key) != constants.AESKeySize {
		return nil, tallowerrors.ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("aead-new-cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("aead-new-gcm", err)
	}
	return &AEAD{gcm: gcm}, nil
}

// Seal encrypts plaintext under nonce, authenticating aad, and returns
// ciphertext with the 16-byte GCM tag appended. nonce must be exactly
// AESNonceSize bytes and unique for this key.
func (a *AEAD) Seal(nonce, aad, plaintext []byte) ([]byte, error) {
	if len(nonce) != constants.AESNonceSize {
		return nil, tallowerrors.ErrInvalidKeySize
	}
	return a.gcm.Seal(nil, nonce, plaintext, aad), nil
}

// Open verifies and decrypts ciphertext (which carries the trailing GCM
// tag) under nonce and aad. Returns Aead on tag mismatch.
func (a *AEAD) Open(nonce, aad, ciphertext []byte) ([]byte, error) {
	if len(nonce) != constants.AESNonceSize {
		return nil, tallowerrors.ErrInvalidKeySize
	}
	if len(ciphertext) < constants.AESTagSize {
		return nil, tallowerrors.ErrInvalidCiphertext
	}
	plaintext, err := a.gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, tallowerrors.ErrAead
	}
	return plaintext, nil
}

// Seal is a package-level convenience that builds a one-shot AEAD and
// seals a single message, used by call sites that derive a fresh key per
// operation and don't want to keep the AEAD instance around.
func Seal(key, nonce, aad, plaintext []byte) ([]byte, error) {
	a, err := NewAEAD(key)
	if err != nil {
		return nil, err
	}
	return a.Seal(nonce, aad, plaintext)
}

// Open is the package-level counterpart to Seal.
func Open(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	a, err := NewAEAD(key)
	if err != nil {
		return nil, err
	}
	return a.Open(nonce, aad, ciphertext)
}

// Overhead returns the number of bytes GCM appends to plaintext (the tag).
func (a *AEAD) Overhead() int {
	return a.gcm.Overhead()
}

// NonceFromChunkIndex builds the deterministic 12-byte chunk nonce: the
// high 8 bytes zero, the low 4 bytes the big-endian chunk index.
func NonceFromChunkIndex(index uint32) []byte {
	nonce := make([]byte, constants.AESNonceSize)
	nonce[8] = byte(index >> 24)
	nonce[9] = byte(index >> 16)
	nonce[10] = byte(index >> 8)
	nonce[11] = byte(index)
	return nonce
}
