// Package primitives provides thin, uniform wrappers over the
// cryptographic building blocks the ratchet, file encryption, and vault
// layers are built from: secure random, constant-time comparison,
// AEAD, HKDF/BLAKE3 key derivation, PBKDF2, X25519, ML-KEM-768, and the
// three signature algorithms.
//
// Security note: a CSPRNG failure is treated as a fatal condition by
// MustSecureRandom. Other functions report invalid input sizes and
// authentication failures as errors.
package primitives

import (
	"crypto/rand"
	"io"

	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// Reader is the CSPRNG all randomness in the core draws from.
var Reader = rand.Reader

// SecureRandom fills b with cryptographically secure random bytes.
func SecureRandom(b []byte) error {
	if _, err := io.ReadFull(Reader, b); err != nil {
		return tallowerrors.NewCryptoError("random", err)
	}
	return nil
}

// SecureRandomBytes returns n freshly generated random bytes.
func SecureRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := SecureRandom(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MustSecureRandom fills b with random bytes, panicking on CSPRNG failure.
// CSPRNG failure is not a condition any caller can recover from.
func MustSecureRandom(b []byte) {
	if err := SecureRandom(b); err != nil {
		panic("primitives: CSPRNG failure: " + err.Error())
	}
}

// MustSecureRandomBytes returns n random bytes, panicking on CSPRNG failure.
func MustSecureRandomBytes(n int) []byte {
	b := make([]byte, n)
	MustSecureRandom(b)
	return b
}

// Zeroize overwrites b with zeros in place. Callers pass every key,
// shared secret, and chain/message key through this once it has been
// consumed.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroizeMultiple zeroizes each slice in order.
func ZeroizeMultiple(slices ...[]byte) {
	for _, s := range slices {
		Zeroize(s)
	}
}

// ZeroizeThorough performs the three-pass wipe (random, 0xFF, 0x00) used
// for long-lived identity and vault master key material, where the extra
// passes defend against a compiler or cache line retaining the simple
// all-zero pattern.
func ZeroizeThorough(b []byte) {
	if len(b) == 0 {
		return
	}
	_, _ = io.ReadFull(Reader, b)
	for i := range b {
		b[i] = 0xFF
	}
	for i := range b {
		b[i] = 0x00
	}
}
