// kdf.go implements the two key-derivation paths used across the core:
// HKDF-SHA256 (RFC 5869) for every ratchet, hybrid-KEM, and file-subkey
// role, and BLAKE3 for content hashing, keyed MAC, and transcript hashing
// roles that sit outside the ratchet proper. The two are never
// interchanged for the same role: HKDF owns key derivation, BLAKE3 owns
// integrity and transcript binding. Public-key fingerprints
// (pkg/sigauth) use SHA-256, not BLAKE3.
package primitives

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"
	"lukechampine.com/blake3"

	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

const maxDerivedKeyLen = 1 << 16

// HKDFExtractExpand runs HKDF-SHA256 extract-then-expand: it combines
// salt and ikm into a pseudorandom key, then expands that key into
// outputLen bytes bound to info. Every ratchet root/chain/message key
// derivation and the hybrid-KEM combiner go through this one function.
func HKDFExtractExpand(salt, ikm, info []byte, outputLen int) ([]byte, error) {
	if outputLen <= 0 || outputLen > maxDerivedKeyLen {
		return nil, tallowerrors.NewCryptoError("hkdf-extract-expand", tallowerrors.ErrInvalidKeySize)
	}
	reader := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, outputLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, tallowerrors.NewCryptoError("hkdf-extract-expand", err)
	}
	return out, nil
}

// Hash returns the 32-byte BLAKE3 digest of data.
func Hash(data []byte) []byte {
	sum := blake3.Sum256(data)
	return sum[:]
}

// MAC returns the 32-byte BLAKE3 keyed hash of data under a 32-byte key.
func MAC(key32, data []byte) ([]byte, error) {
	if len(key32) != 32 {
		return nil, tallowerrors.NewCryptoError("blake3-mac", tallowerrors.ErrInvalidKeySize)
	}
	h := blake3.New(32, key32)
	h.Write(data)
	return h.Sum(nil), nil
}

// BlakeDeriveKey derives outputLen bytes from ikm using BLAKE3's
// dedicated key-derivation mode, bound to context. This is the allowed
// substitute for the hybrid-KEM HKDF combiner step noted in the
// protocol's deployment-fixed derivation choice; callers pick exactly
// one of HKDFExtractExpand or BlakeDeriveKey per deployment and never mix
// them for the same role.
func BlakeDeriveKey(context string, ikm []byte, outputLen int) ([]byte, error) {
	if outputLen <= 0 || outputLen > maxDerivedKeyLen {
		return nil, tallowerrors.NewCryptoError("blake3-derive-key", tallowerrors.ErrInvalidKeySize)
	}
	h := blake3.NewDeriveKey(context)
	h.Write(ikm)
	out := make([]byte, outputLen)
	if _, err := io.ReadFull(h.XOF(), out); err != nil {
		return nil, tallowerrors.NewCryptoError("blake3-derive-key", err)
	}
	return out, nil
}

// TranscriptHash binds an ordered list of public components (identity
// keys, prekeys, hybrid ciphertexts) into a single 32-byte digest with
// unambiguous framing, preventing truncation or reordering attacks on
// multi-component inputs.
func TranscriptHash(components ...[]byte) []byte {
	h := blake3.New(32, nil)
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(components)))
	h.Write(lenBuf)
	for _, c := range components {
		binary.BigEndian.PutUint32(lenBuf, uint32(len(c)))
		h.Write(lenBuf)
		h.Write(c)
	}
	return h.Sum(nil)
}
