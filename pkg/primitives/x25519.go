// x25519.go wraps X25519 (RFC 7748) Diffie-Hellman, the classical half of
// the hybrid KEM and the per-step DH ratchet key. X25519 alone is not
// quantum-resistant; it contributes defense-in-depth alongside ML-KEM-768
// so the hybrid secret stays safe if either algorithm alone is broken.
package primitives

import (
	"crypto/ecdh"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// X25519KeyPair is a classical Diffie-Hellman key pair.
type X25519KeyPair struct {
	PublicKey  *ecdh.PublicKey
	PrivateKey *ecdh.PrivateKey
}

// GenerateX25519KeyPair generates a fresh X25519 key pair from the CSPRNG.
func GenerateX25519KeyPair() (*X25519KeyPair, error) {
	curve := ecdh.X25519()
	priv, err := curve.GenerateKey(Reader)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("x25519-generate", err)
	}
	return &X25519KeyPair{PublicKey: priv.PublicKey(), PrivateKey: priv}, nil
}

// X25519KeyPairFromBytes reconstructs a key pair from a 32-byte private
// scalar.
func X25519KeyPairFromBytes(privateKeyBytes []byte) (*X25519KeyPair, error) {
	if len(privateKeyBytes) != constants.X25519PrivateKeySize {
		return nil, tallowerrors.ErrInvalidKeySize
	}
	curve := ecdh.X25519()
	priv, err := curve.NewPrivateKey(privateKeyBytes)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("x25519-from-bytes", err)
	}
	return &X25519KeyPair{PublicKey: priv.PublicKey(), PrivateKey: priv}, nil
}

// X25519SharedSecret computes the DH shared secret. The raw output is
// never used directly as a key; every caller routes it through
// HKDFExtractExpand or the hybrid combiner first.
func X25519SharedSecret(privateKey *ecdh.PrivateKey, peerPublic *ecdh.PublicKey) ([]byte, error) {
	if privateKey == nil || peerPublic == nil {
		return nil, tallowerrors.NewCryptoError("x25519-dh", tallowerrors.ErrKem)
	}
	secret, err := privateKey.ECDH(peerPublic)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("x25519-dh", err)
	}
	return secret, nil
}

// ParseX25519PublicKey decodes a 32-byte wire public key.
func ParseX25519PublicKey(data []byte) (*ecdh.PublicKey, error) {
	if len(data) != constants.X25519PublicKeySize {
		return nil, tallowerrors.NewCryptoError("x25519-parse-pub", tallowerrors.ErrInvalidKeySize)
	}
	curve := ecdh.X25519()
	pub, err := curve.NewPublicKey(data)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("x25519-parse-pub", err)
	}
	return pub, nil
}

// PublicKeyBytes returns the wire encoding of the public key.
func (kp *X25519KeyPair) PublicKeyBytes() []byte {
	return kp.PublicKey.Bytes()
}

// PrivateKeyBytes returns the raw private scalar. Callers must zeroize
// the returned slice once they are done with it.
func (kp *X25519KeyPair) PrivateKeyBytes() []byte {
	return kp.PrivateKey.Bytes()
}

// Zeroize drops references to the key pair's key material so the
// underlying bytes become eligible for garbage collection; the ecdh
// types do not expose their internal buffers for in-place wiping.
func (kp *X25519KeyPair) Zeroize() {
	kp.PrivateKey = nil
	kp.PublicKey = nil
}
