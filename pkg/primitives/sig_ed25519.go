// sig_ed25519.go wraps Ed25519, the realtime signature algorithm used for
// per-message and per-prekey signing where speed dominates. It never signs
// alone in a security-critical binding: see sigauth for the hybrid
// Ed25519 ‖ ML-DSA-65 construction that protects against an Ed25519 break.
package primitives

import (
	"crypto/ed25519"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// Ed25519KeyPair is an Ed25519 signing key pair.
type Ed25519KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// GenerateEd25519KeyPair generates a fresh Ed25519 key pair.
func GenerateEd25519KeyPair() (*Ed25519KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(Reader)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("ed25519-generate", err)
	}
	return &Ed25519KeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// Ed25519Sign signs message with priv.
func Ed25519Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Ed25519Verify reports whether sig is a valid Ed25519 signature of
// message under pub.
func Ed25519Verify(pub ed25519.PublicKey, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, message, sig)
}

// ParseEd25519PublicKey validates and wraps a raw Ed25519 public key.
func ParseEd25519PublicKey(data []byte) (ed25519.PublicKey, error) {
	if len(data) != constants.Ed25519PublicKeySize {
		return nil, tallowerrors.NewCryptoError("ed25519-parse-pub", tallowerrors.ErrInvalidKeySize)
	}
	pub := make(ed25519.PublicKey, constants.Ed25519PublicKeySize)
	copy(pub, data)
	return pub, nil
}
