package sigauth

import (
	"crypto/ed25519"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/slhdsa"

	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// IdentityKind discriminates the signature scheme carried by an
// IdentityKey. A new peer always presents Hybrid; Emergency is only ever
// produced by re-attestation after a suspected lattice break.
type IdentityKind byte

const (
	IdentityHybrid IdentityKind = iota
	IdentityEmergency
)

// IdentityKey is a tagged union over the identity's signing material: the
// routine Ed25519‖ML-DSA-65 hybrid, or the SLH-DSA-SHA2-128s emergency key
// used solely to re-attest a new hybrid identity after a break. Dispatch on
// Kind is a single switch, not a virtual method hierarchy, since exactly
// two variants exist and they never grow new sign/verify behavior of their
// own — they just select which underlying primitive authenticates.
type IdentityKey struct {
	Kind   IdentityKind
	Hybrid *HybridKeyPair
	SLHDSA *primitives.SLHDSAKeyPair
}

// NewHybridIdentity wraps a freshly generated hybrid key pair as an
// IdentityKey.
func NewHybridIdentity() (*IdentityKey, error) {
	kp, err := GenerateHybridKeyPair()
	if err != nil {
		return nil, err
	}
	return &IdentityKey{Kind: IdentityHybrid, Hybrid: kp}, nil
}

// NewEmergencyIdentity wraps a freshly generated SLH-DSA key pair as an
// IdentityKey, for use only in re-attestation after a suspected break of
// the lattice-based primitives.
func NewEmergencyIdentity() (*IdentityKey, error) {
	kp, err := primitives.GenerateSLHDSAKeyPair()
	if err != nil {
		return nil, err
	}
	return &IdentityKey{Kind: IdentityEmergency, SLHDSA: kp}, nil
}

// Sign signs message under the identity's active scheme.
func (k *IdentityKey) Sign(message []byte) ([]byte, error) {
	switch k.Kind {
	case IdentityHybrid:
		return HybridSign(k.Hybrid, message)
	case IdentityEmergency:
		return primitives.SLHDSASign(k.SLHDSA.PrivateKey, message)
	default:
		return nil, tallowerrors.NewCryptoError("identity-sign", tallowerrors.ErrSignature)
	}
}

// VerifyingKey is the public half of an IdentityKey, carried on the wire
// and exchanged between peers.
type VerifyingKey struct {
	Kind    IdentityKind
	Ed25519 ed25519.PublicKey
	MLDSA   *mldsa65.PublicKey
	SLHDSA  slhdsa.PublicKey
}

// Verifying returns the public half of k for transmission to a peer.
func (k *IdentityKey) Verifying() VerifyingKey {
	switch k.Kind {
	case IdentityHybrid:
		return VerifyingKey{Kind: IdentityHybrid, Ed25519: k.Hybrid.Ed25519.PublicKey, MLDSA: k.Hybrid.MLDSA.PublicKey}
	case IdentityEmergency:
		return VerifyingKey{Kind: IdentityEmergency, SLHDSA: k.SLHDSA.PublicKey}
	default:
		return VerifyingKey{}
	}
}

// Verify reports whether sig is a valid signature of message under vk,
// dispatching on vk.Kind.
func Verify(vk VerifyingKey, message, sig []byte) bool {
	switch vk.Kind {
	case IdentityHybrid:
		return HybridVerify(vk.Ed25519, vk.MLDSA, message, sig)
	case IdentityEmergency:
		return primitives.SLHDSAVerify(vk.SLHDSA, message, sig)
	default:
		return false
	}
}
