package sigauth

import (
	"time"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// SignedPreKey is a medium-term hybrid-KEM public key, bound to an
// identity by a signature over its encoding, and rotated on a fixed
// schedule so a single compromised prekey has a bounded window of use.
type SignedPreKey struct {
	MLKEMPublic *primitives.MLKEMPublicKey
	X25519Public []byte
	Signature   []byte
	IssuedAt    time.Time
}

// OneTimePreKey is a single-use hybrid-KEM public key consumed by the
// first message of a new session and then discarded.
type OneTimePreKey struct {
	ID          uint32
	MLKEMPublic *primitives.MLKEMPublicKey
	X25519Public []byte
	Signature   []byte
}

// preKeyEncoding returns the bytes that a prekey's signature is computed
// over: the ML-KEM public key bytes followed by the X25519 public key.
func preKeyEncoding(mlkemPub *primitives.MLKEMPublicKey, x25519Pub []byte) []byte {
	out := make([]byte, 0, constants.MLKEMPublicKeySize+constants.X25519PublicKeySize)
	out = append(out, mlkemPub.Bytes()...)
	out = append(out, x25519Pub...)
	return out
}

// IssueSignedPreKey generates a fresh hybrid-KEM key pair and signs its
// public encoding under identity.
func IssueSignedPreKey(identity *IdentityKey, issuedAt time.Time) (*SignedPreKey, *primitives.MLKEMKeyPair, *primitives.X25519KeyPair, error) {
	mlkemKP, err := primitives.GenerateMLKEMKeyPair()
	if err != nil {
		return nil, nil, nil, err
	}
	x25519KP, err := primitives.GenerateX25519KeyPair()
	if err != nil {
		return nil, nil, nil, err
	}

	encoding := preKeyEncoding(mlkemKP.EncapsulationKey, x25519KP.PublicKeyBytes())
	sig, err := identity.Sign(encoding)
	if err != nil {
		return nil, nil, nil, err
	}

	spk := &SignedPreKey{
		MLKEMPublic:  mlkemKP.EncapsulationKey,
		X25519Public: x25519KP.PublicKeyBytes(),
		Signature:    sig,
		IssuedAt:     issuedAt,
	}
	return spk, mlkemKP, x25519KP, nil
}

// VerifySignedPreKey checks spk's signature under vk and rejects a prekey
// that has outlived its rotation interval as of now. A prekey with no
// signature, or one whose signature fails, must never be consumed.
func VerifySignedPreKey(vk VerifyingKey, spk *SignedPreKey, now time.Time) error {
	if spk == nil || len(spk.Signature) == 0 {
		return tallowerrors.NewProtocolError("prekey-verify", tallowerrors.ErrSignature)
	}
	encoding := preKeyEncoding(spk.MLKEMPublic, spk.X25519Public)
	if !Verify(vk, encoding, spk.Signature) {
		return tallowerrors.NewProtocolError("prekey-verify", tallowerrors.ErrSignature)
	}
	age := now.Sub(spk.IssuedAt)
	if age > constants.SignedPreKeyRotationIntervalSeconds*time.Second {
		return tallowerrors.NewProtocolError("prekey-verify", tallowerrors.ErrProtocol)
	}
	return nil
}

// IssueOneTimePreKey generates a fresh single-use hybrid-KEM key pair
// signed under identity, tagged with id for bundle lookup.
func IssueOneTimePreKey(identity *IdentityKey, id uint32) (*OneTimePreKey, *primitives.MLKEMKeyPair, *primitives.X25519KeyPair, error) {
	mlkemKP, err := primitives.GenerateMLKEMKeyPair()
	if err != nil {
		return nil, nil, nil, err
	}
	x25519KP, err := primitives.GenerateX25519KeyPair()
	if err != nil {
		return nil, nil, nil, err
	}

	encoding := preKeyEncoding(mlkemKP.EncapsulationKey, x25519KP.PublicKeyBytes())
	sig, err := identity.Sign(encoding)
	if err != nil {
		return nil, nil, nil, err
	}

	otk := &OneTimePreKey{
		ID:           id,
		MLKEMPublic:  mlkemKP.EncapsulationKey,
		X25519Public: x25519KP.PublicKeyBytes(),
		Signature:    sig,
	}
	return otk, mlkemKP, x25519KP, nil
}

// VerifyOneTimePreKey checks otk's signature under vk. One-time prekeys
// carry no rotation window; they are consumed and discarded after a
// single use, so only the signature matters.
func VerifyOneTimePreKey(vk VerifyingKey, otk *OneTimePreKey) error {
	if otk == nil || len(otk.Signature) == 0 {
		return tallowerrors.NewProtocolError("one-time-prekey-verify", tallowerrors.ErrSignature)
	}
	encoding := preKeyEncoding(otk.MLKEMPublic, otk.X25519Public)
	if !Verify(vk, encoding, otk.Signature) {
		return tallowerrors.NewProtocolError("one-time-prekey-verify", tallowerrors.ErrSignature)
	}
	return nil
}
