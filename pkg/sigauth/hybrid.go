package sigauth

import (
	"crypto/ed25519"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// HybridKeyPair binds an Ed25519 key (fast, realtime signing) to an
// ML-DSA-65 key (post-quantum, long-term identity binding). Both sign every
// message; both must verify for the hybrid signature to be accepted.
type HybridKeyPair struct {
	Ed25519 *primitives.Ed25519KeyPair
	MLDSA   *primitives.MLDSAKeyPair
}

// GenerateHybridKeyPair generates a fresh Ed25519 + ML-DSA-65 identity pair.
func GenerateHybridKeyPair() (*HybridKeyPair, error) {
	ed, err := primitives.GenerateEd25519KeyPair()
	if err != nil {
		return nil, tallowerrors.NewCryptoError("hybrid-generate", err)
	}
	mldsa, err := primitives.GenerateMLDSAKeyPair()
	if err != nil {
		return nil, tallowerrors.NewCryptoError("hybrid-generate", err)
	}
	return &HybridKeyPair{Ed25519: ed, MLDSA: mldsa}, nil
}

// HybridSign produces a fixed-layout hybrid signature: the 64-byte Ed25519
// signature followed by the ML-DSA-65 signature, each over the same message.
func HybridSign(kp *HybridKeyPair, message []byte) ([]byte, error) {
	if kp == nil || kp.Ed25519 == nil || kp.MLDSA == nil {
		return nil, tallowerrors.NewCryptoError("hybrid-sign", tallowerrors.ErrSignature)
	}

	edSig := primitives.Ed25519Sign(kp.Ed25519.PrivateKey, message)
	mldsaSig, err := primitives.MLDSASign(kp.MLDSA.PrivateKey, message)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("hybrid-sign", err)
	}

	out := make([]byte, 0, constants.HybridSignatureSize)
	out = append(out, edSig...)
	out = append(out, mldsaSig...)
	return out, nil
}

// HybridVerify reports whether sig is a valid hybrid signature of message
// under the given Ed25519 and ML-DSA-65 public keys. Both components are
// evaluated unconditionally, and both must pass: there is no early return
// on the first failing component, so a bad Ed25519 signature gives no
// timing signal distinguishable from a bad ML-DSA-65 signature.
func HybridVerify(edPub ed25519.PublicKey, mldsaPub *mldsa65.PublicKey, message, sig []byte) bool {
	if len(sig) != constants.HybridSignatureSize {
		return false
	}
	edSig := sig[:constants.Ed25519SignatureSize]
	mldsaSig := sig[constants.Ed25519SignatureSize:]

	edOK := primitives.Ed25519Verify(edPub, message, edSig)
	mldsaOK := primitives.MLDSAVerify(mldsaPub, message, mldsaSig)
	return edOK && mldsaOK
}

// PublicKeyBytes returns the concatenated wire encoding of the hybrid
// public key: the 32-byte Ed25519 key followed by the ML-DSA-65 key.
func (kp *HybridKeyPair) PublicKeyBytes() ([]byte, error) {
	mldsaBytes, err := primitives.MLDSAPublicKeyBytes(kp.MLDSA.PublicKey)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, constants.Ed25519PublicKeySize+constants.MLDSAPublicKeySize)
	out = append(out, kp.Ed25519.PublicKey...)
	out = append(out, mldsaBytes...)
	return out, nil
}

// ParseHybridPublicKey splits a concatenated hybrid public key back into
// its Ed25519 and ML-DSA-65 components.
func ParseHybridPublicKey(data []byte) (ed25519.PublicKey, *mldsa65.PublicKey, error) {
	want := constants.Ed25519PublicKeySize + constants.MLDSAPublicKeySize
	if len(data) != want {
		return nil, nil, tallowerrors.NewCryptoError("hybrid-parse-pub", tallowerrors.ErrInvalidKeySize)
	}
	edPub, err := primitives.ParseEd25519PublicKey(data[:constants.Ed25519PublicKeySize])
	if err != nil {
		return nil, nil, err
	}
	mldsaPub, err := primitives.ParseMLDSAPublicKey(data[constants.Ed25519PublicKeySize:])
	if err != nil {
		return nil, nil, err
	}
	return edPub, mldsaPub, nil
}
