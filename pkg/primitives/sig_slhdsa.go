// sig_slhdsa.go wraps SLH-DSA-SHA2-128s (NIST FIPS 205), the emergency
// signature algorithm. It rests on hash-based security assumptions
// entirely independent of the lattice assumptions behind ML-DSA/ML-KEM,
// so it is reserved for identity re-attestation after a suspected break
// of the lattice-based primitives rather than routine use.
package primitives

import (
	"github.com/cloudflare/circl/sign/slhdsa"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// slhdsaParamID is the SHA2-128s parameter set: SHA2-based, small
// (signature-size-optimized) variant at the 128-bit security level.
const slhdsaParamID = slhdsa.ParamIDSHA2Small128

// SLHDSAKeyPair is an SLH-DSA-SHA2-128s signing key pair.
type SLHDSAKeyPair struct {
	PublicKey  slhdsa.PublicKey
	PrivateKey slhdsa.PrivateKey
}

// GenerateSLHDSAKeyPair generates a fresh SLH-DSA-SHA2-128s key pair.
func GenerateSLHDSAKeyPair() (*SLHDSAKeyPair, error) {
	pub, priv, err := slhdsa.GenerateKey(Reader, slhdsaParamID)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("slhdsa-generate", err)
	}
	return &SLHDSAKeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// SLHDSASign signs message with priv under the empty context string.
func SLHDSASign(priv slhdsa.PrivateKey, message []byte) ([]byte, error) {
	sig, err := priv.Sign(Reader, message, "")
	if err != nil {
		return nil, tallowerrors.NewCryptoError("slhdsa-sign", err)
	}
	return sig, nil
}

// SLHDSAVerify reports whether sig is a valid SLH-DSA-SHA2-128s signature
// of message under pub.
func SLHDSAVerify(pub slhdsa.PublicKey, message, sig []byte) bool {
	if len(sig) != constants.SLHDSASignatureSize {
		return false
	}
	return slhdsa.Verify(pub, message, "", sig)
}

// SLHDSAPublicKeyBytes returns the wire encoding of pub.
func SLHDSAPublicKeyBytes(pub slhdsa.PublicKey) ([]byte, error) {
	b, err := pub.MarshalBinary()
	if err != nil {
		return nil, tallowerrors.NewCryptoError("slhdsa-marshal-pub", err)
	}
	return b, nil
}

// ParseSLHDSAPublicKey decodes an SLH-DSA-SHA2-128s public key.
func ParseSLHDSAPublicKey(data []byte) (slhdsa.PublicKey, error) {
	if len(data) != constants.SLHDSAPublicKeySize {
		return slhdsa.PublicKey{}, tallowerrors.NewCryptoError("slhdsa-parse-pub", tallowerrors.ErrInvalidKeySize)
	}
	var pub slhdsa.PublicKey
	if err := pub.UnmarshalBinary(data); err != nil {
		return slhdsa.PublicKey{}, tallowerrors.NewCryptoError("slhdsa-parse-pub", err)
	}
	return pub, nil
}
