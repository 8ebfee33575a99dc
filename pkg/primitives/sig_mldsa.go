// sig_mldsa.go wraps ML-DSA-65 (NIST FIPS 204), the long-term post-quantum
// signature algorithm. It forms the second component of every hybrid
// signature; identity and signed-prekey bindings never rely on it alone.
package primitives

import (
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// MLDSAKeyPair is an ML-DSA-65 signing key pair.
type MLDSAKeyPair struct {
	PublicKey  *mldsa65.PublicKey
	PrivateKey *mldsa65.PrivateKey
}

// GenerateMLDSAKeyPair generates a fresh ML-DSA-65 key pair.
func GenerateMLDSAKeyPair() (*MLDSAKeyPair, error) {
	pub, priv, err := mldsa65.GenerateKey(Reader)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("mldsa-generate", err)
	}
	return &MLDSAKeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// MLDSASign signs message with priv.
func MLDSASign(priv *mldsa65.PrivateKey, message []byte) ([]byte, error) {
	sig, err := priv.Sign(Reader, message, nil)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("mldsa-sign", err)
	}
	return sig, nil
}

// MLDSAVerify reports whether sig is a valid ML-DSA-65 signature of
// message under pub.
func MLDSAVerify(pub *mldsa65.PublicKey, message, sig []byte) bool {
	if pub == nil || len(sig) != constants.MLDSASignatureSize {
		return false
	}
	return mldsa65.Verify(pub, message, sig)
}

// MLDSAPublicKeyBytes returns the wire encoding of pub.
func MLDSAPublicKeyBytes(pub *mldsa65.PublicKey) ([]byte, error) {
	b, err := pub.MarshalBinary()
	if err != nil {
		return nil, tallowerrors.NewCryptoError("mldsa-marshal-pub", err)
	}
	return b, nil
}

// ParseMLDSAPublicKey decodes an ML-DSA-65 public key from its wire form.
func ParseMLDSAPublicKey(data []byte) (*mldsa65.PublicKey, error) {
	if len(data) != constants.MLDSAPublicKeySize {
		return nil, tallowerrors.NewCryptoError("mldsa-parse-pub", tallowerrors.ErrInvalidKeySize)
	}
	pub := new(mldsa65.PublicKey)
	if err := pub.UnmarshalBinary(data); err != nil {
		return nil, tallowerrors.NewCryptoError("mldsa-parse-pub", err)
	}
	return pub, nil
}
