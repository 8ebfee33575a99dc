// mlkem.go wraps ML-KEM-768 (NIST FIPS 203), the post-quantum half of the
// hybrid KEM. Security rests on the Module Learning With Errors problem;
// NIST Category 3, chosen to match Ed25519/X25519's classical security
// margin rather than over-provisioning to Category 5.
package primitives

import (
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// MLKEMPublicKey wraps an ML-KEM-768 encapsulation key.
type MLKEMPublicKey struct {
	key *mlkem768.PublicKey
}

// MLKEMPrivateKey wraps an ML-KEM-768 decapsulation key.
type MLKEMPrivateKey struct {
	key *mlkem768.PrivateKey
}

// MLKEMKeyPair is an ML-KEM-768 key pair.
type MLKEMKeyPair struct {
	EncapsulationKey *MLKEMPublicKey
	DecapsulationKey *MLKEMPrivateKey
}

// GenerateMLKEMKeyPair generates a fresh ML-KEM-768 key pair.
func GenerateMLKEMKeyPair() (*MLKEMKeyPair, error) {
	pk, sk, err := mlkem768.GenerateKeyPair(Reader)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("mlkem-generate", err)
	}
	return &MLKEMKeyPair{
		EncapsulationKey: &MLKEMPublicKey{key: pk},
		DecapsulationKey: &MLKEMPrivateKey{key: sk},
	}, nil
}

// MLKEMEncapsulate encapsulates a fresh shared secret against ek, returning
// the ciphertext to send and the 32-byte shared secret to feed into the
// hybrid combiner.
func MLKEMEncapsulate(ek *MLKEMPublicKey) (ciphertext, sharedSecret []byte, err error) {
	if ek == nil || ek.key == nil {
		return nil, nil, tallowerrors.NewCryptoError("mlkem-encapsulate", tallowerrors.ErrKem)
	}

	ct := make([]byte, mlkem768.CiphertextSize)
	ss := make([]byte, mlkem768.SharedKeySize)
	seed := make([]byte, mlkem768.EncapsulationSeedSize)
	if err := SecureRandom(seed); err != nil {
		return nil, nil, tallowerrors.NewCryptoError("mlkem-encapsulate", err)
	}

	ek.key.EncapsulateTo(ct, ss, seed)
	return ct, ss, nil
}

// MLKEMDecapsulate recovers the shared secret from ciphertext under dk.
// A ciphertext of the wrong length is rejected with ErrInvalidCiphertext.
// A correctly sized but invalid ciphertext does not fail here: CIRCL's
// implicit-rejection behavior returns an unusable random-looking secret
// instead, which downstream AEAD verification will then reject.
func MLKEMDecapsulate(dk *MLKEMPrivateKey, ciphertext []byte) ([]byte, error) {
	if dk == nil || dk.key == nil {
		return nil, tallowerrors.NewCryptoError("mlkem-decapsulate", tallowerrors.ErrKem)
	}
	if len(ciphertext) != constants.MLKEMCiphertextSize {
		return nil, tallowerrors.ErrInvalidCiphertext
	}

	ss := make([]byte, mlkem768.SharedKeySize)
	dk.key.DecapsulateTo(ss, ciphertext)
	return ss, nil
}

// Bytes returns the wire encoding of the public key.
func (pk *MLKEMPublicKey) Bytes() []byte {
	if pk == nil || pk.key == nil {
		return nil
	}
	buf := make([]byte, mlkem768.PublicKeySize)
	pk.key.Pack(buf)
	return buf
}

// PublicKeyBytes returns the wire encoding of the encapsulation key.
func (kp *MLKEMKeyPair) PublicKeyBytes() []byte {
	return kp.EncapsulationKey.Bytes()
}

// ParseMLKEMPublicKey decodes an ML-KEM-768 public key from its wire form.
func ParseMLKEMPublicKey(data []byte) (*MLKEMPublicKey, error) {
	if len(data) != constants.MLKEMPublicKeySize {
		return nil, tallowerrors.NewCryptoError("mlkem-parse-pub", tallowerrors.ErrInvalidKeySize)
	}
	pk := new(mlkem768.PublicKey)
	if err := pk.Unpack(data); err != nil {
		return nil, tallowerrors.NewCryptoError("mlkem-parse-pub", err)
	}
	return &MLKEMPublicKey{key: pk}, nil
}

// Zeroize drops references to the key pair's material; CIRCL does not
// expose the decapsulation key's internal buffers for in-place wiping.
func (kp *MLKEMKeyPair) Zeroize() {
	kp.DecapsulationKey = nil
	kp.EncapsulationKey = nil
}
