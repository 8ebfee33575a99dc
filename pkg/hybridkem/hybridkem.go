// Package hybridkem combines ML-KEM-768 and X25519 into a single key
// agreement step whose shared secret stays safe as long as either
// algorithm's hardness assumption holds.
package hybridkem

import (
	"crypto/ecdh"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// PublicKey is a hybrid encapsulation key: an ML-KEM-768 public key paired
// with an X25519 public key.
type PublicKey struct {
	MLKEM  *primitives.MLKEMPublicKey
	X25519 *ecdh.PublicKey
}

// KeyPair is a hybrid key pair generated fresh for each ratchet step.
type KeyPair struct {
	MLKEM  *primitives.MLKEMKeyPair
	X25519 *primitives.X25519KeyPair
}

// Ciphertext is the combined wire payload of a hybrid encapsulation: the
// ML-KEM-768 ciphertext followed by the sender's ephemeral X25519 public
// key.
type Ciphertext struct {
	MLKEMCiphertext []byte
	X25519Ephemeral *ecdh.PublicKey
}

// Generate creates a fresh hybrid key pair.
func Generate() (*KeyPair, error) {
	mlkemKP, err := primitives.GenerateMLKEMKeyPair()
	if err != nil {
		return nil, err
	}
	x25519KP, err := primitives.GenerateX25519KeyPair()
	if err != nil {
		return nil, err
	}
	return &KeyPair{MLKEM: mlkemKP, X25519: x25519KP}, nil
}

// PublicKey returns the public half of kp.
func (kp *KeyPair) PublicKey() *PublicKey {
	return &PublicKey{MLKEM: kp.MLKEM.EncapsulationKey, X25519: kp.X25519.PublicKey}
}

// Bytes encodes pk as the ML-KEM-768 public key bytes followed by the
// X25519 public key bytes.
func (pk *PublicKey) Bytes() []byte {
	out := make([]byte, 0, constants.HybridPublicKeySize)
	out = append(out, pk.MLKEM.Bytes()...)
	out = append(out, pk.X25519.Bytes()...)
	return out
}

// ParsePublicKey decodes a hybrid public key from its wire form.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	if len(data) != constants.HybridPublicKeySize {
		return nil, tallowerrors.NewCryptoError("hybridkem-parse-pub", tallowerrors.ErrInvalidKeySize)
	}
	mlkemPub, err := primitives.ParseMLKEMPublicKey(data[:constants.MLKEMPublicKeySize])
	if err != nil {
		return nil, err
	}
	x25519Pub, err := primitives.ParseX25519PublicKey(data[constants.MLKEMPublicKeySize:])
	if err != nil {
		return nil, err
	}
	return &PublicKey{MLKEM: mlkemPub, X25519: x25519Pub}, nil
}

// Bytes encodes ct as the ML-KEM-768 ciphertext followed by the sender's
// ephemeral X25519 public key.
func (ct *Ciphertext) Bytes() []byte {
	out := make([]byte, 0, constants.HybridCiphertextSize)
	out = append(out, ct.MLKEMCiphertext...)
	out = append(out, ct.X25519Ephemeral.Bytes()...)
	return out
}

// ParseCiphertext decodes a hybrid ciphertext from its wire form.
func ParseCiphertext(data []byte) (*Ciphertext, error) {
	if len(data) != constants.HybridCiphertextSize {
		return nil, tallowerrors.NewCryptoError("hybridkem-parse-ct", tallowerrors.ErrInvalidCiphertext)
	}
	mlkemCT := make([]byte, constants.MLKEMCiphertextSize)
	copy(mlkemCT, data[:constants.MLKEMCiphertextSize])
	x25519Pub, err := primitives.ParseX25519PublicKey(data[constants.MLKEMCiphertextSize:])
	if err != nil {
		return nil, err
	}
	return &Ciphertext{MLKEMCiphertext: mlkemCT, X25519Ephemeral: x25519Pub}, nil
}

// Encapsulate performs the hybrid encapsulation step against peerPub,
// generating a fresh X25519 ephemeral key pair internally. It returns the
// combined ciphertext to send and the 32-byte combined shared secret.
func Encapsulate(peerPub *PublicKey) (*Ciphertext, []byte, error) {
	mlkemCT, ssPQ, err := primitives.MLKEMEncapsulate(peerPub.MLKEM)
	if err != nil {
		return nil, nil, err
	}
	defer primitives.Zeroize(ssPQ)

	ephemeral, err := primitives.GenerateX25519KeyPair()
	if err != nil {
		return nil, nil, err
	}
	defer ephemeral.Zeroize()

	ssDH, err := primitives.X25519SharedSecret(ephemeral.PrivateKey, peerPub.X25519)
	if err != nil {
		return nil, nil, err
	}
	defer primitives.Zeroize(ssDH)

	combined, err := combine(ssPQ, ssDH)
	if err != nil {
		return nil, nil, err
	}

	ct := &Ciphertext{MLKEMCiphertext: mlkemCT, X25519Ephemeral: ephemeral.PublicKey}
	return ct, combined, nil
}

// Decapsulate performs the hybrid decapsulation step: it recovers the
// post-quantum shared secret from ct.MLKEMCiphertext under kp.MLKEM and the
// classical shared secret via X25519 DH against ct.X25519Ephemeral, then
// combines both into the same 32-byte secret Encapsulate produced.
func Decapsulate(kp *KeyPair, ct *Ciphertext) ([]byte, error) {
	ssPQ, err := primitives.MLKEMDecapsulate(kp.MLKEM.DecapsulationKey, ct.MLKEMCiphertext)
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(ssPQ)

	ssDH, err := primitives.X25519SharedSecret(kp.X25519.PrivateKey, ct.X25519Ephemeral)
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(ssDH)

	return combine(ssPQ, ssDH)
}

// combine derives the final 32-byte hybrid secret from the post-quantum
// and classical shared secrets via HKDF-SHA256 under a fixed zero salt and
// the protocol's hybrid-combiner domain-separation string.
func combine(ssPQ, ssDH []byte) ([]byte, error) {
	concat := make([]byte, 0, len(ssPQ)+len(ssDH))
	concat = append(concat, ssPQ...)
	concat = append(concat, ssDH...)
	defer primitives.Zeroize(concat)

	salt := make([]byte, constants.SHA256OutputSize)
	return primitives.HKDFExtractExpand(salt, concat, []byte(constants.DomainHybridKEM), constants.HybridSharedSecretSize)
}
