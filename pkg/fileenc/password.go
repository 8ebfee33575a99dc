package fileenc

import (
	"github.com/tallowteam/Tallow-sub001/internal/constants"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// DeriveFileKeyFromPassword derives a file encryption key from a password
// for the transfer's password mode, enforcing the PBKDF2-SHA256
// 600,000-iteration floor. salt should be generated once per password and
// stored alongside the encrypted payload so the recipient can re-derive
// the same key.
func DeriveFileKeyFromPassword(password, salt []byte, iterations int) ([]byte, error) {
	return primitives.DeriveFromPassword(password, salt, iterations, constants.AESKeySize)
}

// NewPasswordSalt generates a fresh salt for password-based file key
// derivation.
func NewPasswordSalt() []byte {
	return primitives.MustSecureRandomBytes(constants.PBKDF2SaltSize)
}
