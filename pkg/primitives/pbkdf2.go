// pbkdf2.go derives keys from user passwords for the password-mode file
// encryption path and the local vault's master key.
package primitives

import (
	"golang.org/x/crypto/pbkdf2"
	"crypto/sha256"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// DeriveFromPassword runs PBKDF2-SHA256 over password and salt. iterations
// below the enforced floor are rejected with KdfParams rather than
// silently clamped, since a caller supplying a low count is almost always
// a misconfiguration rather than an intentional choice.
func DeriveFromPassword(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	if iterations < constants.PBKDF2MinIterations {
		return nil, tallowerrors.NewCryptoError("pbkdf2", tallowerrors.ErrKdfParams)
	}
	if keyLen <= 0 {
		return nil, tallowerrors.NewCryptoError("pbkdf2", tallowerrors.ErrInvalidKeySize)
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New), nil
}
