// Package sigauth provides identity signing keys, hybrid signature
// combination, fingerprinting, and signed prekey issuance for the tallow
// cryptographic core.
package sigauth

import (
	"crypto/sha256"
	"fmt"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
)

// Fingerprint formats a public key as a human-verifiable string: the first
// FingerprintSize bytes of SHA-256(pubkey), rendered as uppercase hex in
// 4-character groups separated by spaces.
func Fingerprint(pubKeyBytes []byte) string {
	sum := sha256.Sum256(pubKeyBytes)
	short := sum[:constants.FingerprintSize]

	hex := fmt.Sprintf("%X", short)
	groups := make([]string, 0, len(hex)/4+1)
	for i := 0; i < len(hex); i += 4 {
		end := i + 4
		if end > len(hex) {
			end = len(hex)
		}
		groups = append(groups, hex[i:end])
	}

	out := groups[0]
	for _, g := range groups[1:] {
		out += " " + g
	}
	return out
}
