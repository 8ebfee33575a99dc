// Package errors defines the error taxonomy for the tallow cryptographic
// core. Sentinel errors classify failures without leaking sensitive detail
// in their messages; wrapped context errors (CryptoError, ProtocolError)
// attach the failing operation for debugging.
package errors

import (
	"errors"
	"fmt"
)

// Taxonomy from spec.md §7. Every operation in the core returns one of
// these (wrapped with context) or nil.
var (
	// ErrKem indicates malformed KEM input or a decapsulation failure.
	ErrKem = errors.New("tallow: kem error")

	// ErrAead indicates an AEAD authentication tag mismatch. Always fatal
	// for the message or chunk it was raised on.
	ErrAead = errors.New("tallow: aead authentication failed")

	// ErrSignature indicates signature verification failed, including any
	// single component of a hybrid signature.
	ErrSignature = errors.New("tallow: signature verification failed")

	// ErrProtocol indicates an unexpected state: sending before a peer key
	// is known, a malformed header, or an unsigned/expired prekey.
	ErrProtocol = errors.New("tallow: protocol error")

	// ErrReplay indicates a receive was attempted on a past message number
	// with no corresponding skipped-key entry.
	ErrReplay = errors.New("tallow: replay detected")

	// ErrTooManySkipped indicates servicing a receive would exceed MAX_SKIP.
	ErrTooManySkipped = errors.New("tallow: too many skipped messages")

	// ErrClosed indicates the session or vault is in a terminal state.
	ErrClosed = errors.New("tallow: closed")

	// ErrStorage indicates the underlying vault storage backend failed.
	ErrStorage = errors.New("tallow: storage error")

	// ErrKdfParams indicates a KDF parameter was rejected: a PBKDF2
	// iteration count below the enforced floor, or an unsupported
	// algorithm tag.
	ErrKdfParams = errors.New("tallow: invalid kdf parameters")

	// ErrInvalidKeySize indicates a key, nonce, or secret had the wrong size.
	ErrInvalidKeySize = errors.New("tallow: invalid key size")

	// ErrInvalidCiphertext indicates ciphertext framing was malformed.
	ErrInvalidCiphertext = errors.New("tallow: invalid ciphertext")
)

// CryptoError wraps a low-level cryptographic failure with the operation
// name that produced it, without including key material or plaintext.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *CryptoError) Unwrap() error { return e.Err }

// NewCryptoError creates a new CryptoError.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// ProtocolError wraps a protocol-phase failure (ratchet init, send,
// receive, prekey verification) with the phase name.
type ProtocolError struct {
	Phase string
	Err   error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("protocol %s: %v", e.Phase, e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// NewProtocolError creates a new ProtocolError.
func NewProtocolError(phase string, err error) *ProtocolError {
	return &ProtocolError{Phase: phase, Err: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }
