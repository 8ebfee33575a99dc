// Package vault implements a password-unlocked, AES-256-GCM per-entry
// encrypted local store with auto-lock and zeroize-on-lock key handling.
package vault

import (
	"sync"
	"time"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// Vault is a single {id -> Entry} database encrypted under one
// password-derived master key. It is not safe for concurrent use from
// multiple goroutines without relying on its own internal locking, which
// serializes every operation through the handle the way a single-threaded
// database connection would.
type Vault struct {
	mu          sync.Mutex
	storage     Storage
	masterKey   []byte
	salt        []byte
	locked      bool
	lockTimeout time.Duration
	timer       *time.Timer
}

// Open derives the master key from password and either loads the
// persisted KDF salt (reserved entry VaultSaltEntryID) or generates and
// persists a fresh one on first use. lockTimeoutSeconds <= 0 selects
// DefaultVaultLockTimeout. nowMs is the caller-supplied wall-clock
// timestamp used for the salt entry's bookkeeping fields, since this
// package never calls time.Now for anything but the auto-lock timer.
func Open(password []byte, storage Storage, lockTimeoutSeconds int, nowMs uint64) (*Vault, error) {
	if lockTimeoutSeconds <= 0 {
		lockTimeoutSeconds = constants.DefaultVaultLockTimeout
	}

	saltEntry, found, err := storage.Load(constants.VaultSaltEntryID)
	if err != nil {
		return nil, err
	}

	var salt []byte
	if found {
		salt = saltEntry.Ciphertext
	} else {
		salt = primitives.MustSecureRandomBytes(constants.PBKDF2SaltSize)
		if err := storage.Save(&Entry{
			ID:         constants.VaultSaltEntryID,
			Ciphertext: salt,
			IV:         make([]byte, constants.VaultIVSize),
			Metadata:   Metadata{Type: "salt"},
			CreatedAt:  nowMs,
			UpdatedAt:  nowMs,
		}); err != nil {
			return nil, err
		}
	}

	masterKey, err := primitives.DeriveFromPassword(password, salt, constants.PBKDF2MinIterations, constants.AESKeySize)
	if err != nil {
		return nil, err
	}

	v := &Vault{
		storage:     storage,
		masterKey:   masterKey,
		salt:        salt,
		lockTimeout: time.Duration(lockTimeoutSeconds) * time.Second,
	}
	v.resetTimerLocked()
	return v, nil
}

// Store encrypts plaintext under a fresh 12-byte IV, authenticating id as
// AAD, and persists it along with metadata and timestamps.
func (v *Vault) Store(id string, plaintext []byte, metadata Metadata, nowMs uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return tallowerrors.ErrClosed
	}
	if id == constants.VaultSaltEntryID {
		return tallowerrors.NewProtocolError("vault-store", tallowerrors.ErrProtocol)
	}

	iv := primitives.MustSecureRandomBytes(constants.VaultIVSize)
	ciphertext, err := primitives.Seal(v.masterKey, iv, []byte(id), plaintext)
	if err != nil {
		return err
	}

	createdAt := nowMs
	if existing, found, err := v.storage.Load(id); err == nil && found {
		createdAt = existing.CreatedAt
	}

	if err := v.storage.Save(&Entry{
		ID:         id,
		Ciphertext: ciphertext,
		IV:         iv,
		Metadata:   metadata,
		CreatedAt:  createdAt,
		UpdatedAt:  nowMs,
	}); err != nil {
		return err
	}

	v.resetTimerLocked()
	return nil
}

// Retrieve decrypts and returns the plaintext for id. ok is false if no
// entry exists for id; err is Aead on tag mismatch (corruption or wrong
// master key).
func (v *Vault) Retrieve(id string) (plaintext []byte, ok bool, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return nil, false, tallowerrors.ErrClosed
	}
	if id == constants.VaultSaltEntryID {
		return nil, false, nil
	}

	entry, found, err := v.storage.Load(id)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	plaintext, err = primitives.Open(v.masterKey, entry.IV, []byte(id), entry.Ciphertext)
	if err != nil {
		return nil, false, err
	}

	v.resetTimerLocked()
	return plaintext, true, nil
}

// Delete removes the entry for id, if present. Deleting a missing id is
// not an error.
func (v *Vault) Delete(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return tallowerrors.ErrClosed
	}
	if id == constants.VaultSaltEntryID {
		return tallowerrors.NewProtocolError("vault-delete", tallowerrors.ErrProtocol)
	}

	if err := v.storage.Delete(id); err != nil {
		return err
	}
	v.resetTimerLocked()
	return nil
}

// List returns the id and metadata of every entry, excluding the reserved
// salt entry.
func (v *Vault) List() ([]ListedEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return nil, tallowerrors.ErrClosed
	}

	all, err := v.storage.List()
	if err != nil {
		return nil, err
	}

	out := make([]ListedEntry, 0, len(all))
	for _, e := range all {
		if e.ID == constants.VaultSaltEntryID {
			continue
		}
		out = append(out, e)
	}

	v.resetTimerLocked()
	return out, nil
}

// Clear removes every entry, including the reserved salt entry: a
// subsequent Open generates and persists a fresh salt.
func (v *Vault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.locked {
		return tallowerrors.ErrClosed
	}

	if err := v.storage.Clear(); err != nil {
		return err
	}
	v.resetTimerLocked()
	return nil
}

// Lock drops the master key reference, zeroizes it, and stops the
// auto-lock timer. Idempotent: locking an already-locked vault is a no-op.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lockLocked()
}

// Locked reports whether the vault is currently locked.
func (v *Vault) Locked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.locked
}

func (v *Vault) lockLocked() {
	if v.locked {
		return
	}
	primitives.ZeroizeThorough(v.masterKey)
	v.masterKey = nil
	v.locked = true
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// resetTimerLocked must be called with v.mu held. It stops and restarts
// the auto-lock timer; fired on every successful operation, per the
// auto-lock policy.
func (v *Vault) resetTimerLocked() {
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.lockTimeout, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.lockLocked()
	})
}
