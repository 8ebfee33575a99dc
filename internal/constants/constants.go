// Package constants defines the sizes, domain-separation strings, and
// protocol limits used across the tallow cryptographic core.
//
// Security level: hybrid classical + NIST post-quantum (ML-KEM-768,
// ML-DSA-65, SLH-DSA-SHA2-128s) suitable for long-lived peer-to-peer
// file transfer sessions.
package constants

// Protocol version and wire magics.
const (
	// ProtocolVersion is the current wire version of the ratchet message
	// header and file manifest format.
	ProtocolVersion byte = 0x01

	// MessageMagic identifies a ratchet message header on the wire.
	MessageMagic = "TLW1"

	// ManifestMagic identifies an encrypted-file manifest on the wire.
	ManifestMagic = "TFE1"
)

// X25519 Parameters (RFC 7748).
const (
	X25519PublicKeySize  = 32
	X25519PrivateKeySize = 32
	X25519SharedSecretSize = 32
)

// ML-KEM-768 Parameters (NIST FIPS 203).
const (
	MLKEMPublicKeySize    = 1184
	MLKEMPrivateKeySize   = 2400
	MLKEMCiphertextSize   = 1088
	MLKEMSharedSecretSize = 32
)

// Ed25519 Parameters (realtime signature).
const (
	Ed25519PublicKeySize  = 32
	Ed25519PrivateKeySize = 32
	Ed25519SignatureSize  = 64
)

// ML-DSA-65 Parameters (NIST FIPS 204, long-term signature).
const (
	MLDSAPublicKeySize  = 1952
	MLDSAPrivateKeySize = 4032
	MLDSASignatureSize  = 3309
)

// SLH-DSA-SHA2-128s Parameters (NIST FIPS 205, emergency signature).
const (
	SLHDSAPublicKeySize  = 32
	SLHDSAPrivateKeySize = 64
	SLHDSASignatureSize  = 7856
)

// HybridSignatureSize is the fixed size of a hybrid Ed25519 ‖ ML-DSA-65
// signature: a 64-byte Ed25519 prefix followed by the ML-DSA-65 signature.
const HybridSignatureSize = Ed25519SignatureSize + MLDSASignatureSize

// HybridKEM combined sizes.
const (
	// HybridPublicKeySize is ML-KEM-768 pub ‖ X25519 pub.
	HybridPublicKeySize = MLKEMPublicKeySize + X25519PublicKeySize

	// HybridCiphertextSize is ML-KEM-768 ciphertext ‖ X25519 ephemeral pub.
	HybridCiphertextSize = MLKEMCiphertextSize + X25519PublicKeySize

	// HybridSharedSecretSize is the combined secret after HKDF.
	HybridSharedSecretSize = 32
)

// Symmetric encryption parameters (AES-256-GCM, the sole AEAD suite).
const (
	AESKeySize   = 32
	AESNonceSize = 12
	AESTagSize   = 16
)

// Hash / KDF output sizes.
const (
	BLAKE3OutputSize = 32
	SHA256OutputSize = 32
	KDFOutputSize    = 32
)

// Fingerprint is truncated SHA-256(pubkey), formatted as 4-char uppercase
// hex groups.
const FingerprintSize = 16

// PBKDF2-SHA256 parameters.
const (
	// PBKDF2MinIterations is the enforced floor; anything below this is
	// rejected with KdfParams.
	PBKDF2MinIterations = 600000

	PBKDF2SaltSize = 32
	VaultIVSize    = 12
)

// Vault parameters.
const (
	// VaultSaltEntryID is the reserved entry id that persists the vault's
	// KDF salt across opens.
	VaultSaltEntryID = "__vault_salt__"

	// DefaultVaultLockTimeout is how long the vault stays unlocked after
	// its last successful operation before auto-lock fires.
	DefaultVaultLockTimeout = 15 * 60 // seconds
)

// HKDF domain-separation strings. Each ties a derivation to exactly one
// role so that a key leaked or reused in one context cannot be replayed
// into another.
const (
	DomainHybridKEM     = "tallow-hybrid-v1"
	DomainRootKeyInit   = "tallow-root-key-v1"
	DomainSendChain     = "tallow-send-chain-v1"
	DomainReceiveChain  = "tallow-receive-chain-v1"
	DomainMessageKey    = "tallow-message-key-v1"
	DomainChainRatchet  = "tallow-chain-ratchet-v1"
	DomainRootRatchet   = "tallow-root-v1"
	DomainFileSubkey    = "tallow-file-v1"
)

// Ratchet limits.
const (
	// MaxSkip bounds the total skipped-message-key entries held for a
	// session across all peers. Exceeding it fails with TooManySkipped;
	// the oldest entry is evicted first (FIFO) when storing a new one
	// would otherwise exceed the bound.
	MaxSkip = 1000
)

// Chunked file encryption defaults.
const (
	// DefaultChunkSize is 1 MiB, implementation-configurable but fixed
	// per file and recorded in the manifest.
	DefaultChunkSize = 1 << 20

	// FilenameChunkIndex is the reserved chunk index carrying the
	// encrypted filename header instead of file content.
	FilenameChunkIndex uint32 = 0xFFFFFFFF

	// FileSaltSize is the per-file random salt used to derive the
	// per-file subkey from the master key.
	FileSaltSize = 16
)

// AEAD AAD domain-separation tags distinguishing a content chunk from the
// filename header chunk, both sealed under the same per-file subkey.
const (
	AADDomainChunk    byte = 0x01
	AADDomainFilename byte = 0x02
)

// FileEncryptionAlgorithm identifies the AEAD algorithm recorded in a
// manifest. Only one value exists today; the tag leaves room to add
// algorithm agility later without breaking the wire format.
type FileEncryptionAlgorithm byte

const (
	AlgorithmAES256GCM FileEncryptionAlgorithm = 0x01
)

func (a FileEncryptionAlgorithm) String() string {
	switch a {
	case AlgorithmAES256GCM:
		return "AES-256-GCM"
	default:
		return "unknown"
	}
}

func (a FileEncryptionAlgorithm) IsSupported() bool {
	return a == AlgorithmAES256GCM
}

// SignedPreKeyRotationIntervalSeconds is how often a SignedPreKey must be
// rotated; unsigned or expired prekeys MUST be rejected.
const SignedPreKeyRotationIntervalSeconds = 7 * 24 * 60 * 60

// Message header flag bits.
const (
	HeaderFlagNewDHCiphertext byte = 1 << 0
)
