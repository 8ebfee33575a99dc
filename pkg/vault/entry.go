package vault

// Metadata describes a vault entry without exposing its plaintext payload:
// safe to list, log, or display while the vault is locked to everything
// but its own master key.
type Metadata struct {
	Label string   `json:"label"`
	Type  string   `json:"type"`
	Tags  []string `json:"tags"`
}

// Entry is one vault record as held on disk: the encrypted payload, its
// per-entry IV, descriptive metadata, and lifecycle timestamps in
// milliseconds since epoch (the caller supplies these; the package never
// calls time.Now itself).
type Entry struct {
	ID        string
	Ciphertext []byte
	IV         []byte
	Metadata   Metadata
	CreatedAt  uint64
	UpdatedAt  uint64
}

// ListedEntry is the id+metadata projection returned by List, omitting
// ciphertext.
type ListedEntry struct {
	ID       string
	Metadata Metadata
}
