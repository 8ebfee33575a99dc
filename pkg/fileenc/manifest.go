package fileenc

import (
	"encoding/binary"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
)

// Manifest describes an encrypted file: the per-file salt used to derive
// its subkey, the chunking parameters, and its encrypted filename. It is
// itself unencrypted on disk (its fields carry no secret material) but is
// bound into every chunk's AAD so it cannot be swapped for another file's
// manifest without detection.
type Manifest struct {
	Algorithm     constants.FileEncryptionAlgorithm
	Salt          []byte
	ChunkSize     uint32
	OriginalSize  uint64
	ChunkCount    uint32
	CreatedAtMs   uint64
	EncryptedName []byte
}

// Validate checks internal consistency of the manifest's fields.
func (m *Manifest) Validate() error {
	if !m.Algorithm.IsSupported() {
		return tallowerrors.NewProtocolError("manifest-validate", tallowerrors.ErrProtocol)
	}
	if len(m.Salt) != constants.FileSaltSize {
		return tallowerrors.NewProtocolError("manifest-validate", tallowerrors.ErrInvalidKeySize)
	}
	if m.ChunkSize == 0 {
		return tallowerrors.NewProtocolError("manifest-validate", tallowerrors.ErrProtocol)
	}
	wantChunks := ChunkCount(int64(m.OriginalSize), int(m.ChunkSize))
	if m.ChunkCount != wantChunks {
		return tallowerrors.NewProtocolError("manifest-validate", tallowerrors.ErrProtocol)
	}
	return nil
}

// EncodeManifest serializes m to its wire form.
//
// Layout: magic(4) | version(1) | algorithm(1) | salt(16) |
// chunk_size(4 BE) | original_size(8 BE) | chunk_count(4 BE) |
// created_at_ms(8 BE) | encrypted_name_len(2 BE) | encrypted_name.
func EncodeManifest(m *Manifest) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	size := 4 + 1 + 1 + constants.FileSaltSize + 4 + 8 + 4 + 8 + 2 + len(m.EncryptedName)
	buf := make([]byte, size)
	offset := 0

	copy(buf[offset:], constants.ManifestMagic)
	offset += 4
	buf[offset] = constants.ProtocolVersion
	offset++
	buf[offset] = byte(m.Algorithm)
	offset++
	copy(buf[offset:], m.Salt)
	offset += constants.FileSaltSize
	binary.BigEndian.PutUint32(buf[offset:], m.ChunkSize)
	offset += 4
	binary.BigEndian.PutUint64(buf[offset:], m.OriginalSize)
	offset += 8
	binary.BigEndian.PutUint32(buf[offset:], m.ChunkCount)
	offset += 4
	binary.BigEndian.PutUint64(buf[offset:], m.CreatedAtMs)
	offset += 8
	binary.BigEndian.PutUint16(buf[offset:], uint16(len(m.EncryptedName)))
	offset += 2
	copy(buf[offset:], m.EncryptedName)

	return buf, nil
}

const manifestFixedSize = 4 + 1 + 1 + constants.FileSaltSize + 4 + 8 + 4 + 8 + 2

// DecodeManifest parses a wire-format manifest.
func DecodeManifest(data []byte) (*Manifest, error) {
	if len(data) < manifestFixedSize {
		return nil, tallowerrors.NewProtocolError("manifest-decode", tallowerrors.ErrProtocol)
	}
	if string(data[:4]) != constants.ManifestMagic {
		return nil, tallowerrors.NewProtocolError("manifest-decode", tallowerrors.ErrProtocol)
	}
	if data[4] != constants.ProtocolVersion {
		return nil, tallowerrors.NewProtocolError("manifest-decode", tallowerrors.ErrProtocol)
	}

	m := &Manifest{Algorithm: constants.FileEncryptionAlgorithm(data[5])}
	offset := 6

	m.Salt = make([]byte, constants.FileSaltSize)
	copy(m.Salt, data[offset:offset+constants.FileSaltSize])
	offset += constants.FileSaltSize

	m.ChunkSize = binary.BigEndian.Uint32(data[offset:])
	offset += 4
	m.OriginalSize = binary.BigEndian.Uint64(data[offset:])
	offset += 8
	m.ChunkCount = binary.BigEndian.Uint32(data[offset:])
	offset += 4
	m.CreatedAtMs = binary.BigEndian.Uint64(data[offset:])
	offset += 8

	nameLen := int(binary.BigEndian.Uint16(data[offset:]))
	offset += 2
	if len(data) < offset+nameLen {
		return nil, tallowerrors.NewProtocolError("manifest-decode", tallowerrors.ErrProtocol)
	}
	m.EncryptedName = make([]byte, nameLen)
	copy(m.EncryptedName, data[offset:offset+nameLen])

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// AAD returns the manifest's binding associated data for chunk and
// filename sealing: version, algorithm tag, and per-file salt, all fixed
// before the first chunk is sealed and therefore available at both
// encrypt and decrypt time. SealChunk/OpenChunk fold the per-chunk index
// in on top of this.
func (m *Manifest) AAD() []byte {
	aad := make([]byte, 0, 2+len(m.Salt))
	aad = append(aad, constants.ProtocolVersion, byte(m.Algorithm))
	aad = append(aad, m.Salt...)
	return aad
}
