// Package fileenc implements chunked AEAD file encryption keyed off a
// per-file subkey, with a manifest describing how to reassemble and
// authenticate the original file.
package fileenc

import (
	"encoding/binary"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// chunkAAD builds the full per-chunk associated data: a domain-separation
// byte (data chunk vs. filename header), the manifest's fixed AAD
// (version, algorithm, salt), and the big-endian chunk index, binding
// every sealed chunk to both its file and its position so chunks cannot
// be reordered or moved between files undetected.
func chunkAAD(domain byte, manifestAAD []byte, index uint32) []byte {
	aad := make([]byte, 0, 1+len(manifestAAD)+4)
	aad = append(aad, domain)
	aad = append(aad, manifestAAD...)
	aad = binary.BigEndian.AppendUint32(aad, index)
	return aad
}

// SealChunk encrypts one chunk of file data under key, using a
// deterministic nonce derived from index so chunks can be encrypted and
// authenticated independently and out of order. manifestAAD is the
// owning file's Manifest.AAD(); the chunk index is folded into the AAD
// alongside it so a chunk cannot be replayed at a different position.
func SealChunk(key []byte, index uint32, manifestAAD, plaintext []byte) ([]byte, error) {
	nonce := primitives.NonceFromChunkIndex(index)
	fullAAD := chunkAAD(constants.AADDomainChunk, manifestAAD, index)
	ciphertext, err := primitives.Seal(key, nonce, fullAAD, plaintext)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("chunk-seal", err)
	}
	return ciphertext, nil
}

// OpenChunk decrypts and authenticates one chunk sealed by SealChunk.
func OpenChunk(key []byte, index uint32, manifestAAD, ciphertext []byte) ([]byte, error) {
	nonce := primitives.NonceFromChunkIndex(index)
	fullAAD := chunkAAD(constants.AADDomainChunk, manifestAAD, index)
	plaintext, err := primitives.Open(key, nonce, fullAAD, ciphertext)
	if err != nil {
		return nil, tallowerrors.NewCryptoError("chunk-open", tallowerrors.ErrAead)
	}
	return plaintext, nil
}

// SealFilename encrypts the original filename under key, using the
// reserved filename chunk index so its ciphertext never collides with a
// data chunk's nonce, and a distinct AAD domain byte.
func SealFilename(key []byte, manifestAAD []byte, filename string) ([]byte, error) {
	nonce := primitives.NonceFromChunkIndex(constants.FilenameChunkIndex)
	fullAAD := chunkAAD(constants.AADDomainFilename, manifestAAD, constants.FilenameChunkIndex)
	ciphertext, err := primitives.Seal(key, nonce, fullAAD, []byte(filename))
	if err != nil {
		return nil, tallowerrors.NewCryptoError("filename-seal", err)
	}
	return ciphertext, nil
}

// OpenFilename decrypts a filename sealed by SealFilename.
func OpenFilename(key []byte, manifestAAD, ciphertext []byte) (string, error) {
	nonce := primitives.NonceFromChunkIndex(constants.FilenameChunkIndex)
	fullAAD := chunkAAD(constants.AADDomainFilename, manifestAAD, constants.FilenameChunkIndex)
	plaintext, err := primitives.Open(key, nonce, fullAAD, ciphertext)
	if err != nil {
		return "", tallowerrors.NewCryptoError("filename-open", tallowerrors.ErrAead)
	}
	return string(plaintext), nil
}

// ChunkCount returns the number of chunks a file of originalSize bytes
// splits into under chunkSize.
func ChunkCount(originalSize int64, chunkSize int) uint32 {
	if originalSize == 0 {
		return 0
	}
	count := originalSize / int64(chunkSize)
	if originalSize%int64(chunkSize) != 0 {
		count++
	}
	return uint32(count)
}
