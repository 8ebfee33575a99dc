package fileenc

import (
	"io"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// EncryptedFile is the result of encrypting one file: its manifest plus
// the sequence of sealed chunks, in order.
type EncryptedFile struct {
	Manifest *Manifest
	Chunks   [][]byte
}

// EncryptFile encrypts all of src's bytes under a subkey derived from
// fileKey and a fresh random salt, producing a manifest and the sealed
// chunk sequence. A chunkSize of zero or less selects
// constants.DefaultChunkSize. createdAtMs is
// the caller-supplied wall-clock timestamp, since this package never
// calls time.Now() itself.
func EncryptFile(src io.Reader, fileKey []byte, filename string, chunkSize int, createdAtMs uint64) (*EncryptedFile, error) {
	if chunkSize <= 0 {
		chunkSize = constants.DefaultChunkSize
	}

	salt := primitives.MustSecureRandomBytes(constants.FileSaltSize)
	subkey, err := deriveFileSubkey(fileKey, salt)
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(subkey)

	buf := globalChunkPool.Get(chunkSize)
	defer globalChunkPool.Put(buf)
	var chunks [][]byte
	var originalSize uint64
	var index uint32

	// Algorithm and salt are fixed before the first chunk is sealed, so
	// the manifest-level AAD (version, algorithm, salt) can be built now
	// even though the rest of the manifest's fields aren't known until
	// every chunk has been processed.
	aad := (&Manifest{Algorithm: constants.AlgorithmAES256GCM, Salt: salt}).AAD()

	for {
		n, readErr := io.ReadFull(src, buf)
		if n > 0 {
			ciphertext, err := SealChunk(subkey, index, aad, buf[:n])
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, ciphertext)
			originalSize += uint64(n)
			index++
		}
		if readErr == io.EOF {
			break
		}
		if readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return nil, tallowerrors.NewCryptoError("file-encrypt", readErr)
		}
	}

	encryptedName, err := SealFilename(subkey, aad, filename)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Algorithm:     constants.AlgorithmAES256GCM,
		Salt:          salt,
		ChunkSize:     uint32(chunkSize),
		OriginalSize:  originalSize,
		ChunkCount:    uint32(len(chunks)),
		CreatedAtMs:   createdAtMs,
		EncryptedName: encryptedName,
	}

	return &EncryptedFile{Manifest: manifest, Chunks: chunks}, nil
}

// DecryptFile reverses EncryptFile: it derives the same per-file subkey
// from fileKey and the manifest's salt, recovers the filename, and writes
// the decrypted chunk sequence to dst in order.
func DecryptFile(dst io.Writer, manifest *Manifest, chunks [][]byte, fileKey []byte) (filename string, err error) {
	if uint32(len(chunks)) != manifest.ChunkCount {
		return "", tallowerrors.NewProtocolError("file-decrypt", tallowerrors.ErrProtocol)
	}

	subkey, err := deriveFileSubkey(fileKey, manifest.Salt)
	if err != nil {
		return "", err
	}
	defer primitives.Zeroize(subkey)

	aad := manifest.AAD()

	filename, err = OpenFilename(subkey, aad, manifest.EncryptedName)
	if err != nil {
		return "", err
	}

	for i, ct := range chunks {
		plaintext, err := OpenChunk(subkey, uint32(i), aad, ct)
		if err != nil {
			return "", err
		}
		if _, err := dst.Write(plaintext); err != nil {
			return "", tallowerrors.NewCryptoError("file-decrypt", err)
		}
	}

	return filename, nil
}

// deriveFileSubkey derives the per-file AEAD key from the session- or
// password-derived file key and a per-file salt, under the file-subkey
// domain separator.
func deriveFileSubkey(fileKey, salt []byte) ([]byte, error) {
	return primitives.HKDFExtractExpand(salt, fileKey, []byte(constants.DomainFileSubkey), constants.AESKeySize)
}
