package fileenc

import (
	"bytes"
	"testing"

	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

func TestEncryptDecryptFileRoundTrip(t *testing.T) {
	fileKey := primitives.MustSecureRandomBytes(32)
	content := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 500)

	enc, err := EncryptFile(bytes.NewReader(content), fileKey, "report.txt", 1024, 1_700_000_000_000)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	if enc.Manifest.OriginalSize != uint64(len(content)) {
		t.Fatalf("OriginalSize = %d, want %d", enc.Manifest.OriginalSize, len(content))
	}
	if enc.Manifest.ChunkCount != uint32(len(enc.Chunks)) {
		t.Fatalf("ChunkCount = %d, want %d", enc.Manifest.ChunkCount, len(enc.Chunks))
	}

	var out bytes.Buffer
	filename, err := DecryptFile(&out, enc.Manifest, enc.Chunks, fileKey)
	if err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if filename != "report.txt" {
		t.Fatalf("filename = %q, want %q", filename, "report.txt")
	}
	if !bytes.Equal(out.Bytes(), content) {
		t.Fatal("decrypted content does not match original")
	}
}

func TestEncryptDecryptEmptyFile(t *testing.T) {
	fileKey := primitives.MustSecureRandomBytes(32)
	enc, err := EncryptFile(bytes.NewReader(nil), fileKey, "empty.bin", 1024, 0)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	if len(enc.Chunks) != 0 {
		t.Fatalf("expected zero chunks for empty file, got %d", len(enc.Chunks))
	}

	var out bytes.Buffer
	filename, err := DecryptFile(&out, enc.Manifest, enc.Chunks, fileKey)
	if err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}
	if filename != "empty.bin" {
		t.Fatalf("filename = %q, want %q", filename, "empty.bin")
	}
	if out.Len() != 0 {
		t.Fatalf("expected empty output, got %d bytes", out.Len())
	}
}

func TestEncryptDefaultsChunkSizeWhenNonPositive(t *testing.T) {
	fileKey := primitives.MustSecureRandomBytes(32)
	enc, err := EncryptFile(bytes.NewReader([]byte("small")), fileKey, "f", 0, 0)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	if enc.Manifest.ChunkSize == 0 {
		t.Fatal("ChunkSize should default to a positive value")
	}
}

func TestDecryptFileRejectsWrongKey(t *testing.T) {
	fileKey := primitives.MustSecureRandomBytes(32)
	wrongKey := primitives.MustSecureRandomBytes(32)
	enc, err := EncryptFile(bytes.NewReader([]byte("secret content")), fileKey, "f.txt", 64, 0)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}

	var out bytes.Buffer
	if _, err := DecryptFile(&out, enc.Manifest, enc.Chunks, wrongKey); err == nil {
		t.Fatal("DecryptFile should fail with the wrong file key")
	}
}

func TestDecryptFileRejectsChunkCountMismatch(t *testing.T) {
	fileKey := primitives.MustSecureRandomBytes(32)
	enc, err := EncryptFile(bytes.NewReader([]byte("abc")), fileKey, "f.txt", 64, 0)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}

	var out bytes.Buffer
	if _, err := DecryptFile(&out, enc.Manifest, enc.Chunks[:0], fileKey); err == nil {
		t.Fatal("DecryptFile should reject a chunk slice whose length disagrees with the manifest")
	}
}

func TestDecryptFileRejectsTamperedChunk(t *testing.T) {
	fileKey := primitives.MustSecureRandomBytes(32)
	enc, err := EncryptFile(bytes.NewReader(bytes.Repeat([]byte("x"), 200)), fileKey, "f.txt", 64, 0)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	enc.Chunks[0][len(enc.Chunks[0])-1] ^= 0xFF

	var out bytes.Buffer
	if _, err := DecryptFile(&out, enc.Manifest, enc.Chunks, fileKey); err == nil {
		t.Fatal("DecryptFile should reject a tampered chunk")
	}
}

func TestEncryptFileUsesFreshSaltPerCall(t *testing.T) {
	fileKey := primitives.MustSecureRandomBytes(32)
	enc1, err := EncryptFile(bytes.NewReader([]byte("same content")), fileKey, "f.txt", 64, 0)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	enc2, err := EncryptFile(bytes.NewReader([]byte("same content")), fileKey, "f.txt", 64, 0)
	if err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	if bytes.Equal(enc1.Manifest.Salt, enc2.Manifest.Salt) {
		t.Fatal("two encryptions of the same content should use independent random salts")
	}
}
