package primitives

import "testing"

func TestAEADSealOpenRoundTrip(t *testing.T) {
	key := MustSecureRandomBytes(32)
	nonce := NonceFromChunkIndex(7)
	aad := []byte("chunk-aad")
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	ciphertext, err := Seal(key, nonce, aad, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err := Open(key, nonce, aad, ciphertext)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Errorf("round-trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestAEADOpenRejectsTamperedCiphertext(t *testing.T) {
	key := MustSecureRandomBytes(32)
	nonce := NonceFromChunkIndex(1)
	aad := []byte("aad")
	ciphertext, err := Seal(key, nonce, aad, []byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	ciphertext[0] ^= 0xFF

	if _, err := Open(key, nonce, aad, ciphertext); err == nil {
		t.Error("expected Open to fail on tampered ciphertext")
	}
}

func TestAEADOpenRejectsWrongAAD(t *testing.T) {
	key := MustSecureRandomBytes(32)
	nonce := NonceFromChunkIndex(2)
	ciphertext, err := Seal(key, nonce, []byte("aad-a"), []byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := Open(key, nonce, []byte("aad-b"), ciphertext); err == nil {
		t.Error("expected Open to fail under mismatched AAD")
	}
}

func TestNonceFromChunkIndexBigEndianTail(t *testing.T) {
	nonce := NonceFromChunkIndex(0x01020304)
	want := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0x01, 0x02, 0x03, 0x04}
	if len(nonce) != 12 {
		t.Fatalf("nonce length = %d, want 12", len(nonce))
	}
	for i := range want {
		if nonce[i] != want[i] {
			t.Errorf("nonce[%d] = %#x, want %#x", i, nonce[i], want[i])
		}
	}
}

func TestNewAEADRejectsBadKeySize(t *testing.T) {
	if _, err := NewAEAD(make([]byte, 16)); err == nil {
		t.Error("expected error for non-32-byte key")
	}
}
