package vault

import (
	"bytes"
	"testing"
)

func TestFileStorageSaveLoadRoundTrip(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	e := &Entry{
		ID:         "entry-1",
		Ciphertext: []byte("ciphertext-bytes"),
		IV:         bytes.Repeat([]byte{0x01}, 12),
		Metadata:   Metadata{Label: "l", Type: "raw", Tags: []string{"a", "b"}},
		CreatedAt:  1,
		UpdatedAt:  2,
	}
	if err := s.Save(e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := s.Load("entry-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if !bytes.Equal(got.Ciphertext, e.Ciphertext) || !bytes.Equal(got.IV, e.IV) {
		t.Fatal("loaded entry does not match saved entry")
	}
	if got.Metadata.Label != "l" || len(got.Metadata.Tags) != 2 {
		t.Fatalf("loaded metadata mismatch: %+v", got.Metadata)
	}
}

func TestFileStorageLoadMissingReturnsNotFound(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	_, ok, err := s.Load("nope")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing id")
	}
}

func TestFileStorageDeleteMissingIsNotError(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := s.Delete("nope"); err != nil {
		t.Fatalf("Delete of missing id should not error: %v", err)
	}
}

func TestFileStorageListAndClear(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Save(&Entry{ID: id, Ciphertext: []byte("x"), IV: bytes.Repeat([]byte{0}, 12)}); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(list))
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	list, err = s.List()
	if err != nil {
		t.Fatalf("List after Clear: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List after Clear returned %d entries, want 0", len(list))
	}
}

func TestEncodeEntryFilenameHandlesUnsafeIDs(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	id := "weird/id with spaces:and:colons"
	if err := s.Save(&Entry{ID: id, Ciphertext: []byte("x"), IV: bytes.Repeat([]byte{0}, 12)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected entry with an unsafe id to round-trip")
	}
	if got.ID != id {
		t.Fatalf("ID = %q, want %q", got.ID, id)
	}
}
