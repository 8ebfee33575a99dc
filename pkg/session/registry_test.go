package session

import (
	"errors"
	"testing"

	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/hybridkem"
	"github.com/tallowteam/Tallow-sub001/pkg/ratchet"
)

func newTestSession(t *testing.T) *ratchet.Session {
	t.Helper()
	kp, err := hybridkem.Generate()
	if err != nil {
		t.Fatalf("hybridkem.Generate: %v", err)
	}
	// Run a real hybrid-KEM round trip against our own public key to
	// produce a genuine shared secret: the registry only cares that a
	// session exists, not who the peer is.
	ct, _, err := hybridkem.Encapsulate(kp.PublicKey())
	if err != nil {
		t.Fatalf("hybridkem.Encapsulate: %v", err)
	}
	sharedSecret, err := hybridkem.Decapsulate(kp, ct)
	if err != nil {
		t.Fatalf("hybridkem.Decapsulate: %v", err)
	}
	sess, err := ratchet.NewResponderSession(sharedSecret, kp)
	if err != nil {
		t.Fatalf("NewResponderSession: %v", err)
	}
	return sess
}

func TestRegisterGetRoundTrip(t *testing.T) {
	r := NewRegistry()
	sess := newTestSession(t)

	if err := r.Register("peer-1", sess); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, ok := r.Get("peer-1")
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got != sess {
		t.Fatal("Get returned a different session than was registered")
	}
}

func TestRegisterRejectsDuplicatePeer(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("peer-1", newTestSession(t)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := r.Register("peer-1", newTestSession(t))
	if !errors.Is(err, tallowerrors.ErrProtocol) {
		t.Fatalf("duplicate Register: got %v, want Protocol", err)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("nope")
	if ok {
		t.Fatal("expected ok=false for an unregistered peer")
	}
}

func TestRemoveDestroysSession(t *testing.T) {
	r := NewRegistry()
	sess := newTestSession(t)
	if err := r.Register("peer-1", sess); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r.Remove("peer-1")

	if _, ok := r.Get("peer-1"); ok {
		t.Fatal("expected peer to be unregistered after Remove")
	}
	if sess.State() != ratchet.SessionClosed {
		t.Fatalf("State() = %v, want Closed after Remove", sess.State())
	}
}

func TestRemoveMissingIsNotAnError(t *testing.T) {
	r := NewRegistry()
	r.Remove("nope") // must not panic
}

func TestLenAndPeerIDs(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("a", newTestSession(t)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("b", newTestSession(t)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	ids := r.PeerIDs()
	if len(ids) != 2 {
		t.Fatalf("PeerIDs() returned %d ids, want 2", len(ids))
	}
}

func TestCloseAllDestroysEverySession(t *testing.T) {
	r := NewRegistry()
	sessA := newTestSession(t)
	sessB := newTestSession(t)
	if err := r.Register("a", sessA); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("b", sessB); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r.CloseAll()

	if r.Len() != 0 {
		t.Fatalf("Len() after CloseAll = %d, want 0", r.Len())
	}
	if sessA.State() != ratchet.SessionClosed || sessB.State() != ratchet.SessionClosed {
		t.Fatal("expected both sessions to be Closed after CloseAll")
	}
}

func TestStatsTrackRegisteredAndRemoved(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("a", newTestSession(t)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("b", newTestSession(t)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	r.Remove("a")

	snap := r.Stats()
	if snap.RegisteredTotal != 2 {
		t.Fatalf("RegisteredTotal = %d, want 2", snap.RegisteredTotal)
	}
	if snap.RemovedTotal != 1 {
		t.Fatalf("RemovedTotal = %d, want 1", snap.RemovedTotal)
	}
	if snap.CurrentCount != 1 {
		t.Fatalf("CurrentCount = %d, want 1", snap.CurrentCount)
	}
	if snap.PeakCount != 2 {
		t.Fatalf("PeakCount = %d, want 2", snap.PeakCount)
	}
}
