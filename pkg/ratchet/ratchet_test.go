package ratchet

import (
	"testing"

	"github.com/tallowteam/Tallow-sub001/pkg/hybridkem"
)

// handshakeSecrets runs an actual hybrid-KEM encapsulate/decapsulate
// exchange against responderKP's public key, the way the two sides of a
// real session would seed their ratchets, and returns the shared secret
// each side independently arrives at (equal by construction).
func handshakeSecrets(t *testing.T, responderKP *hybridkem.KeyPair) (initiatorSecret, responderSecret []byte) {
	t.Helper()
	ct, ss, err := hybridkem.Encapsulate(responderKP.PublicKey())
	if err != nil {
		t.Fatalf("hybridkem.Encapsulate: %v", err)
	}
	rss, err := hybridkem.Decapsulate(responderKP, ct)
	if err != nil {
		t.Fatalf("hybridkem.Decapsulate: %v", err)
	}
	return ss, rss
}

// newPair builds an initiator and responder session that share a hybrid-
// KEM secret and where the initiator already knows the responder's public
// key, as if a handshake/prekey exchange had just completed.
func newPair(t *testing.T) (initiator, responder *Session) {
	t.Helper()

	responderKP, err := hybridkem.Generate()
	if err != nil {
		t.Fatalf("hybridkem.Generate: %v", err)
	}
	initiatorKP, err := hybridkem.Generate()
	if err != nil {
		t.Fatalf("hybridkem.Generate: %v", err)
	}

	initiatorSecret, responderSecret := handshakeSecrets(t, responderKP)

	initSession, err := NewInitiatorSession(initiatorSecret, initiatorKP, responderKP.PublicKey())
	if err != nil {
		t.Fatalf("NewInitiatorSession: %v", err)
	}
	respSession, err := NewResponderSession(responderSecret, responderKP)
	if err != nil {
		t.Fatalf("NewResponderSession: %v", err)
	}
	return initSession, respSession
}

func TestPingPongRoundTrip(t *testing.T) {
	initiator, responder := newPair(t)

	aad := []byte("session-aad")
	header, ct, err := initiator.Send(aad, []byte("ping"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	pt, err := responder.Receive(aad, header, ct)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if string(pt) != "ping" {
		t.Errorf("got %q, want %q", pt, "ping")
	}

	header2, ct2, err := responder.Send(aad, []byte("pong"))
	if err != nil {
		t.Fatalf("Send (responder): %v", err)
	}
	pt2, err := initiator.Receive(aad, header2, ct2)
	if err != nil {
		t.Fatalf("Receive (initiator): %v", err)
	}
	if string(pt2) != "pong" {
		t.Errorf("got %q, want %q", pt2, "pong")
	}
}

func TestMultipleMessagesInOneChain(t *testing.T) {
	initiator, responder := newPair(t)
	aad := []byte("aad")

	for i, msg := range []string{"one", "two", "three"} {
		header, ct, err := initiator.Send(aad, []byte(msg))
		if err != nil {
			t.Fatalf("Send #%d: %v", i, err)
		}
		pt, err := responder.Receive(aad, header, ct)
		if err != nil {
			t.Fatalf("Receive #%d: %v", i, err)
		}
		if string(pt) != msg {
			t.Errorf("message %d: got %q, want %q", i, pt, msg)
		}
	}
}

func TestOutOfOrderDelivery(t *testing.T) {
	initiator, responder := newPair(t)
	aad := []byte("aad")

	// Establish the chain in order first; the first message carries no
	// ratchet ciphertext and only binds the initiator's public key on the
	// responder side.
	h0, c0, err := initiator.Send(aad, []byte("zero"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := responder.Receive(aad, h0, c0); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	h1, c1, err := initiator.Send(aad, []byte("first"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	h2, c2, err := initiator.Send(aad, []byte("second"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	h3, c3, err := initiator.Send(aad, []byte("third"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	pt3, err := responder.Receive(aad, h3, c3)
	if err != nil {
		t.Fatalf("Receive (out of order, third): %v", err)
	}
	if string(pt3) != "third" {
		t.Errorf("got %q, want %q", pt3, "third")
	}

	pt1, err := responder.Receive(aad, h1, c1)
	if err != nil {
		t.Fatalf("Receive (out of order, first): %v", err)
	}
	if string(pt1) != "first" {
		t.Errorf("got %q, want %q", pt1, "first")
	}

	pt2, err := responder.Receive(aad, h2, c2)
	if err != nil {
		t.Fatalf("Receive (out of order, second): %v", err)
	}
	if string(pt2) != "second" {
		t.Errorf("got %q, want %q", pt2, "second")
	}
}

func TestDHRatchetStepAcrossTurns(t *testing.T) {
	initiator, responder := newPair(t)
	aad := []byte("aad")

	for i := 0; i < 3; i++ {
		h, c, err := initiator.Send(aad, []byte("from-initiator"))
		if err != nil {
			t.Fatalf("turn %d initiator Send: %v", i, err)
		}
		if _, err := responder.Receive(aad, h, c); err != nil {
			t.Fatalf("turn %d responder Receive: %v", i, err)
		}

		h2, c2, err := responder.Send(aad, []byte("from-responder"))
		if err != nil {
			t.Fatalf("turn %d responder Send: %v", i, err)
		}
		if _, err := initiator.Receive(aad, h2, c2); err != nil {
			t.Fatalf("turn %d initiator Receive: %v", i, err)
		}
	}
}

func TestReceiveRejectsTamperedCiphertext(t *testing.T) {
	initiator, responder := newPair(t)
	aad := []byte("aad")

	header, ct, err := initiator.Send(aad, []byte("payload"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	ct[0] ^= 0xFF
	if _, err := responder.Receive(aad, header, ct); err == nil {
		t.Error("expected tampered ciphertext to fail authentication")
	}
}

func TestReceiveRejectsWrongAAD(t *testing.T) {
	initiator, responder := newPair(t)

	header, ct, err := initiator.Send([]byte("aad-a"), []byte("payload"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := responder.Receive([]byte("aad-b"), header, ct); err == nil {
		t.Error("expected mismatched AAD to fail authentication")
	}
}

func TestReplayIsRejected(t *testing.T) {
	initiator, responder := newPair(t)
	aad := []byte("aad")

	h1, c1, err := initiator.Send(aad, []byte("first"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := responder.Receive(aad, h1, c1); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	h2, c2, err := initiator.Send(aad, []byte("second"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := responder.Receive(aad, h2, c2); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	// Re-deliver the first message's ciphertext under its original header,
	// now that its message key has already been consumed.
	if _, err := responder.Receive(aad, h1, c1); err == nil {
		t.Error("expected replayed message to be rejected")
	}
}

func TestSendBeforePeerKeyKnownFails(t *testing.T) {
	ourKP, err := hybridkem.Generate()
	if err != nil {
		t.Fatalf("hybridkem.Generate: %v", err)
	}
	_, responderSecret := handshakeSecrets(t, ourKP)
	session, err := NewResponderSession(responderSecret, ourKP)
	if err != nil {
		t.Fatalf("NewResponderSession: %v", err)
	}
	if _, _, err := session.Send([]byte("aad"), []byte("too early")); err == nil {
		t.Error("expected Send before any peer key is known to fail")
	}
}

func TestInitialChainKeysAreDerivedNotCopied(t *testing.T) {
	responderKP, err := hybridkem.Generate()
	if err != nil {
		t.Fatalf("hybridkem.Generate: %v", err)
	}
	initiatorKP, err := hybridkem.Generate()
	if err != nil {
		t.Fatalf("hybridkem.Generate: %v", err)
	}
	initiatorSecret, responderSecret := handshakeSecrets(t, responderKP)

	initSt, err := NewAsInitiator(initiatorSecret, initiatorKP, responderKP.PublicKey())
	if err != nil {
		t.Fatalf("NewAsInitiator: %v", err)
	}
	respSt, err := NewAsResponder(responderSecret, responderKP)
	if err != nil {
		t.Fatalf("NewAsResponder: %v", err)
	}

	if string(initSt.RootKey) == string(initiatorSecret) {
		t.Error("RootKey must be HKDF-derived from the shared secret, not copied verbatim")
	}
	if initSt.SendChainKey == nil || initSt.RecvChainKey == nil {
		t.Fatal("initiator chain keys must be established at session_init, not left nil for lazy setup")
	}
	if respSt.SendChainKey == nil || respSt.RecvChainKey == nil {
		t.Fatal("responder chain keys must be established at session_init, not left nil for lazy setup")
	}
	if string(initSt.SendChainKey) != string(respSt.RecvChainKey) {
		t.Error("initiator's send chain must match the responder's receive chain")
	}
	if string(initSt.RecvChainKey) != string(respSt.SendChainKey) {
		t.Error("initiator's receive chain must match the responder's send chain")
	}
}

func TestFirstMessageAdoptsPeerKeyWithoutRatchetStep(t *testing.T) {
	initiator, responder := newPair(t)
	aad := []byte("aad")

	header, ct, err := initiator.Send(aad, []byte("hello"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if header.Ciphertext != nil {
		t.Errorf("first header should carry no ratchet ciphertext, got %d bytes", len(header.Ciphertext))
	}

	if _, err := responder.Receive(aad, header, ct); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if responder.State() != SessionActive {
		t.Errorf("responder state = %v, want Active", responder.State())
	}
}

func TestDestroyClosesSession(t *testing.T) {
	initiator, _ := newPair(t)
	initiator.Destroy()
	if initiator.State() != SessionClosed {
		t.Errorf("state = %v, want Closed", initiator.State())
	}
	if _, _, err := initiator.Send([]byte("aad"), []byte("msg")); err == nil {
		t.Error("expected Send on a destroyed session to fail")
	}
}

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := &Header{
		DHPub:      []byte("a-fake-hybrid-public-key-value."),
		PN:         7,
		N:          12,
		Ciphertext: []byte("a-fake-ciphertext"),
	}
	encoded, err := EncodeHeader(h)
	if err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	decoded, n, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if n != len(encoded) {
		t.Errorf("consumed %d bytes, want %d", n, len(encoded))
	}
	if string(decoded.DHPub) != string(h.DHPub) || decoded.PN != h.PN || decoded.N != h.N {
		t.Errorf("decoded header mismatch: %+v", decoded)
	}
	if string(decoded.Ciphertext) != string(h.Ciphertext) {
		t.Errorf("decoded ciphertext mismatch: got %q, want %q", decoded.Ciphertext, h.Ciphertext)
	}
}

func TestHeaderEncodeDecodeWithoutCiphertext(t *testing.T) {
	h := &Header{DHPub: []byte("pubkey-bytes"), PN: 0, N: 3}
	encoded, err := EncodeHeader(h)
	if err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	decoded, _, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if decoded.Ciphertext != nil {
		t.Errorf("expected nil ciphertext, got %v", decoded.Ciphertext)
	}
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	h := &Header{DHPub: []byte("pubkey-bytes"), PN: 0, N: 0}
	encoded, err := EncodeHeader(h)
	if err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	encoded[0] ^= 0xFF
	if _, _, err := DecodeHeader(encoded); err == nil {
		t.Error("expected corrupted magic to be rejected")
	}
}
