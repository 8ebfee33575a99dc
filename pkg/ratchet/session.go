package ratchet

import (
	"sync"
	"sync/atomic"

	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/hybridkem"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// SessionState is the lifecycle state of a ratchet Session.
type SessionState int32

const (
	SessionUninitialized SessionState = iota
	SessionAwaitingPeerKey
	SessionActive
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionUninitialized:
		return "Uninitialized"
	case SessionAwaitingPeerKey:
		return "AwaitingPeerKey"
	case SessionActive:
		return "Active"
	case SessionClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// zeroNonce is the AEAD nonce used for every ratchet message: safe only
// because each message key is derived fresh and used exactly once.
var zeroNonce = make([]byte, 12)

// Session wraps a ratchet State with exclusive access and a lifecycle
// state machine, giving callers a single send/receive API per peer.
type Session struct {
	mu    sync.Mutex
	state atomic.Int32

	st       *State
	observer Observer
}

// NewInitiatorSession creates a session for the party that already knows
// the peer's public key (e.g. from a prekey bundle) and so can send
// immediately. sharedSecret is the 32-byte output of the hybrid-KEM
// handshake (pkg/hybridkem.Encapsulate/Decapsulate) that seeds the
// ratchet's root key; it is never a pre-derived root key itself.
func NewInitiatorSession(sharedSecret []byte, ourKeyPair *hybridkem.KeyPair, peerPublicKey *hybridkem.PublicKey) (*Session, error) {
	st, err := NewAsInitiator(sharedSecret, ourKeyPair, peerPublicKey)
	if err != nil {
		return nil, err
	}
	s := &Session{st: st}
	s.state.Store(int32(SessionActive))
	return s, nil
}

// NewResponderSession creates a session for the party that must wait for
// a message from the peer before it learns their public key. sharedSecret
// is the same 32-byte hybrid-KEM output the initiator used; both sides
// derive identical send/receive chain keys from it, swapped by role.
func NewResponderSession(sharedSecret []byte, ourKeyPair *hybridkem.KeyPair) (*Session, error) {
	st, err := NewAsResponder(sharedSecret, ourKeyPair)
	if err != nil {
		return nil, err
	}
	s := &Session{st: st}
	s.state.Store(int32(SessionAwaitingPeerKey))
	return s, nil
}

// SetObserver attaches lifecycle/metrics hooks. Call before any
// Send/Receive.
func (s *Session) SetObserver(observer Observer) {
	s.observer = observer
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Send encrypts plaintext under the next send-chain message key, running
// the lazy send-side ratchet step first if one is pending.
func (s *Session) Send(aad, plaintext []byte) (*Header, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == SessionClosed {
		return nil, nil, tallowerrors.ErrClosed
	}
	if s.State() == SessionAwaitingPeerKey {
		return nil, nil, tallowerrors.NewProtocolError("ratchet-send", tallowerrors.ErrProtocol)
	}

	if err := s.st.ensureSendChain(); err != nil {
		if s.observer != nil {
			s.observer.OnProtocolError(err)
		}
		return nil, nil, err
	}

	mk, err := s.st.nextSendMessageKey()
	if err != nil {
		if s.observer != nil {
			s.observer.OnProtocolError(err)
		}
		return nil, nil, err
	}
	defer primitives.Zeroize(mk)

	header := &Header{
		DHPub:      s.st.OurKeyPair.PublicKey().Bytes(),
		PN:         s.st.PN,
		N:          s.st.Ns,
		Ciphertext: s.st.takePendingCiphertext(),
	}

	fullAAD := append(append([]byte(nil), aad...), header.AAD()...)
	ciphertext, err := primitives.Seal(mk, zeroNonce, fullAAD, plaintext)
	if err != nil {
		if s.observer != nil {
			s.observer.OnProtocolError(err)
		}
		return nil, nil, err
	}

	s.st.Ns++
	if s.observer != nil {
		s.observer.OnMessageSent(header.N)
	}
	return header, ciphertext, nil
}

// Receive decrypts ciphertext sent under header, performing a receive-side
// ratchet step if header carries a public key this session has not seen
// before, and consulting/refreshing the skipped-key store for
// out-of-order delivery.
func (s *Session) Receive(aad []byte, header *Header, ciphertext []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == SessionClosed {
		return nil, tallowerrors.ErrClosed
	}

	fullAAD := append(append([]byte(nil), aad...), header.AAD()...)

	if mk, ok := s.st.takeSkipped(header.DHPub, header.N); ok {
		defer primitives.Zeroize(mk)
		pt, err := primitives.Open(mk, zeroNonce, fullAAD, ciphertext)
		if err != nil {
			if s.observer != nil {
				s.observer.OnProtocolError(err)
			}
			return nil, err
		}
		return pt, nil
	}

	isNewPeerKey := s.st.PeerPublicKey == nil || peerKeyString(s.st.PeerPublicKey) != string(header.DHPub)
	if isNewPeerKey {
		// The very first inbound header after session_init carries no
		// ratchet ciphertext: the sender's first message rode on the
		// chain key already derived from the shared secret at init, not
		// on a fresh KEM step. Bind the peer's key without rotating.
		firstPeerKey := s.st.PeerPublicKey == nil && len(header.Ciphertext) == 0
		if firstPeerKey {
			if err := s.st.adoptInitialPeerKey(header.DHPub); err != nil {
				if s.observer != nil {
					s.observer.OnProtocolError(err)
				}
				return nil, err
			}
		} else {
			if err := s.st.receiveRatchetStep(header.DHPub, header.Ciphertext, header.PN); err != nil {
				if s.observer != nil {
					s.observer.OnProtocolError(err)
				}
				return nil, err
			}
			if s.observer != nil {
				s.observer.OnRatchetStep()
			}
		}
		s.state.Store(int32(SessionActive))
	}

	if header.N < s.st.Nr {
		if s.observer != nil {
			s.observer.OnReplayDetected()
		}
		return nil, tallowerrors.NewProtocolError("ratchet-receive", tallowerrors.ErrReplay)
	}

	if err := s.st.skipUntil(header.N); err != nil {
		if s.observer != nil {
			if tallowerrors.Is(err, tallowerrors.ErrTooManySkipped) {
				s.observer.OnTooManySkipped()
			} else {
				s.observer.OnProtocolError(err)
			}
		}
		return nil, err
	}

	nextCK, mk, err := kdfChainStep(s.st.RecvChainKey)
	if err != nil {
		return nil, tallowerrors.NewProtocolError("ratchet-receive", err)
	}
	s.st.RecvChainKey = nextCK
	s.st.Nr++
	defer primitives.Zeroize(mk)

	pt, err := primitives.Open(mk, zeroNonce, fullAAD, ciphertext)
	if err != nil {
		if s.observer != nil {
			s.observer.OnProtocolError(err)
		}
		return nil, tallowerrors.NewProtocolError("ratchet-receive", tallowerrors.ErrAead)
	}
	if s.observer != nil {
		s.observer.OnMessageReceived(header.N)
	}
	return pt, nil
}

// RotateOwnKeys forces a fresh hybrid key pair even though no ratchet step
// required one, for callers that want a scheduled forward-secrecy bump
// rather than waiting for the peer to drive it.
func (s *Session) RotateOwnKeys() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == SessionClosed {
		return tallowerrors.ErrClosed
	}

	newKeyPair, err := hybridkem.Generate()
	if err != nil {
		return err
	}
	s.st.OurKeyPair = newKeyPair
	// The peer only accepts a new public key together with a fresh KEM
	// ciphertext, so close the current send chain: the next Send re-keys
	// it through ensureSendChain and carries that ciphertext.
	if s.st.SendChainKey != nil {
		primitives.Zeroize(s.st.SendChainKey)
		s.st.SendChainKey = nil
		s.st.PN = s.st.Ns
		s.st.Ns = 0
	}
	if s.observer != nil {
		s.observer.OnRatchetStep()
	}
	return nil
}

// Destroy zeroizes all ratchet key material and transitions the session
// to its terminal closed state. Subsequent Send/Receive calls fail.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == SessionClosed {
		return
	}

	primitives.Zeroize(s.st.RootKey)
	primitives.Zeroize(s.st.SendChainKey)
	primitives.Zeroize(s.st.RecvChainKey)
	primitives.Zeroize(s.st.pendingCiphertext)
	for _, mk := range s.st.skipped {
		primitives.Zeroize(mk)
	}
	s.st.skipped = nil
	s.st.skippedOrder = nil

	s.state.Store(int32(SessionClosed))
	if s.observer != nil {
		s.observer.OnSessionEnd()
	}
}
