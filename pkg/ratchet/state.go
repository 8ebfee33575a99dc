// Package ratchet implements a hybrid post-quantum Double Ratchet: the
// classical per-step Diffie-Hellman exchange is replaced by an ML-KEM-768 +
// X25519 encapsulate/decapsulate pair, since a KEM has no Diffie-Hellman
// style commutative step. Sending and receiving chains still advance by
// symmetric-ratchet HKDF exactly as in the original algorithm.
package ratchet

import (
	"encoding/binary"

	"github.com/tallowteam/Tallow-sub001/internal/constants"
	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/hybridkem"
	"github.com/tallowteam/Tallow-sub001/pkg/primitives"
)

// skippedKey identifies one stored out-of-order message key by the peer
// public key its chain was rooted on and the message index within that
// chain.
type skippedKey struct {
	peerPub string
	n       uint32
}

// State holds one side of a ratchet session: root key, send/receive chain
// keys, the local hybrid key pair, the peer's last known public key, chain
// counters, and the bounded skipped-message-key store.
type State struct {
	RootKey []byte

	SendChainKey []byte
	RecvChainKey []byte

	OurKeyPair    *hybridkem.KeyPair
	PeerPublicKey *hybridkem.PublicKey

	// pendingCiphertext is a hybrid-KEM ciphertext awaiting transmission:
	// the result of a lazy send-side ratchet step that must ride on the
	// next outgoing header before it is cleared (spec's deferred
	// send-side ciphertext emission).
	pendingCiphertext []byte

	Ns, Nr uint32
	PN     uint32

	skippedOrder []skippedKey
	skipped      map[skippedKey][]byte
}

// deriveInitialChains turns the hybrid-KEM shared secret the two peers
// established out of band into a root key and both chain keys, per the
// session_init algorithm: RK comes from the shared secret, and CK_A/CK_B
// both come from RK, never straight from the shared secret. The initiator
// sends on CK_A and receives on CK_B; the responder is the mirror image.
func deriveInitialChains(sharedSecret []byte, isInitiator bool) (rootKey, sendChainKey, recvChainKey []byte, err error) {
	rootKey, err = primitives.HKDFExtractExpand(nil, sharedSecret, []byte(constants.DomainRootKeyInit), constants.KDFOutputSize)
	if err != nil {
		return nil, nil, nil, err
	}
	ckA, err := primitives.HKDFExtractExpand(nil, rootKey, []byte(constants.DomainSendChain), constants.KDFOutputSize)
	if err != nil {
		return nil, nil, nil, err
	}
	ckB, err := primitives.HKDFExtractExpand(nil, rootKey, []byte(constants.DomainReceiveChain), constants.KDFOutputSize)
	if err != nil {
		return nil, nil, nil, err
	}
	if isInitiator {
		return rootKey, ckA, ckB, nil
	}
	return rootKey, ckB, ckA, nil
}

// NewAsInitiator builds ratchet state for the party that completed a
// hybrid-KEM handshake holding the resulting shared secret and the peer's
// current hybrid public key. The send and receive chain keys are derived
// from the shared secret immediately, so this side can send before
// hearing back from the peer.
func NewAsInitiator(sharedSecret []byte, ourKeyPair *hybridkem.KeyPair, peerPublicKey *hybridkem.PublicKey) (*State, error) {
	if len(sharedSecret) != constants.KDFOutputSize {
		return nil, tallowerrors.NewProtocolError("ratchet-init", tallowerrors.ErrInvalidKeySize)
	}
	rootKey, sendCK, recvCK, err := deriveInitialChains(sharedSecret, true)
	if err != nil {
		return nil, tallowerrors.NewProtocolError("ratchet-init", err)
	}
	return &State{
		RootKey:       rootKey,
		SendChainKey:  sendCK,
		RecvChainKey:  recvCK,
		OurKeyPair:    ourKeyPair,
		PeerPublicKey: peerPublicKey,
		skipped:       make(map[skippedKey][]byte),
	}, nil
}

// NewAsResponder builds ratchet state for the party that completed a
// hybrid-KEM handshake holding the resulting shared secret and its own
// hybrid key pair, but has not yet learned the peer's public key. The
// send and receive chain keys are derived from the shared secret
// immediately, same as the initiator side, just with the roles swapped;
// only the peer's public key itself is still unknown until the first
// message arrives.
func NewAsResponder(sharedSecret []byte, ourKeyPair *hybridkem.KeyPair) (*State, error) {
	if len(sharedSecret) != constants.KDFOutputSize {
		return nil, tallowerrors.NewProtocolError("ratchet-init", tallowerrors.ErrInvalidKeySize)
	}
	rootKey, sendCK, recvCK, err := deriveInitialChains(sharedSecret, false)
	if err != nil {
		return nil, tallowerrors.NewProtocolError("ratchet-init", err)
	}
	return &State{
		RootKey:      rootKey,
		SendChainKey: sendCK,
		RecvChainKey: recvCK,
		OurKeyPair:   ourKeyPair,
		skipped:      make(map[skippedKey][]byte),
	}, nil
}

// kdfRootStep derives the next root key and a chain key from the current
// root key and a fresh hybrid-KEM shared secret, under the root-ratchet
// domain separator.
func kdfRootStep(rootKey, sharedSecret []byte) (newRoot, chainKey []byte, err error) {
	out, err := primitives.HKDFExtractExpand(rootKey, sharedSecret, []byte(constants.DomainRootRatchet), 64)
	if err != nil {
		return nil, nil, err
	}
	return out[:32], out[32:], nil
}

// kdfChainStep advances a chain key one position, returning the updated
// chain key and the message key derived from the previous value.
func kdfChainStep(chainKey []byte) (nextChainKey, messageKey []byte, err error) {
	ck, err := primitives.HKDFExtractExpand(nil, chainKey, []byte(constants.DomainChainRatchet), 32)
	if err != nil {
		return nil, nil, err
	}
	mk, err := primitives.HKDFExtractExpand(nil, chainKey, []byte(constants.DomainMessageKey), 32)
	if err != nil {
		return nil, nil, err
	}
	return ck, mk, nil
}

// ensureSendChain performs the lazy ratchet step used to bring up a fresh
// send chain after a DH ratchet step has cleared it: it encapsulates
// against the peer's current public key, advances the root key, and
// stashes the resulting ciphertext to be emitted with the next outgoing
// header. A no-op if a send chain already exists, which is always true
// immediately after session_init since both chain keys are derived from
// the shared secret up front.
func (s *State) ensureSendChain() error {
	if s.SendChainKey != nil {
		return nil
	}
	if s.PeerPublicKey == nil {
		return tallowerrors.NewProtocolError("ratchet-send", tallowerrors.ErrProtocol)
	}

	ct, sharedSecret, err := hybridkem.Encapsulate(s.PeerPublicKey)
	if err != nil {
		return tallowerrors.NewProtocolError("ratchet-send", err)
	}
	defer primitives.Zeroize(sharedSecret)

	newRoot, sendCK, err := kdfRootStep(s.RootKey, sharedSecret)
	if err != nil {
		return tallowerrors.NewProtocolError("ratchet-send", err)
	}

	s.RootKey = newRoot
	s.SendChainKey = sendCK
	s.pendingCiphertext = ct.Bytes()
	return nil
}

// nextSendMessageKey advances the send chain by one step.
func (s *State) nextSendMessageKey() ([]byte, error) {
	if s.SendChainKey == nil {
		return nil, tallowerrors.NewProtocolError("ratchet-send", tallowerrors.ErrProtocol)
	}
	nextCK, mk, err := kdfChainStep(s.SendChainKey)
	if err != nil {
		return nil, tallowerrors.NewProtocolError("ratchet-send", err)
	}
	s.SendChainKey = nextCK
	return mk, nil
}

// takePendingCiphertext returns and clears the hybrid-KEM ciphertext
// waiting to be emitted on the next outgoing header, if any.
func (s *State) takePendingCiphertext() []byte {
	ct := s.pendingCiphertext
	s.pendingCiphertext = nil
	return ct
}

// receiveRatchetStep processes a header carrying a public key the ratchet
// has not seen before: it skips forward any still-outstanding messages on
// the current receive chain, decapsulates the header's ciphertext to
// establish a fresh receive chain, and rotates our own key pair so the
// consumed decapsulation key is never reused.
func (s *State) receiveRatchetStep(peerPubBytes, ciphertextBytes []byte, previousChainLength uint32) error {
	if ciphertextBytes == nil {
		return tallowerrors.NewProtocolError("ratchet-receive", tallowerrors.ErrProtocol)
	}
	if err := s.skipUntil(previousChainLength); err != nil {
		return err
	}

	ct, err := hybridkem.ParseCiphertext(ciphertextBytes)
	if err != nil {
		return tallowerrors.NewProtocolError("ratchet-receive", err)
	}
	sharedSecret, err := hybridkem.Decapsulate(s.OurKeyPair, ct)
	if err != nil {
		return tallowerrors.NewProtocolError("ratchet-receive", err)
	}
	defer primitives.Zeroize(sharedSecret)

	newRoot, recvCK, err := kdfRootStep(s.RootKey, sharedSecret)
	if err != nil {
		return tallowerrors.NewProtocolError("ratchet-receive", err)
	}

	peerPub, err := hybridkem.ParsePublicKey(peerPubBytes)
	if err != nil {
		return tallowerrors.NewProtocolError("ratchet-receive", err)
	}

	newKeyPair, err := hybridkem.Generate()
	if err != nil {
		return tallowerrors.NewProtocolError("ratchet-receive", err)
	}

	s.RootKey = newRoot
	s.RecvChainKey = recvCK
	s.SendChainKey = nil
	s.pendingCiphertext = nil
	s.PeerPublicKey = peerPub
	s.OurKeyPair = newKeyPair
	s.PN = s.Ns
	s.Ns = 0
	s.Nr = 0
	return nil
}

// skipUntil derives and stores message keys for every index on the
// current receive chain from Nr up to (not including) until, so a later
// out-of-order arrival can still be decrypted. Eviction is FIFO across the
// whole session once constants.MaxSkip entries are stored.
func (s *State) skipUntil(until uint32) error {
	if s.RecvChainKey == nil {
		s.Nr = until
		return nil
	}
	if until < s.Nr {
		return nil
	}
	if int(until-s.Nr) > constants.MaxSkip {
		return tallowerrors.NewProtocolError("ratchet-skip", tallowerrors.ErrTooManySkipped)
	}

	peerKey := peerKeyString(s.PeerPublicKey)
	for s.Nr < until {
		nextCK, mk, err := kdfChainStep(s.RecvChainKey)
		if err != nil {
			return tallowerrors.NewProtocolError("ratchet-skip", err)
		}
		s.RecvChainKey = nextCK
		s.storeSkipped(skippedKey{peerPub: peerKey, n: s.Nr}, mk)
		s.Nr++
	}
	return nil
}

// storeSkipped inserts a skipped message key, evicting the oldest entry
// (FIFO across the whole session) if the store is already at capacity.
func (s *State) storeSkipped(key skippedKey, mk []byte) {
	if len(s.skippedOrder) >= constants.MaxSkip {
		oldest := s.skippedOrder[0]
		s.skippedOrder = s.skippedOrder[1:]
		if old, ok := s.skipped[oldest]; ok {
			primitives.Zeroize(old)
			delete(s.skipped, oldest)
		}
	}
	s.skipped[key] = mk
	s.skippedOrder = append(s.skippedOrder, key)
}

// takeSkipped looks up and removes a stored skipped-message key, if any.
func (s *State) takeSkipped(peerPubBytes []byte, n uint32) ([]byte, bool) {
	key := skippedKey{peerPub: string(peerPubBytes), n: n}
	mk, ok := s.skipped[key]
	if !ok {
		return nil, false
	}
	delete(s.skipped, key)
	for i, k := range s.skippedOrder {
		if k == key {
			s.skippedOrder = append(s.skippedOrder[:i], s.skippedOrder[i+1:]...)
			break
		}
	}
	return mk, true
}

// adoptInitialPeerKey binds the peer's hybrid public key the first time a
// header reveals it, without running a DH ratchet step. The receive chain
// was already derived at session_init from the shared secret both sides
// hold, so the first inbound header only needs to tell the responder
// whose key it is; it carries no ratchet ciphertext because the sender
// never needed to re-key to produce its first message.
func (s *State) adoptInitialPeerKey(peerPubBytes []byte) error {
	peerPub, err := hybridkem.ParsePublicKey(peerPubBytes)
	if err != nil {
		return tallowerrors.NewProtocolError("ratchet-receive", err)
	}
	s.PeerPublicKey = peerPub
	return nil
}

func peerKeyString(pk *hybridkem.PublicKey) string {
	if pk == nil {
		return ""
	}
	return string(pk.Bytes())
}

func uint32Bytes(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}
