package session

import (
	"sync"
)

// MAX_SKIP itself is enforced inside pkg/ratchet's State for every
// session individually; SkipBudget adds a registry-wide view across many
// peers, the way the teacher's IPRateLimiter tracked per-IP connection
// counts rather than enforcing any single connection's limit.
//
// SkipBudget implements ratchet.Observer so a caller can attach one
// instance per peer (via Session.SetObserver) and get back a place to
// ask "which peers are under skip pressure" without polling every
// session's internal state.
type SkipBudget struct {
	mu             sync.Mutex
	tooManyEvents  map[string]uint64
	replaysBlocked map[string]uint64
	ratchetSteps   map[string]uint64
}

// NewSkipBudget creates an empty registry-wide skip-pressure tracker.
func NewSkipBudget() *SkipBudget {
	return &SkipBudget{
		tooManyEvents:  make(map[string]uint64),
		replaysBlocked: make(map[string]uint64),
		ratchetSteps:   make(map[string]uint64),
	}
}

// ForPeer returns an observer that attributes its events to peerID. The
// returned observer forwards nothing else; compose it with another
// Observer via a caller-side wrapper if both are needed.
func (b *SkipBudget) ForPeer(peerID string) *peerObserver {
	return &peerObserver{budget: b, peerID: peerID}
}

// TooManySkippedCount returns how many times peerID has triggered
// TooManySkipped.
func (b *SkipBudget) TooManySkippedCount(peerID string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tooManyEvents[peerID]
}

// Exceeded reports whether peerID has triggered TooManySkipped at least
// threshold times, a simple circuit-breaker signal a caller can use to
// stop accepting further messages from a peer that keeps forcing large
// skip gaps.
func (b *SkipBudget) Exceeded(peerID string, threshold uint64) bool {
	return b.TooManySkippedCount(peerID) >= threshold
}

// Forget drops all recorded counters for peerID, e.g. after the
// registry removes its session.
func (b *SkipBudget) Forget(peerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tooManyEvents, peerID)
	delete(b.replaysBlocked, peerID)
	delete(b.ratchetSteps, peerID)
}

func (b *SkipBudget) recordTooManySkipped(peerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tooManyEvents[peerID]++
}

func (b *SkipBudget) recordReplayDetected(peerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replaysBlocked[peerID]++
}

func (b *SkipBudget) recordRatchetStep(peerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ratchetSteps[peerID]++
}

// peerObserver adapts a SkipBudget to the ratchet.Observer interface for
// one specific peer id.
type peerObserver struct {
	budget *SkipBudget
	peerID string
}

func (o *peerObserver) OnMessageSent(uint32)     {}
func (o *peerObserver) OnMessageReceived(uint32) {}
func (o *peerObserver) OnRatchetStep()           { o.budget.recordRatchetStep(o.peerID) }
func (o *peerObserver) OnReplayDetected()        { o.budget.recordReplayDetected(o.peerID) }
func (o *peerObserver) OnTooManySkipped()        { o.budget.recordTooManySkipped(o.peerID) }
func (o *peerObserver) OnProtocolError(error)    {}
func (o *peerObserver) OnSessionEnd()            { o.budget.Forget(o.peerID) }
