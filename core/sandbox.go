// Runtime resource tracking for in-flight evaluator invocations, tracking a
// single Run call rather than a long-lived VM instance. Never persisted to
// chain storage; diagnostics only.
package core

import (
	"sync"
	"sync/atomic"
)

// SandboxStatus is a diagnostic snapshot of one evaluator invocation.
type SandboxStatus struct {
	AlgoID       uint64
	MemoryPages  uint32
	GasLimit     uint64
	GasConsumed  uint64
	State        string
	StartedAtSeq uint64
}

// sandboxSeq hands out a monotonic sequence number standing in for a
// wall-clock start time, since this package must remain deterministic and
// may not read the clock.
var sandboxSeq uint64

// SandboxTracker records the status of in-flight evaluator invocations, for
// diagnostics only; a record is removed by Finish, which Run defers, so
// completed runs are not retained. It imposes no behavior on Run itself.
type SandboxTracker struct {
	mu      sync.Mutex
	current map[uint64]*SandboxStatus
}

// NewSandboxTracker returns an empty tracker.
func NewSandboxTracker() *SandboxTracker {
	return &SandboxTracker{current: make(map[uint64]*SandboxStatus)}
}

// Start records the beginning of an invocation and returns its sequence
// number, used to correlate the matching Finish call.
func (t *SandboxTracker) Start(algoID uint64, memoryPages uint32, gasLimit uint64) uint64 {
	seq := atomic.AddUint64(&sandboxSeq, 1)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current[seq] = &SandboxStatus{
		AlgoID:       algoID,
		MemoryPages:  memoryPages,
		GasLimit:     gasLimit,
		State:        stateLoaded.String(),
		StartedAtSeq: seq,
	}
	return seq
}

// Update refreshes the consumed-gas and state fields for a tracked
// invocation.
func (t *SandboxTracker) Update(seq uint64, consumed uint64, state string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.current[seq]; ok {
		s.GasConsumed = consumed
		s.State = state
	}
}

// Finish removes a tracked invocation, releasing its diagnostic record.
func (t *SandboxTracker) Finish(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.current, seq)
}

// Status returns a copy of the current status for seq, if still tracked.
func (t *SandboxTracker) Status(seq uint64) (SandboxStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.current[seq]
	if !ok {
		return SandboxStatus{}, false
	}
	return *s, true
}
