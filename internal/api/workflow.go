package api

import (
	"sync"
	"sync/atomic"

	"passkey-wallet-gateway/internal/balance"
	"passkey-wallet-gateway/internal/transfer"
	"passkey-wallet-gateway/internal/wallet"
)

// Workflow bundles one integration variant: its capability provider, its
// balance tracker and its submitter. One submission may be in flight per
// workflow; the handler enforces that with the inFlight flag, so the
// submitter itself stays queue-free.
type Workflow struct {
	Provider  wallet.Provider
	Tracker   *balance.Tracker
	Submitter *transfer.Submitter

	inFlight    atomic.Bool
	mu          sync.Mutex
	lastOutcome *transfer.Outcome
}

func NewWorkflow(provider wallet.Provider, tracker *balance.Tracker, submitter *transfer.Submitter) *Workflow {
	return &Workflow{
		Provider:  provider,
		Tracker:   tracker,
		Submitter: submitter,
	}
}

// Begin marks a submission as in flight. It reports false when another
// submission has not resolved yet.
func (w *Workflow) Begin() bool {
	return w.inFlight.CompareAndSwap(false, true)
}

func (w *Workflow) End() {
	w.inFlight.Store(false)
}

// RecordOutcome stores the terminal result of the latest attempt. The
// outcome is recorded even when the client that initiated the attempt is
// gone; the next status poll re-surfaces it.
func (w *Workflow) RecordOutcome(outcome transfer.Outcome) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastOutcome = &outcome
}

func (w *Workflow) LastOutcome() *transfer.Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastOutcome
}

// ClearOutcome discards any recorded outcome, part of the disconnect
// cleanup.
func (w *Workflow) ClearOutcome() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastOutcome = nil
}
