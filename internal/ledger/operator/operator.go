// Package operator is the façade a transport layer (httpapi, lobby,
// coordinator) talks to: Start brings a hand's worker up from its persisted
// snapshot (or the caller's initial snapshot when none is persisted) and
// does not replay the event log; Submit hands an incoming envelope to the
// hand's queue without verifying it, and verification runs in the worker
// when the envelope is popped.
package operator

import (
	"context"
	"fmt"

	cmtlog "cosmossdk.io/log"
	deadlock "github.com/sasha-s/go-deadlock"

	"onchainpoker/internal/ledger"
	"onchainpoker/internal/ledger/queue"
	"onchainpoker/internal/ledger/store"
	"onchainpoker/internal/ledger/verifier"
	"onchainpoker/internal/ledger/worker"
)

// Operator owns the set of live hand workers in this process.
type Operator struct {
	mu     deadlock.Mutex
	hands  map[ledger.HandId]*handEntry
	events store.EventStore
	snaps  store.SnapshotStore
	log    cmtlog.Logger
}

type handEntry struct {
	worker *worker.Worker
	queue  *queue.Queue
	cancel context.CancelFunc
}

func New(events store.EventStore, snaps store.SnapshotStore, log cmtlog.Logger) *Operator {
	return &Operator{hands: map[ledger.HandId]*handEntry{}, events: events, snaps: snaps, log: log}
}

// Start brings up a worker for hand, seeding it from the persisted
// snapshot if one exists or from initial otherwise, then launches the
// worker's loop in the background. Full event-log replay (recomputing the
// tip from scratch rather than trusting the saved snapshot) is handled
// separately by the replay-check command, which exists precisely to
// catch a snapshot store that has drifted from its event log.
func (o *Operator) Start(ctx context.Context, hand ledger.HandId, initial ledger.AnyTableSnapshot, committee ledger.Committee, reg verifier.Registry) error {
	o.mu.Lock()
	if _, exists := o.hands[hand]; exists {
		o.mu.Unlock()
		return fmt.Errorf("operator: hand %d already started", hand)
	}
	o.mu.Unlock()

	seed := initial
	if saved, _, ok, err := o.snaps.Load(ctx, hand); err != nil {
		return fmt.Errorf("operator: load snapshot: %w", err)
	} else if ok {
		seed = saved
	}

	q := queue.New()
	w := worker.New(hand, seed, committee, reg, q, o.events, o.snaps, o.log)

	runCtx, cancel := context.WithCancel(ctx)
	entry := &handEntry{worker: w, queue: q, cancel: cancel}

	o.mu.Lock()
	o.hands[hand] = entry
	o.mu.Unlock()

	go func() {
		if err := w.Run(runCtx); err != nil {
			o.log.Error("worker loop exited", "hand", hand, "err", err)
		}
	}()
	return nil
}

// Submit hands env to hand's queue if the hand has a running worker.
func (o *Operator) Submit(hand ledger.HandId, env ledger.Envelope) error {
	o.mu.Lock()
	entry, ok := o.hands[hand]
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("operator: hand %d not started", hand)
	}
	return entry.queue.Push(env)
}

// Tip returns the live in-memory tip for hand, if it has a running
// worker.
func (o *Operator) Tip(hand ledger.HandId) (ledger.AnyTableSnapshot, ledger.StateHash, bool) {
	o.mu.Lock()
	entry, ok := o.hands[hand]
	o.mu.Unlock()
	if !ok {
		return ledger.AnyTableSnapshot{}, ledger.ZeroStateHash, false
	}
	snap, hash := entry.worker.Tip()
	return snap, hash, true
}

// Stop cancels hand's worker loop and closes its queue.
func (o *Operator) Stop(hand ledger.HandId) {
	o.mu.Lock()
	entry, ok := o.hands[hand]
	delete(o.hands, hand)
	o.mu.Unlock()
	if !ok {
		return
	}
	entry.cancel()
	entry.queue.Close()
}
