// Package worker implements the single-writer loop that owns a hand's
// chain: pop an envelope off its queue, verify it, apply it, persist the
// result, advance the in-memory tip, and broadcast the outcome to anyone
// subscribed for updates. A hand's worker is the only writer to that
// hand's snapshot and event log, so no locking is needed around Apply
// itself.
package worker

import (
	"context"
	"fmt"

	cmtlog "cosmossdk.io/log"

	"onchainpoker/internal/ledger"
	"onchainpoker/internal/ledger/queue"
	"onchainpoker/internal/ledger/store"
	"onchainpoker/internal/ledger/verifier"
)

// Broadcaster fans out a finalized envelope to whatever live subscribers
// a hand has (websocket clients, SSE streams); the worker does not care
// how it is implemented.
type Broadcaster interface {
	Broadcast(hand ledger.HandId, fe ledger.FinalizedEnvelope, snap ledger.AnyTableSnapshot)
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(ledger.HandId, ledger.FinalizedEnvelope, ledger.AnyTableSnapshot) {}

// Worker drives a single hand's ledger loop.
type Worker struct {
	Hand      ledger.HandId
	Committee ledger.Committee
	Registry  verifier.Registry
	Queue     *queue.Queue
	Events    store.EventStore
	Snapshots store.SnapshotStore
	Hasher    ledger.LedgerHasher
	Broadcast Broadcaster
	Log       cmtlog.Logger

	tip     ledger.AnyTableSnapshot
	tipHash ledger.StateHash
	seq     ledger.SnapshotSeq
}

// New constructs a Worker seeded with the hand's initial snapshot, with
// Hasher set to Sha256Hasher and Broadcast set to a no-op broadcaster.
func New(hand ledger.HandId, initial ledger.AnyTableSnapshot, committee ledger.Committee, reg verifier.Registry, q *queue.Queue, events store.EventStore, snaps store.SnapshotStore, log cmtlog.Logger) *Worker {
	return &Worker{
		Hand:      hand,
		Committee: committee,
		Registry:  reg,
		Queue:     q,
		Events:    events,
		Snapshots: snaps,
		Hasher:    ledger.Sha256Hasher{},
		Broadcast: noopBroadcaster{},
		Log:       log,
		tip:       initial,
		tipHash:   ledger.ZeroStateHash,
	}
}

// Run pops envelopes until ctx is cancelled or the queue is closed,
// applying each in turn. It never returns an error for a rejected
// envelope: rejections are logged and recorded as a failed event, and the
// loop continues with the next envelope.
func (w *Worker) Run(ctx context.Context) error {
	for {
		env, ok, err := w.Queue.Pop(ctx)
		if err != nil {
			return fmt.Errorf("worker: pop: %w", err)
		}
		if !ok {
			return nil
		}
		w.step(ctx, env)
	}
}

func (w *Worker) step(ctx context.Context, env ledger.Envelope) {
	if verr := verifier.Verify(w.Registry, w.tip.Phase, env); verr != nil {
		w.finalize(ctx, env, ledger.Failure(verr.Error()))
		w.Log.Error("envelope rejected", "hand", w.Hand, "kind", verr.Kind, "reason", verr.Reason)
		return
	}

	next, err := ledger.Apply(w.Committee, w.tip, env)
	if err != nil {
		w.finalize(ctx, env, ledger.Failure(err.Error()))
		w.Log.Error("apply rejected", "hand", w.Hand, "err", err)
		return
	}

	w.seq++
	next.SnapshotSeq = w.seq
	next.PrevHash = w.tipHash
	nextHash := w.Hasher.Hash(w.tipHash, next.Phase, w.seq, next)

	if err := w.Snapshots.Save(ctx, w.Hand, next, nextHash); err != nil {
		w.Log.Error("snapshot save failed", "hand", w.Hand, "err", err)
		return
	}

	w.tip = next
	w.tipHash = nextHash
	w.finalize(ctx, env, ledger.Success())
}

func (w *Worker) finalize(ctx context.Context, env ledger.Envelope, status ledger.Status) {
	fe := ledger.FinalizedEnvelope{
		Envelope: env,
		Sequence: w.seq,
		Status:   status,
		Phase:    eventPhaseFor(status, w.tip.Phase),
	}
	if err := w.Events.Append(ctx, w.Hand, fe); err != nil {
		w.Log.Error("event append failed", "hand", w.Hand, "err", err)
	}
	w.Broadcast.Broadcast(w.Hand, fe, w.tip)
}

func eventPhaseFor(status ledger.Status, phase ledger.Phase) ledger.EventPhase {
	if !status.Success {
		return ledger.EventPhaseCancelled
	}
	switch phase {
	case ledger.PhaseShuffling:
		return ledger.EventPhaseShuffling
	case ledger.PhaseDealing:
		return ledger.EventPhaseDealing
	case ledger.PhasePreflop, ledger.PhaseFlop, ledger.PhaseTurn, ledger.PhaseRiver:
		return ledger.EventPhaseBetting
	case ledger.PhaseShowdown:
		return ledger.EventPhaseShowdown
	case ledger.PhaseComplete:
		return ledger.EventPhaseComplete
	default:
		return ledger.EventPhasePending
	}
}

// Tip returns the worker's current in-memory snapshot and chain hash.
func (w *Worker) Tip() (ledger.AnyTableSnapshot, ledger.StateHash) {
	return w.tip, w.tipHash
}
