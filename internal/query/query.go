// Package query implements the two read-only operations the HTTP surface
// needs: the latest snapshot for a hand, and the finalized messages in a
// sequence range, each served out of the ledger stores directly so the
// query layer carries no business logic of its own.
package query

import (
	"context"
	"fmt"

	"onchainpoker/internal/ledger"
	"onchainpoker/internal/ledger/operator"
	"onchainpoker/internal/ledger/store"
)

// Service answers read queries against a hand's persisted and live state.
type Service struct {
	operator  *operator.Operator
	events    store.EventStore
	snapshots store.SnapshotStore
}

func New(op *operator.Operator, events store.EventStore, snapshots store.SnapshotStore) *Service {
	return &Service{operator: op, events: events, snapshots: snapshots}
}

// LatestSnapshot prefers the live in-memory tip from a running worker,
// falling back to the persisted snapshot store for a hand with no
// running worker (e.g. after a restart, before Start has been called).
func (s *Service) LatestSnapshot(ctx context.Context, hand ledger.HandId) (ledger.AnyTableSnapshot, ledger.StateHash, error) {
	if snap, hash, ok := s.operator.Tip(hand); ok {
		return snap, hash, nil
	}
	snap, hash, ok, err := s.snapshots.Load(ctx, hand)
	if err != nil {
		return ledger.AnyTableSnapshot{}, ledger.ZeroStateHash, fmt.Errorf("query: load snapshot: %w", err)
	}
	if !ok {
		return ledger.AnyTableSnapshot{}, ledger.ZeroStateHash, fmt.Errorf("query: no snapshot for hand %d", hand)
	}
	return snap, hash, nil
}

// MessagesInRange returns finalized envelopes for hand with sequence in
// [from, to], inclusive. A to of zero means "through the latest".
func (s *Service) MessagesInRange(ctx context.Context, hand ledger.HandId, from, to ledger.SnapshotSeq) ([]ledger.FinalizedEnvelope, error) {
	all, err := s.events.Replay(ctx, hand)
	if err != nil {
		return nil, fmt.Errorf("query: replay events: %w", err)
	}
	var out []ledger.FinalizedEnvelope
	for _, fe := range all {
		if fe.Sequence < from {
			continue
		}
		if to != 0 && fe.Sequence > to {
			break
		}
		out = append(out, fe)
	}
	return out, nil
}
