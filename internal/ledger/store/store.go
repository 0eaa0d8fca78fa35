// Package store defines the persistence interfaces the ledger worker
// depends on, plus in-memory implementations suitable for tests and the
// single-process default deployment. A Postgres-backed implementation of
// the same interfaces lives in the storepg package.
package store

import (
	"context"

	deadlock "github.com/sasha-s/go-deadlock"

	"onchainpoker/internal/ledger"
)

// EventStore appends and replays the finalized envelope log for a hand.
type EventStore interface {
	Append(ctx context.Context, hand ledger.HandId, fe ledger.FinalizedEnvelope) error
	Replay(ctx context.Context, hand ledger.HandId) ([]ledger.FinalizedEnvelope, error)
}

// SnapshotStore reads and writes the latest materialized snapshot and its
// chained state hash for a hand.
type SnapshotStore interface {
	Save(ctx context.Context, hand ledger.HandId, snap ledger.AnyTableSnapshot, hash ledger.StateHash) error
	Load(ctx context.Context, hand ledger.HandId) (ledger.AnyTableSnapshot, ledger.StateHash, bool, error)
}

// MemoryEventStore is an in-memory EventStore keyed by hand, append-only
// within a process lifetime.
type MemoryEventStore struct {
	mu  deadlock.Mutex
	log map[ledger.HandId][]ledger.FinalizedEnvelope
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{log: map[ledger.HandId][]ledger.FinalizedEnvelope{}}
}

func (s *MemoryEventStore) Append(_ context.Context, hand ledger.HandId, fe ledger.FinalizedEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log[hand] = append(s.log[hand], fe)
	return nil
}

func (s *MemoryEventStore) Replay(_ context.Context, hand ledger.HandId) ([]ledger.FinalizedEnvelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]ledger.FinalizedEnvelope{}, s.log[hand]...)
	return out, nil
}

type snapshotEntry struct {
	snap ledger.AnyTableSnapshot
	hash ledger.StateHash
}

// MemorySnapshotStore is an in-memory SnapshotStore holding only the
// latest snapshot per hand, mirroring the Postgres implementation's
// upsert-on-tip behavior.
type MemorySnapshotStore struct {
	mu   deadlock.Mutex
	tips map[ledger.HandId]snapshotEntry
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{tips: map[ledger.HandId]snapshotEntry{}}
}

func (s *MemorySnapshotStore) Save(_ context.Context, hand ledger.HandId, snap ledger.AnyTableSnapshot, hash ledger.StateHash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tips[hand] = snapshotEntry{snap: snap, hash: hash}
	return nil
}

func (s *MemorySnapshotStore) Load(_ context.Context, hand ledger.HandId) (ledger.AnyTableSnapshot, ledger.StateHash, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tips[hand]
	if !ok {
		return ledger.AnyTableSnapshot{}, ledger.ZeroStateHash, false, nil
	}
	return e.snap, e.hash, true, nil
}
