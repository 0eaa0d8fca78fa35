// Package storepg implements store.EventStore and store.SnapshotStore
// against Postgres via pgx, for deployments that need the ledger to
// survive a process restart and be queryable by the query package.
package storepg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"onchainpoker/internal/ledger"
)

// EventStore persists the finalized envelope log as one row per event,
// keyed by (hand_id, seq) and read back in seq order within a hand.
type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS ledger_events (
	hand_id    BIGINT NOT NULL,
	seq        BIGINT NOT NULL,
	phase      SMALLINT NOT NULL,
	status_ok  BOOLEAN NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	envelope   JSONB NOT NULL,
	PRIMARY KEY (hand_id, seq)
)`

func (s *EventStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createEventsTable)
	return err
}

func (s *EventStore) Append(ctx context.Context, hand ledger.HandId, fe ledger.FinalizedEnvelope) error {
	payload, err := json.Marshal(fe.Envelope)
	if err != nil {
		return fmt.Errorf("storepg: marshal envelope: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO ledger_events (hand_id, seq, phase, status_ok, reason, envelope)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (hand_id, seq) DO NOTHING`,
		int64(hand), int64(fe.Sequence), int16(fe.Phase), fe.Status.Success, fe.Status.Reason, payload)
	if err != nil {
		return fmt.Errorf("storepg: append event: %w", err)
	}
	return nil
}

func (s *EventStore) Replay(ctx context.Context, hand ledger.HandId) ([]ledger.FinalizedEnvelope, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT seq, phase, status_ok, reason, envelope FROM ledger_events WHERE hand_id = $1 ORDER BY seq ASC`,
		int64(hand))
	if err != nil {
		return nil, fmt.Errorf("storepg: replay query: %w", err)
	}
	defer rows.Close()

	var out []ledger.FinalizedEnvelope
	for rows.Next() {
		var seq int64
		var phase int16
		var ok bool
		var reason string
		var payload []byte
		if err := rows.Scan(&seq, &phase, &ok, &reason, &payload); err != nil {
			return nil, fmt.Errorf("storepg: scan event: %w", err)
		}
		var env ledger.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, fmt.Errorf("storepg: unmarshal envelope: %w", err)
		}
		out = append(out, ledger.FinalizedEnvelope{
			Envelope: env,
			Sequence: ledger.SnapshotSeq(seq),
			Status:   ledger.Status{Success: ok, Reason: reason},
			Phase:    ledger.EventPhase(phase),
		})
	}
	return out, rows.Err()
}

// SnapshotStore persists one row per hand, upserted on every finalized
// event, holding the latest materialized snapshot and chain hash.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS ledger_snapshots (
	hand_id  BIGINT PRIMARY KEY,
	hash     BYTEA NOT NULL,
	snapshot JSONB NOT NULL
)`

func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createSnapshotsTable)
	return err
}

// snapshotJSON is the wire shape for AnyTableSnapshot; fields that are
// cryptographic point/ciphertext types rely on their own json.Marshaler
// implementations elsewhere in ocpcrypto.
type snapshotJSON = ledger.AnyTableSnapshot

func (s *SnapshotStore) Save(ctx context.Context, hand ledger.HandId, snap ledger.AnyTableSnapshot, hash ledger.StateHash) error {
	payload, err := json.Marshal(snapshotJSON(snap))
	if err != nil {
		return fmt.Errorf("storepg: marshal snapshot: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO ledger_snapshots (hand_id, hash, snapshot) VALUES ($1, $2, $3)
		 ON CONFLICT (hand_id) DO UPDATE SET hash = EXCLUDED.hash, snapshot = EXCLUDED.snapshot`,
		int64(hand), hash.Bytes(), payload)
	if err != nil {
		return fmt.Errorf("storepg: save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, hand ledger.HandId) (ledger.AnyTableSnapshot, ledger.StateHash, bool, error) {
	var hashBytes []byte
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT hash, snapshot FROM ledger_snapshots WHERE hand_id = $1`, int64(hand)).
		Scan(&hashBytes, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.AnyTableSnapshot{}, ledger.ZeroStateHash, false, nil
		}
		return ledger.AnyTableSnapshot{}, ledger.ZeroStateHash, false, fmt.Errorf("storepg: load snapshot: %w", err)
	}
	hash, err := ledger.StateHashFromBytes(hashBytes)
	if err != nil {
		return ledger.AnyTableSnapshot{}, ledger.ZeroStateHash, false, err
	}
	var snap snapshotJSON
	if err := json.Unmarshal(payload, &snap); err != nil {
		return ledger.AnyTableSnapshot{}, ledger.ZeroStateHash, false, fmt.Errorf("storepg: unmarshal snapshot: %w", err)
	}
	return ledger.AnyTableSnapshot(snap), hash, true, nil
}
