package ledger

import "fmt"

// Replay recomputes a hand's tip snapshot and chain hash from scratch by
// re-running Apply and the hasher over every successful finalized event in
// order, starting from initial; failed events are skipped. Each recomputed
// sequence number is checked against the event's recorded one. Hashes are
// not compared here: the returned hash is compared against the persisted
// snapshot's by the caller (the replay-check command), which treats a
// mismatch as a fatal integrity failure.
func Replay(committee Committee, hasher LedgerHasher, initial AnyTableSnapshot, events []FinalizedEnvelope) (AnyTableSnapshot, StateHash, error) {
	tip := initial
	hash := ZeroStateHash
	var seq SnapshotSeq

	for _, fe := range events {
		if !fe.Status.Success {
			continue
		}
		next, err := Apply(committee, tip, fe.Envelope)
		if err != nil {
			return tip, hash, fmt.Errorf("ledger: replay: re-applying sequence %d: %w", fe.Sequence, err)
		}
		seq++
		next.SnapshotSeq = seq
		next.PrevHash = hash
		hash = hasher.Hash(hash, next.Phase, seq, next)
		tip = next

		if seq != fe.Sequence {
			return tip, hash, fmt.Errorf("ledger: replay: sequence mismatch at event %d: expected %d, recomputed %d", fe.Sequence, fe.Sequence, seq)
		}
	}
	return tip, hash, nil
}
