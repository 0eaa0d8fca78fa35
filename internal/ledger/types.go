// Package ledger implements the append-only, hash-chained ledger that
// backs a single mental-poker hand: canonical identities, the signed
// message envelope, phase-typed snapshots, and the hasher that chains them.
package ledger

import "fmt"

type (
	GameId     int64
	HandId     int64
	ShufflerId int64
	PlayerId   int64
	SeatId     int32
)

// EntityKind distinguishes the two kinds of actor that can hold a
// per-(hand, entity) nonce and sign messages: a seated player or a
// committee shuffler.
type EntityKind uint8

const (
	EntityKindPlayer EntityKind = iota
	EntityKindShuffler
)

func (k EntityKind) String() string {
	switch k {
	case EntityKindPlayer:
		return "player"
	case EntityKindShuffler:
		return "shuffler"
	default:
		return fmt.Sprintf("EntityKind(%d)", uint8(k))
	}
}

// NonceKey is the key for per-actor monotonic nonces.
type NonceKey struct {
	HandId     HandId
	EntityKind EntityKind
	EntityId   int64
}

// HandStatus is the coarse lifecycle status of a hand row, independent of
// the fine-grained snapshot Phase.
type HandStatus uint8

const (
	HandStatusPending HandStatus = iota
	HandStatusShuffling
	HandStatusDealing
	HandStatusBetting
	HandStatusShowdown
	HandStatusComplete
	HandStatusCancelled
)

func (s HandStatus) String() string {
	switch s {
	case HandStatusPending:
		return "pending"
	case HandStatusShuffling:
		return "shuffling"
	case HandStatusDealing:
		return "dealing"
	case HandStatusBetting:
		return "betting"
	case HandStatusShowdown:
		return "showdown"
	case HandStatusComplete:
		return "complete"
	case HandStatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("HandStatus(%d)", uint8(s))
	}
}

// Phase is the state-machine tag on a snapshot: Shuffling, Dealing,
// Preflop, Flop, Turn, River, Showdown, Complete.
type Phase uint8

const (
	PhaseShuffling Phase = iota
	PhaseDealing
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseShuffling:
		return "shuffling"
	case PhaseDealing:
		return "dealing"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// EventPhase tags a finalised event's resulting phase, with one additional
// value (Reveals) that does not correspond to any snapshot Phase: it marks
// events that only advance the per-card reveal state within Showdown without
// moving the hand to a new top-level phase. Carried from the source's
// asymmetric EventPhase/HandStatus enums rather than reconciled away, since
// collapsing it would lose the ability to tell "just revealed a card"
// apart from "phase transitioned" in the event log.
type EventPhase uint8

const (
	EventPhasePending EventPhase = iota
	EventPhaseShuffling
	EventPhaseDealing
	EventPhaseBetting
	EventPhaseReveals
	EventPhaseShowdown
	EventPhaseComplete
	EventPhaseCancelled
)

// SnapshotSeq is the strictly-increasing per-hand snapshot sequence number.
type SnapshotSeq uint32

// StateHash is a 32-byte chain commitment.
type StateHash [32]byte

var ZeroStateHash = StateHash{}

func (h StateHash) Bytes() []byte { return h[:] }

func (h StateHash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func StateHashFromBytes(b []byte) (StateHash, error) {
	var h StateHash
	if len(b) != 32 {
		return h, fmt.Errorf("ledger: state hash must be 32 bytes, got %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Status is the outcome of a finalised event: success, or a named failure
// reason that was persisted for audit without mutating the tip.
type Status struct {
	Success bool
	Reason  string
}

func Success() Status       { return Status{Success: true} }
func Failure(reason string) Status { return Status{Success: false, Reason: reason} }
