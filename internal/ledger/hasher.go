package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"onchainpoker/internal/betting"
	"onchainpoker/internal/ocpcrypto"
)

// LedgerHasher computes the chained state hash for a finalized snapshot.
// Kept as an interface, matching the source's AppHash being a method any
// state implementation can override, so a test double can swap in a
// cheaper or deliberately-wrong hasher.
type LedgerHasher interface {
	Hash(prev StateHash, phase Phase, seq SnapshotSeq, snap AnyTableSnapshot) StateHash
}

// Sha256Hasher is the default LedgerHasher: SHA-256 over
// prev_hash || phase_tag || sequence || canonical_bytes(snapshot).
type Sha256Hasher struct{}

func (Sha256Hasher) Hash(prev StateHash, phase Phase, seq SnapshotSeq, snap AnyTableSnapshot) StateHash {
	h := sha256.New()
	h.Write(prev.Bytes())
	h.Write([]byte{byte(phase)})
	var seqBuf [4]byte
	binary.LittleEndian.PutUint32(seqBuf[:], uint32(seq))
	h.Write(seqBuf[:])
	h.Write(canonicalSnapshotBytes(snap))
	var out StateHash
	copy(out[:], h.Sum(nil))
	return out
}

// canonicalSnapshotBytes normalizes snap's map-valued fields (HoleBySeat,
// WinnerScores) into sorted-by-key slices before hashing, following the
// source's AppHash technique of flattening Go's non-deterministic map
// iteration order into sorted key-value slices so the same logical state
// always hashes identically regardless of map internals.
func canonicalSnapshotBytes(snap AnyTableSnapshot) []byte {
	var out []byte
	appendU64 := func(x uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], x)
		out = append(out, b[:]...)
	}
	appendU32 := func(x uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], x)
		out = append(out, b[:]...)
	}

	appendU64(uint64(snap.HandId))
	appendU64(uint64(snap.GameId))
	out = append(out, byte(snap.Phase))
	out = append(out, snap.CommitteeKey.Bytes()...)

	appendU32(uint32(len(snap.Shuffles)))
	for _, sh := range snap.Shuffles {
		appendU64(uint64(sh.ShufflerId))
		appendU32(uint32(len(sh.DeckOut)))
		for _, ct := range sh.DeckOut {
			out = append(out, ct.C1.Bytes()...)
			out = append(out, ct.C2.Bytes()...)
		}
		out = append(out, sh.ProofBytes...)
	}

	for _, slot := range snap.Deck {
		out = append(out, slot.Ciphertext.C1.Bytes()...)
		out = append(out, slot.Ciphertext.C2.Bytes()...)
		appendU32(uint32(slot.TargetSeat))
		var flags byte
		if slot.IsBoard {
			flags |= 1
		}
		if slot.Dealt {
			flags |= 2
		}
		if slot.Revealed {
			flags |= 4
		}
		out = append(out, flags, byte(slot.RevealedAs))
	}

	out = append(out, canonicalBettingBytes(snap.Betting)...)

	appendU32(uint32(len(snap.Board)))
	for _, c := range snap.Board {
		out = append(out, c.Rank, byte(c.Suit))
	}

	seats := make([]int32, 0, len(snap.HoleBySeat))
	for s := range snap.HoleBySeat {
		seats = append(seats, int32(s))
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i] < seats[j] })
	appendU32(uint32(len(seats)))
	for _, s := range seats {
		appendU32(uint32(s))
		hole := snap.HoleBySeat[SeatId(s)]
		out = append(out, hole[0].Rank, byte(hole[0].Suit), hole[1].Rank, byte(hole[1].Suit))
	}

	winners := append([]SeatId{}, snap.Winners...)
	sort.Slice(winners, func(i, j int) bool { return winners[i] < winners[j] })
	appendU32(uint32(len(winners)))
	for _, s := range winners {
		appendU32(uint32(s))
	}

	scoreSeats := make([]int32, 0, len(snap.WinnerScores))
	for s := range snap.WinnerScores {
		scoreSeats = append(scoreSeats, int32(s))
	}
	sort.Slice(scoreSeats, func(i, j int) bool { return scoreSeats[i] < scoreSeats[j] })
	appendU32(uint32(len(scoreSeats)))
	for _, s := range scoreSeats {
		appendU32(uint32(s))
		appendU32(snap.WinnerScores[SeatId(s)])
	}

	return out
}

func canonicalBettingBytes(s betting.State) []byte {
	var out []byte
	appendU64 := func(x uint64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], x)
		out = append(out, b[:]...)
	}
	appendU32 := func(x uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], x)
		out = append(out, b[:]...)
	}

	appendU32(uint32(len(s.Seats)))
	for _, p := range s.Seats {
		appendU32(uint32(p.Seat))
		appendU64(uint64(p.Stack))
		appendU64(uint64(p.CommittedThisRound))
		appendU64(uint64(p.CommittedTotal))
		out = append(out, byte(p.Status))
		if p.HasActed {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	out = append(out, byte(s.Street))
	appendU32(uint32(s.Button))
	appendU32(uint32(s.BigBlindSeat))
	appendU64(uint64(s.BigBlind))
	appendU64(uint64(s.CurrentBetToMatch))
	appendU64(uint64(s.LastFullRaiseAmount))
	if s.LastAggressor != nil {
		out = append(out, 1)
		appendU32(uint32(*s.LastAggressor))
	} else {
		out = append(out, 0)
	}
	if s.ToAct != nil {
		out = append(out, 1)
		appendU32(uint32(*s.ToAct))
	} else {
		out = append(out, 0)
	}

	appendPot := func(p betting.Pot) {
		appendU64(uint64(p.Amount))
		seats := make([]int32, 0, len(p.Eligible))
		for seat := range p.Eligible {
			seats = append(seats, int32(seat))
		}
		sort.Slice(seats, func(i, j int) bool { return seats[i] < seats[j] })
		appendU32(uint32(len(seats)))
		for _, seat := range seats {
			appendU32(uint32(seat))
		}
	}
	appendPot(s.Pots.Main)
	appendU32(uint32(len(s.Pots.Sides)))
	for _, side := range s.Pots.Sides {
		appendPot(side)
	}

	return out
}

var _ ocpcrypto.Point
