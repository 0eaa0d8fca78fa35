package ledger

import (
	"onchainpoker/internal/betting"
	"onchainpoker/internal/ocpcrypto"
	"onchainpoker/internal/showdown"
)

// CardSlot is the state of a single position in the 52-card encrypted
// deck as it moves through shuffling, dealing, and (possibly) showdown
// reveal.
type CardSlot struct {
	Ciphertext ocpcrypto.ElGamalCiphertext
	// TargetSeat is set once a position has been earmarked for a
	// specific seat's hole cards or for the board; Seat zero with
	// IsBoard false means the position is still an undealt deck card.
	TargetSeat SeatId
	IsBoard    bool
	Dealt      bool
	Revealed   bool
	RevealedAs showdown.Index
}

// ShuffleRecord is one shuffler's contribution to the chained shuffle,
// kept so a verifier can replay ShuffleVerify against the prior round's
// output deck.
type ShuffleRecord struct {
	ShufflerId ShufflerId
	DeckOut    []ocpcrypto.ElGamalCiphertext
	ProofBytes []byte
}

// AnyTableSnapshot is the full phase-tagged state of a single hand at one
// point in its ledger. A hand only ever occupies one Phase at a time; the
// fields below are populated progressively as the hand advances through
// Shuffling -> Dealing -> Preflop..River -> Showdown -> Complete, mirroring
// the source's per-phase snapshot variants collapsed into one struct with
// a phase discriminant, the same shape actor.go and messages.go use for
// their own tagged unions.
type AnyTableSnapshot struct {
	HandId HandId
	GameId GameId
	Phase  Phase

	CommitteeKey ocpcrypto.Point
	Shuffles     []ShuffleRecord
	Deck         [52]CardSlot

	Betting betting.State

	Board        []showdown.Card
	HoleBySeat   map[SeatId][2]showdown.Card
	Winners      []SeatId
	WinnerScores map[SeatId]uint32

	SnapshotSeq SnapshotSeq
	PrevHash    StateHash
}

// Clone returns a deep copy so Apply can compute a candidate next state
// without mutating the caller's snapshot on a failed validation.
func (s AnyTableSnapshot) Clone() AnyTableSnapshot {
	out := s
	out.Shuffles = append([]ShuffleRecord{}, s.Shuffles...)
	out.Deck = s.Deck
	out.Betting.Seats = append([]betting.PlayerState{}, s.Betting.Seats...)
	out.Betting.Pots.Sides = append([]betting.Pot{}, s.Betting.Pots.Sides...)
	out.Board = append([]showdown.Card{}, s.Board...)
	out.HoleBySeat = make(map[SeatId][2]showdown.Card, len(s.HoleBySeat))
	for k, v := range s.HoleBySeat {
		out.HoleBySeat[k] = v
	}
	out.Winners = append([]SeatId{}, s.Winners...)
	out.WinnerScores = make(map[SeatId]uint32, len(s.WinnerScores))
	for k, v := range s.WinnerScores {
		out.WinnerScores[k] = v
	}
	return out
}

// NewTableSnapshot constructs the initial (pre-shuffle) snapshot for a
// fresh hand, seeding the deck with the committee's encryption of every
// card index 1..52 under committeeKey, and the betting engine with seats
// already posted blinds by the caller.
func NewTableSnapshot(handID HandId, gameID GameId, committeeKey ocpcrypto.Point, initialDeck [52]ocpcrypto.ElGamalCiphertext, bettingState betting.State) AnyTableSnapshot {
	var deck [52]CardSlot
	for i := range deck {
		deck[i] = CardSlot{Ciphertext: initialDeck[i]}
	}
	return AnyTableSnapshot{
		HandId:       handID,
		GameId:       gameID,
		Phase:        PhaseShuffling,
		CommitteeKey: committeeKey,
		Deck:         deck,
		Betting:      bettingState,
		HoleBySeat:   map[SeatId][2]showdown.Card{},
		WinnerScores: map[SeatId]uint32{},
	}
}
