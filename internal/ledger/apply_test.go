package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"onchainpoker/internal/betting"
	"onchainpoker/internal/ocpcrypto"
	"onchainpoker/internal/ocpshuffle"
	"onchainpoker/internal/showdown"
	"onchainpoker/internal/signing"
)

// unsigned wraps a message with a zero-value signature. Apply itself
// never checks signatures; that is verifier.Verify's job upstream of the
// worker loop, so tests that only exercise Apply can skip signing.
func unsigned(m AnyGameMessage) signing.WithSignature[AnyGameMessage] {
	return signing.WithSignature[AnyGameMessage]{Value: m}
}

func encryptedDeck(t *testing.T, pk ocpcrypto.Point) [52]ocpcrypto.ElGamalCiphertext {
	t.Helper()
	var deck [52]ocpcrypto.ElGamalCiphertext
	for i := 0; i < 52; i++ {
		m := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(uint64(i + 1)))
		r := ocpcrypto.ScalarFromUint64(uint64(9000 + i))
		ct, err := ocpcrypto.ElGamalEncrypt(pk, m, r)
		require.NoError(t, err)
		deck[i] = ct
	}
	return deck
}

func twoSeatPreflopState() betting.State {
	seats := []betting.PlayerState{
		{Seat: 0, Stack: 980, CommittedThisRound: 10, CommittedTotal: 10, Status: betting.StatusActive},
		{Seat: 1, Stack: 960, CommittedThisRound: 20, CommittedTotal: 20, Status: betting.StatusActive},
	}
	s := betting.State{
		Seats:               seats,
		Street:              betting.StreetPreflop,
		Button:              0,
		BigBlindSeat:        1,
		BigBlind:            20,
		CurrentBetToMatch:   20,
		LastFullRaiseAmount: 20,
	}
	s.RecomputePots()
	toAct := betting.SeatId(0)
	s.ToAct = &toAct
	return s
}

func TestApplyShuffleAdvancesPhaseOnceEveryShufflerHasContributed(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(42)
	pk := ocpcrypto.MulBase(sk)
	inputDeck := encryptedDeck(t, pk)

	committee := Committee{Key: pk, PublicShares: map[ShufflerId]ocpcrypto.Point{1: pk}}
	snap := NewTableSnapshot(1, 1, pk, inputDeck, betting.State{})

	result, err := ocpshuffle.ShuffleProve(ocpshuffle.ShuffleProveOpts{Seed: []byte("seed-1"), Rounds: 4}, inputDeck[:], pk)
	require.NoError(t, err)

	env := Envelope{
		HandId: 1,
		GameId: 1,
		Actor:  ShufflerActor(1, CanonicalKey{}),
		Message: unsigned(AnyGameMessage{
			Kind: MessageShuffle,
			Shuffle: GameShuffleMessage{
				DeckOut:    result.DeckOut,
				ProofBytes: result.ProofBytes,
			},
		}),
	}

	next, err := Apply(committee, snap, env)
	require.NoError(t, err)
	require.Equal(t, PhaseDealing, next.Phase)
	require.Len(t, next.Shuffles, 1)
}

func TestApplyShuffleRejectsTamperedProof(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(42)
	pk := ocpcrypto.MulBase(sk)
	inputDeck := encryptedDeck(t, pk)

	committee := Committee{Key: pk, PublicShares: map[ShufflerId]ocpcrypto.Point{1: pk}}
	snap := NewTableSnapshot(1, 1, pk, inputDeck, betting.State{})

	result, err := ocpshuffle.ShuffleProve(ocpshuffle.ShuffleProveOpts{Seed: []byte("seed-2"), Rounds: 4}, inputDeck[:], pk)
	require.NoError(t, err)
	tampered := append([]byte{}, result.ProofBytes...)
	tampered[0] ^= 0xff

	env := Envelope{
		HandId: 1,
		GameId: 1,
		Actor:  ShufflerActor(1, CanonicalKey{}),
		Message: unsigned(AnyGameMessage{
			Kind: MessageShuffle,
			Shuffle: GameShuffleMessage{
				DeckOut:    result.DeckOut,
				ProofBytes: tampered,
			},
		}),
	}

	_, err = Apply(committee, snap, env)
	require.Error(t, err)
}

func TestApplyRejectsMessageForWrongPhase(t *testing.T) {
	pk := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(1))
	snap := NewTableSnapshot(1, 1, pk, encryptedDeck(t, pk), betting.State{})
	snap.Phase = PhasePreflop

	env := Envelope{
		HandId: 1,
		GameId: 1,
		Actor:  ShufflerActor(1, CanonicalKey{}),
		Message: unsigned(AnyGameMessage{
			Kind:    MessageShuffle,
			Shuffle: GameShuffleMessage{},
		}),
	}

	_, err := Apply(Committee{Key: pk}, snap, env)
	require.Error(t, err)
}

func TestApplyPlayerActionRejectsNonPlayerActor(t *testing.T) {
	pk := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(1))
	snap := NewTableSnapshot(1, 1, pk, encryptedDeck(t, pk), twoSeatPreflopState())
	snap.Phase = PhasePreflop

	env := Envelope{
		HandId: 1,
		GameId: 1,
		Actor:  ShufflerActor(1, CanonicalKey{}),
		Message: unsigned(AnyGameMessage{
			Kind:         MessagePlayerPreflop,
			PlayerAction: PlayerActionMessage{Street: betting.StreetPreflop, Action: betting.PlayerAction{Kind: betting.ActionCall}},
		}),
	}

	_, err := Apply(Committee{Key: pk}, snap, env)
	require.Error(t, err)
}

func TestApplyPlayerActionAdvancesToFlopOnStreetComplete(t *testing.T) {
	pk := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(1))
	snap := NewTableSnapshot(1, 1, pk, encryptedDeck(t, pk), twoSeatPreflopState())
	snap.Phase = PhasePreflop

	callEnv := Envelope{
		HandId: 1,
		GameId: 1,
		Actor:  PlayerActor(0, 100, CanonicalKey{}),
		Message: unsigned(AnyGameMessage{
			Kind:         MessagePlayerPreflop,
			PlayerAction: PlayerActionMessage{Street: betting.StreetPreflop, Action: betting.PlayerAction{Kind: betting.ActionCall}},
		}),
	}
	afterCall, err := Apply(Committee{Key: pk}, snap, callEnv)
	require.NoError(t, err)
	require.Equal(t, PhasePreflop, afterCall.Phase, "the big blind still holds the option after a call")

	checkEnv := Envelope{
		HandId: 1,
		GameId: 1,
		Actor:  PlayerActor(1, 101, CanonicalKey{}),
		Message: unsigned(AnyGameMessage{
			Kind:         MessagePlayerPreflop,
			PlayerAction: PlayerActionMessage{Street: betting.StreetPreflop, Action: betting.PlayerAction{Kind: betting.ActionCheck}},
		}),
	}
	final, err := Apply(Committee{Key: pk}, afterCall, checkEnv)
	require.NoError(t, err)
	require.Equal(t, PhaseFlop, final.Phase)
	require.Equal(t, betting.StreetPreflop, final.Betting.Street, "Apply advances Phase on street completion but leaves Street for the caller to reset once the flop is dealt")
}

func TestApplyShowdownProducesWinnersOnceAllSeatsHaveRevealed(t *testing.T) {
	pk := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(1))
	snap := NewTableSnapshot(1, 1, pk, encryptedDeck(t, pk), twoSeatPreflopState())
	snap.Phase = PhaseShowdown
	snap.Board = []showdown.Card{
		{Rank: 2, Suit: showdown.Clubs},
		{Rank: 7, Suit: showdown.Diamonds},
		{Rank: 9, Suit: showdown.Hearts},
		{Rank: 11, Suit: showdown.Spades},
		{Rank: 3, Suit: showdown.Clubs},
	}

	seat0Hole := [2]showdown.Card{{Rank: 14, Suit: showdown.Clubs}, {Rank: 14, Suit: showdown.Diamonds}}
	seat1Hole := [2]showdown.Card{{Rank: 4, Suit: showdown.Hearts}, {Rank: 5, Suit: showdown.Spades}}

	idx0a, err := showdown.IndexOf(seat0Hole[0])
	require.NoError(t, err)
	idx0b, err := showdown.IndexOf(seat0Hole[1])
	require.NoError(t, err)
	idx1a, err := showdown.IndexOf(seat1Hole[0])
	require.NoError(t, err)
	idx1b, err := showdown.IndexOf(seat1Hole[1])
	require.NoError(t, err)

	snap.Deck[0].Dealt, snap.Deck[0].RevealedAs = true, idx0a
	snap.Deck[1].Dealt, snap.Deck[1].RevealedAs = true, idx0b
	snap.Deck[2].Dealt, snap.Deck[2].RevealedAs = true, idx1a
	snap.Deck[3].Dealt, snap.Deck[3].RevealedAs = true, idx1b

	committee := Committee{Key: pk}

	env0 := Envelope{
		HandId: 1, GameId: 1,
		Actor: PlayerActor(0, 100, CanonicalKey{}),
		Message: unsigned(AnyGameMessage{
			Kind: MessageShowdown,
			Showdown: ShowdownMessage{
				CardPositions: [2]uint8{0, 1},
			},
		}),
	}
	next, err := Apply(committee, snap, env0)
	require.NoError(t, err)
	require.Equal(t, PhaseShowdown, next.Phase, "phase only completes once every non-folded seat has revealed")

	env1 := Envelope{
		HandId: 1, GameId: 1,
		Actor: PlayerActor(1, 101, CanonicalKey{}),
		Message: unsigned(AnyGameMessage{
			Kind: MessageShowdown,
			Showdown: ShowdownMessage{
				CardPositions: [2]uint8{2, 3},
			},
		}),
	}
	final, err := Apply(committee, next, env1)
	require.NoError(t, err)
	require.Equal(t, PhaseComplete, final.Phase)
	require.Equal(t, []SeatId{0}, final.Winners, "pocket aces beats a four-five offsuit on this board")
}
