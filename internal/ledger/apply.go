package ledger

import (
	"fmt"

	"onchainpoker/internal/betting"
	"onchainpoker/internal/decryption"
	"onchainpoker/internal/ocpcrypto"
	"onchainpoker/internal/ocpshuffle"
	"onchainpoker/internal/showdown"
)

// Committee is the fixed set of shufflers and their public DKG material
// needed to validate shuffle proofs and unblinding shares during Apply.
// It is supplied by the caller rather than carried in the snapshot, since
// committee membership is fixed for a hand's whole lifetime and is agreed
// before the hand starts.
type Committee struct {
	Key          ocpcrypto.Point
	PublicShares map[ShufflerId]ocpcrypto.Point
}

// Apply is the pure state-transition function at the heart of the ledger:
// given the current snapshot and a verified, signed envelope, it returns
// the candidate next snapshot or an error if the message is not legal
// against the current phase and state. Apply never touches storage or the
// network; the worker is responsible for persisting its result and
// advancing the chain.
func Apply(committee Committee, snap AnyTableSnapshot, env Envelope) (AnyTableSnapshot, error) {
	msg := env.Message.Value
	if msg.Kind.Phase() != snap.Phase {
		return snap, fmt.Errorf("ledger: message kind %s illegal in phase %s", msg.Kind, snap.Phase)
	}

	next := snap.Clone()
	switch msg.Kind {
	case MessageShuffle:
		return applyShuffle(committee, next, env, msg.Shuffle)
	case MessageBlinding:
		return applyBlinding(next, env, msg.Blinding)
	case MessagePartialUnblinding:
		return applyPartialUnblinding(committee, next, env, msg.PartialUnblinding)
	case MessagePlayerPreflop, MessagePlayerFlop, MessagePlayerTurn, MessagePlayerRiver:
		return applyPlayerAction(next, env, msg.PlayerAction)
	case MessageShowdown:
		return applyShowdown(next, env, msg.Showdown)
	default:
		return snap, fmt.Errorf("ledger: unknown message kind %d", msg.Kind)
	}
}

func applyShuffle(committee Committee, next AnyTableSnapshot, env Envelope, m GameShuffleMessage) (AnyTableSnapshot, error) {
	if env.Actor.Kind != ActorShuffler {
		return next, fmt.Errorf("ledger: shuffle message from non-shuffler actor")
	}
	if len(m.DeckOut) != len(next.Deck) {
		return next, fmt.Errorf("ledger: shuffle deck size %d does not match table deck size %d", len(m.DeckOut), len(next.Deck))
	}

	var currentDeck [52]ocpcrypto.ElGamalCiphertext
	for i := range next.Deck {
		currentDeck[i] = next.Deck[i].Ciphertext
	}

	result := ocpshuffle.ShuffleVerify(committee.Key, currentDeck[:], m.DeckOut, m.ProofBytes)
	if !result.OK {
		return next, fmt.Errorf("ledger: shuffle proof rejected: %s", result.Error)
	}

	for i, ct := range m.DeckOut {
		next.Deck[i].Ciphertext = ct
	}
	next.Shuffles = append(next.Shuffles, ShuffleRecord{
		ShufflerId: env.Actor.ShufflerId,
		DeckOut:    append([]ocpcrypto.ElGamalCiphertext{}, m.DeckOut...),
		ProofBytes: m.ProofBytes,
	})

	if len(next.Shuffles) >= len(committee.PublicShares) {
		next.Phase = PhaseDealing
	}
	return next, nil
}

func applyBlinding(next AnyTableSnapshot, env Envelope, m BlindingMessage) (AnyTableSnapshot, error) {
	if env.Actor.Kind != ActorShuffler {
		return next, fmt.Errorf("ledger: blinding message from non-shuffler actor")
	}
	if int(m.CardInDeckPosition) >= len(next.Deck) {
		return next, fmt.Errorf("ledger: blinding position %d out of range", m.CardInDeckPosition)
	}
	slot := next.Deck[m.CardInDeckPosition]
	if !slot.Dealt {
		return next, fmt.Errorf("ledger: blinding contribution for undealt position %d", m.CardInDeckPosition)
	}
	// Apply only admits the contribution into the log. Its Chaum-Pedersen
	// proof is not checked here or by the verifier, and no component
	// aggregates contributions into a PlayerAccessibleCiphertext; the
	// snapshot does not carry one.
	return next, nil
}

func applyPartialUnblinding(committee Committee, next AnyTableSnapshot, env Envelope, m PartialUnblindingMessage) (AnyTableSnapshot, error) {
	if env.Actor.Kind != ActorShuffler {
		return next, fmt.Errorf("ledger: unblinding message from non-shuffler actor")
	}
	publicShare, ok := committee.PublicShares[env.Actor.ShufflerId]
	if !ok {
		return next, fmt.Errorf("ledger: unblinding share from unknown shuffler %d", env.Actor.ShufflerId)
	}
	if int(m.CardInDeckPosition) >= len(next.Deck) {
		return next, fmt.Errorf("ledger: unblinding position %d out of range", m.CardInDeckPosition)
	}
	blinded := decryption.PlayerAccessibleCiphertext{C1: next.Deck[m.CardInDeckPosition].Ciphertext.C1}
	if valid, err := decryption.VerifyUnblindingShare(m.Share, publicShare, blinded); err != nil || !valid {
		return next, fmt.Errorf("ledger: unblinding share proof rejected for position %d", m.CardInDeckPosition)
	}
	// As with blinding, shares are not accumulated: once its proof checks
	// out, the message is admitted into the log and the snapshot is
	// unchanged.
	return next, nil
}

func applyPlayerAction(next AnyTableSnapshot, env Envelope, m PlayerActionMessage) (AnyTableSnapshot, error) {
	if env.Actor.Kind != ActorPlayer {
		return next, fmt.Errorf("ledger: player action from non-player actor")
	}
	if m.Street != next.Betting.Street {
		return next, fmt.Errorf("ledger: action for street %s does not match current street %s", m.Street, next.Betting.Street)
	}
	if _, err := next.Betting.ApplyAction(env.Actor.Seat, m.Action); err != nil {
		return next, fmt.Errorf("ledger: apply player action: %w", err)
	}
	if err := next.Betting.ValidateInvariants(); err != nil {
		return next, fmt.Errorf("ledger: betting invariant violated: %w", err)
	}

	if next.Betting.StreetComplete() {
		next.Betting.Pots = betting.ComputeSidePots(next.Betting.Seats)
		switch next.Betting.Street {
		case betting.StreetPreflop:
			next.Phase = PhaseFlop
		case betting.StreetFlop:
			next.Phase = PhaseTurn
		case betting.StreetTurn:
			next.Phase = PhaseRiver
		case betting.StreetRiver:
			next.Phase = PhaseShowdown
		}
	}
	return next, nil
}

func applyShowdown(next AnyTableSnapshot, env Envelope, m ShowdownMessage) (AnyTableSnapshot, error) {
	if env.Actor.Kind != ActorPlayer {
		return next, fmt.Errorf("ledger: showdown reveal from non-player actor")
	}
	var hole [2]showdown.Card
	for i, pos := range m.CardPositions {
		if int(pos) >= len(next.Deck) {
			return next, fmt.Errorf("ledger: showdown position %d out of range", pos)
		}
		card, err := next.Deck[pos].RevealedAs.Decode()
		if err != nil {
			return next, fmt.Errorf("ledger: showdown reveal: %w", err)
		}
		hole[i] = card
		next.Deck[pos].Revealed = true
	}
	next.HoleBySeat[env.Actor.Seat] = hole

	if len(next.HoleBySeat) == len(next.Betting.NonFoldedSeats()) && len(next.Board) == 5 {
		board5 := [5]showdown.Card{}
		copy(board5[:], next.Board)
		seatHoles := make(map[int32][2]showdown.Card, len(next.HoleBySeat))
		for seat, h := range next.HoleBySeat {
			seatHoles[int32(seat)] = h
		}
		winners, scores, err := showdown.Winners(board5[:], seatHoles)
		if err != nil {
			return next, fmt.Errorf("ledger: showdown evaluation: %w", err)
		}
		next.Winners = nil
		for _, w := range winners {
			next.Winners = append(next.Winners, SeatId(w))
		}
		next.WinnerScores = make(map[SeatId]uint32, len(scores))
		for seat, score := range scores {
			next.WinnerScores[SeatId(seat)] = score
		}
		next.Phase = PhaseComplete
	}
	return next, nil
}
