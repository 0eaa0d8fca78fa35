package ledger

import (
	"fmt"

	"onchainpoker/internal/betting"
	"onchainpoker/internal/decryption"
	"onchainpoker/internal/ocpcrypto"
	"onchainpoker/internal/signing"
)

// MessageKind discriminates AnyGameMessage.
type MessageKind uint8

const (
	MessageShuffle MessageKind = iota
	MessageBlinding
	MessagePartialUnblinding
	MessagePlayerPreflop
	MessagePlayerFlop
	MessagePlayerTurn
	MessagePlayerRiver
	MessageShowdown
)

func (k MessageKind) String() string {
	switch k {
	case MessageShuffle:
		return "shuffle"
	case MessageBlinding:
		return "blinding"
	case MessagePartialUnblinding:
		return "partial_unblinding"
	case MessagePlayerPreflop:
		return "player_preflop"
	case MessagePlayerFlop:
		return "player_flop"
	case MessagePlayerTurn:
		return "player_turn"
	case MessagePlayerRiver:
		return "player_river"
	case MessageShowdown:
		return "showdown"
	default:
		return fmt.Sprintf("MessageKind(%d)", uint8(k))
	}
}

// Phase reports which snapshot phase a message kind is legal in.
func (k MessageKind) Phase() Phase {
	switch k {
	case MessageShuffle:
		return PhaseShuffling
	case MessageBlinding:
		return PhaseDealing
	case MessagePartialUnblinding:
		return PhaseDealing
	case MessagePlayerPreflop:
		return PhasePreflop
	case MessagePlayerFlop:
		return PhaseFlop
	case MessagePlayerTurn:
		return PhaseTurn
	case MessagePlayerRiver:
		return PhaseRiver
	case MessageShowdown:
		return PhaseShowdown
	default:
		return PhaseComplete
	}
}

// GameShuffleMessage carries one shuffler's re-encrypted, permuted deck
// and its audit proof.
type GameShuffleMessage struct {
	DeckInHash [32]byte
	DeckOut    []ocpcrypto.ElGamalCiphertext
	ProofBytes []byte
}

func (m GameShuffleMessage) DomainString() string { return "ledger/message/shuffle_v1" }
func (m GameShuffleMessage) SigningBytes() []byte {
	out := append([]byte{}, m.DeckInHash[:]...)
	for _, ct := range m.DeckOut {
		out = append(out, ct.C1.Bytes()...)
		out = append(out, ct.C2.Bytes()...)
	}
	out = append(out, m.ProofBytes...)
	return out
}

// BlindingMessage is a single shuffler's Phase-1 contribution for one
// targeted card.
type BlindingMessage struct {
	CardInDeckPosition uint8
	Contribution       decryption.PlayerBlindingContribution
}

func (m BlindingMessage) DomainString() string { return "ledger/message/blinding_v1" }
func (m BlindingMessage) SigningBytes() []byte {
	out := []byte{m.CardInDeckPosition}
	out = append(out, m.Contribution.NoncePoint.Bytes()...)
	out = append(out, m.Contribution.C2Addend.Bytes()...)
	out = append(out, ocpcrypto.EncodeChaumPedersenProof(m.Contribution.Proof)...)
	return out
}

// PartialUnblindingMessage is a single shuffler's Phase-2 contribution for
// one targeted card.
type PartialUnblindingMessage struct {
	CardInDeckPosition uint8
	Share              decryption.PartialUnblindingShare
}

func (m PartialUnblindingMessage) DomainString() string { return "ledger/message/partial_unblinding_v1" }
func (m PartialUnblindingMessage) SigningBytes() []byte {
	out := []byte{m.CardInDeckPosition}
	out = append(out, m.Share.Share.Bytes()...)
	out = append(out, ocpcrypto.EncodeChaumPedersenProof(m.Share.Proof)...)
	return out
}

// PlayerActionMessage is a street-tagged player action.
type PlayerActionMessage struct {
	Street betting.Street
	Action betting.PlayerAction
}

func (m PlayerActionMessage) DomainString() string {
	switch m.Street {
	case betting.StreetPreflop:
		return "ledger/message/player_preflop_v1"
	case betting.StreetFlop:
		return "ledger/message/player_flop_v1"
	case betting.StreetTurn:
		return "ledger/message/player_turn_v1"
	default:
		return "ledger/message/player_river_v1"
	}
}
func (m PlayerActionMessage) SigningBytes() []byte {
	out := []byte{uint8(m.Street), uint8(m.Action.Kind)}
	out = append(out, u64le(uint64(m.Action.To))...)
	return out
}

// ShowdownMessage reveals a seat's hole cards at showdown.
type ShowdownMessage struct {
	HoleCiphertexts [2]ocpcrypto.ElGamalCiphertext
	CardPositions   [2]uint8
	Proofs          [2]ocpcrypto.ChaumPedersenProof
}

func (m ShowdownMessage) DomainString() string { return "ledger/message/showdown_v1" }
func (m ShowdownMessage) SigningBytes() []byte {
	var out []byte
	for i := 0; i < 2; i++ {
		out = append(out, m.HoleCiphertexts[i].C1.Bytes()...)
		out = append(out, m.HoleCiphertexts[i].C2.Bytes()...)
		out = append(out, m.CardPositions[i])
		out = append(out, ocpcrypto.EncodeChaumPedersenProof(m.Proofs[i])...)
	}
	return out
}

// AnyGameMessage is the sum of every wire-level message kind. Only the
// field selected by Kind is meaningful, mirroring AnyActor's tagged-union
// shape.
type AnyGameMessage struct {
	Kind              MessageKind
	Shuffle           GameShuffleMessage
	Blinding          BlindingMessage
	PartialUnblinding PartialUnblindingMessage
	PlayerAction      PlayerActionMessage
	Showdown          ShowdownMessage
}

func (m AnyGameMessage) DomainString() string {
	switch m.Kind {
	case MessageShuffle:
		return m.Shuffle.DomainString()
	case MessageBlinding:
		return m.Blinding.DomainString()
	case MessagePartialUnblinding:
		return m.PartialUnblinding.DomainString()
	case MessagePlayerPreflop, MessagePlayerFlop, MessagePlayerTurn, MessagePlayerRiver:
		return m.PlayerAction.DomainString()
	case MessageShowdown:
		return m.Showdown.DomainString()
	default:
		return "ledger/message/unknown_v1"
	}
}

func (m AnyGameMessage) SigningBytes() []byte {
	switch m.Kind {
	case MessageShuffle:
		return m.Shuffle.SigningBytes()
	case MessageBlinding:
		return m.Blinding.SigningBytes()
	case MessagePartialUnblinding:
		return m.PartialUnblinding.SigningBytes()
	case MessagePlayerPreflop, MessagePlayerFlop, MessagePlayerTurn, MessagePlayerRiver:
		return m.PlayerAction.SigningBytes()
	case MessageShowdown:
		return m.Showdown.SigningBytes()
	default:
		return nil
	}
}

var _ signing.Signable = AnyGameMessage{}

// Envelope is the wire-level wrapper around a signed message.
type Envelope struct {
	HandId    HandId
	GameId    GameId
	Actor     AnyActor
	Nonce     uint64
	Message   signing.WithSignature[AnyGameMessage]
}

// FinalizedEnvelope is an Envelope after the worker has applied it,
// carrying the resulting snapshot sequence, outcome, and event phase.
type FinalizedEnvelope struct {
	Envelope Envelope
	Sequence SnapshotSeq
	Status   Status
	Phase    EventPhase
}
