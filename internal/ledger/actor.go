package ledger

import "fmt"

// ActorKind discriminates the AnyActor sum.
type ActorKind uint8

const (
	ActorNone ActorKind = iota
	ActorPlayer
	ActorShuffler
)

// AnyActor is the sum {None, Player{seat,player_id,key}, Shuffler{id,key}}.
// Only one of the payload fields is meaningful, selected by Kind; this
// mirrors the source's tagged-union actor type as a single flat struct
// rather than a Go interface hierarchy.
type AnyActor struct {
	Kind       ActorKind
	Seat       SeatId
	PlayerId   PlayerId
	ShufflerId ShufflerId
	Key        CanonicalKey
}

func NoneActor() AnyActor { return AnyActor{Kind: ActorNone} }

func PlayerActor(seat SeatId, playerID PlayerId, key CanonicalKey) AnyActor {
	return AnyActor{Kind: ActorPlayer, Seat: seat, PlayerId: playerID, Key: key}
}

func ShufflerActor(id ShufflerId, key CanonicalKey) AnyActor {
	return AnyActor{Kind: ActorShuffler, ShufflerId: id, Key: key}
}

func (a AnyActor) NonceKey(hand HandId) NonceKey {
	switch a.Kind {
	case ActorPlayer:
		return NonceKey{HandId: hand, EntityKind: EntityKindPlayer, EntityId: int64(a.PlayerId)}
	case ActorShuffler:
		return NonceKey{HandId: hand, EntityKind: EntityKindShuffler, EntityId: int64(a.ShufflerId)}
	default:
		return NonceKey{HandId: hand, EntityKind: EntityKindPlayer, EntityId: 0}
	}
}

// DomainString/SigningBytes implement signing.Signable so an actor
// identity itself can be bound into a transcript.
func (a AnyActor) DomainString() string {
	switch a.Kind {
	case ActorPlayer:
		return "ledger/actor/player_v1"
	case ActorShuffler:
		return "ledger/actor/shuffler_v1"
	default:
		return "ledger/actor/none_v1"
	}
}

func (a AnyActor) SigningBytes() []byte {
	switch a.Kind {
	case ActorPlayer:
		b := []byte{byte(ActorPlayer)}
		b = append(b, u32le(uint32(a.Seat))...)
		b = append(b, u64le(uint64(a.PlayerId))...)
		b = append(b, a.Key.Bytes()...)
		return b
	case ActorShuffler:
		b := []byte{byte(ActorShuffler)}
		b = append(b, u64le(uint64(a.ShufflerId))...)
		b = append(b, a.Key.Bytes()...)
		return b
	default:
		return []byte{byte(ActorNone)}
	}
}

func (a AnyActor) String() string {
	switch a.Kind {
	case ActorPlayer:
		return fmt.Sprintf("player(seat=%d, id=%d)", a.Seat, a.PlayerId)
	case ActorShuffler:
		return fmt.Sprintf("shuffler(id=%d)", a.ShufflerId)
	default:
		return "none"
	}
}

func u32le(x uint32) []byte {
	return []byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}
}

func u64le(x uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(x >> (8 * i))
	}
	return b
}
