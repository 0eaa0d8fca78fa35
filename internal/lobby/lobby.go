// Package lobby implements the pre-hand registration flow: hosting a
// game, players joining and taking a seat, shufflers registering into the
// committee, and a host commencing a hand once seating and the committee
// are both ready. None of this touches the ledger directly; it produces
// the seated betting.State and the shuffler order from which the caller
// builds the Committee the operator needs to start a hand's worker.
package lobby

import (
	"fmt"
	"sort"

	deadlock "github.com/sasha-s/go-deadlock"

	"onchainpoker/internal/betting"
	"onchainpoker/internal/ledger"
)

// SeatAssignment is one player's seat and registered signing key.
type SeatAssignment struct {
	Seat     ledger.SeatId
	PlayerId ledger.PlayerId
	Key      ledger.CanonicalKey
	Stack    betting.Chips
}

// ShufflerRegistration is one committee member's registered signing and
// DKG-share key material.
type ShufflerRegistration struct {
	ShufflerId   ledger.ShufflerId
	Key          ledger.CanonicalKey
	PublicShare  ledger.CanonicalKey
	JoinOrder    int
}

// Game is a single table's lobby state: who has joined, who is seated,
// which shufflers have registered, and whether a hand is in flight.
type Game struct {
	mu         deadlock.Mutex
	id         ledger.GameId
	stakes     betting.TableStakes
	maxSeats   int
	seats      map[ledger.SeatId]SeatAssignment
	shufflers  []ShufflerRegistration
	nextShufflerOrder int
	handInFlight bool
}

func NewGame(id ledger.GameId, stakes betting.TableStakes, maxSeats int) *Game {
	return &Game{id: id, stakes: stakes, maxSeats: maxSeats, seats: map[ledger.SeatId]SeatAssignment{}}
}

// Join seats a player at the requested seat with the given buy-in stack
// and registered key. Returns an error if the seat is taken, out of
// range, or a hand is currently running.
func (g *Game) Join(seat ledger.SeatId, playerID ledger.PlayerId, key ledger.CanonicalKey, stack betting.Chips) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.handInFlight {
		return fmt.Errorf("lobby: cannot join game %d mid-hand", g.id)
	}
	if int(seat) < 0 || int(seat) >= g.maxSeats {
		return fmt.Errorf("lobby: seat %d out of range [0,%d)", seat, g.maxSeats)
	}
	if _, taken := g.seats[seat]; taken {
		return fmt.Errorf("lobby: seat %d already occupied", seat)
	}
	g.seats[seat] = SeatAssignment{Seat: seat, PlayerId: playerID, Key: key, Stack: stack}
	return nil
}

// Leave vacates seat, only permitted between hands.
func (g *Game) Leave(seat ledger.SeatId) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.handInFlight {
		return fmt.Errorf("lobby: cannot leave game %d mid-hand", g.id)
	}
	if _, ok := g.seats[seat]; !ok {
		return fmt.Errorf("lobby: seat %d is not occupied", seat)
	}
	delete(g.seats, seat)
	return nil
}

// RegisterShuffler adds a committee member, assigning it the next
// sequential join order, which becomes the shuffle protocol's turn order.
func (g *Game) RegisterShuffler(shufflerID ledger.ShufflerId, key, publicShare ledger.CanonicalKey) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.handInFlight {
		return fmt.Errorf("lobby: cannot register shuffler on game %d mid-hand", g.id)
	}
	for _, s := range g.shufflers {
		if s.ShufflerId == shufflerID {
			return fmt.Errorf("lobby: shuffler %d already registered", shufflerID)
		}
	}
	g.shufflers = append(g.shufflers, ShufflerRegistration{
		ShufflerId:  shufflerID,
		Key:         key,
		PublicShare: publicShare,
		JoinOrder:   g.nextShufflerOrder,
	})
	g.nextShufflerOrder++
	return nil
}

// Ready reports whether the lobby has at least two seated players and at
// least one registered shuffler, the minimum configuration to commence a
// hand.
func (g *Game) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seats) >= 2 && len(g.shufflers) >= 1
}

// CommenceHand snapshots the current seating into a betting.State (seats
// sorted ascending, button and big-blind seat recorded; no blinds are
// posted and no chips are committed) and returns the shuffler
// order needed to seed a hand's Committee. It marks the game as having a
// hand in flight; the caller must call EndHand when the hand completes.
func (g *Game) CommenceHand(button ledger.SeatId) (betting.State, []ShufflerRegistration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.handInFlight {
		return betting.State{}, nil, fmt.Errorf("lobby: game %d already has a hand in flight", g.id)
	}
	if len(g.seats) < 2 {
		return betting.State{}, nil, fmt.Errorf("lobby: game %d needs at least 2 seats to commence", g.id)
	}
	if len(g.shufflers) < 1 {
		return betting.State{}, nil, fmt.Errorf("lobby: game %d needs at least 1 registered shuffler to commence", g.id)
	}

	seatIDs := make([]ledger.SeatId, 0, len(g.seats))
	for s := range g.seats {
		seatIDs = append(seatIDs, s)
	}
	sort.Slice(seatIDs, func(i, j int) bool { return seatIDs[i] < seatIDs[j] })

	players := make([]betting.PlayerState, 0, len(seatIDs))
	for _, s := range seatIDs {
		a := g.seats[s]
		players = append(players, betting.PlayerState{Seat: betting.SeatId(s), Stack: a.Stack, Status: betting.StatusActive})
	}

	bbSeat, ok := bigBlindSeatFor(players, betting.SeatId(button))
	if !ok {
		return betting.State{}, nil, fmt.Errorf("lobby: game %d could not place the big blind", g.id)
	}
	state := betting.State{
		Seats:        players,
		Street:       betting.StreetPreflop,
		Button:       betting.SeatId(button),
		BigBlindSeat: bbSeat,
		BigBlind:     g.stakes.BigBlind,
	}

	shufflers := append([]ShufflerRegistration{}, g.shufflers...)
	sort.Slice(shufflers, func(i, j int) bool { return shufflers[i].JoinOrder < shufflers[j].JoinOrder })

	g.handInFlight = true
	return state, shufflers, nil
}

// bigBlindSeatFor places the big blind relative to button: heads-up, the
// button itself posts small blind and the sole other seat posts big
// blind; three-handed or more, big blind is two seats clockwise of the
// button.
func bigBlindSeatFor(players []betting.PlayerState, button betting.SeatId) (betting.SeatId, bool) {
	if len(players) == 2 {
		return betting.NextActor(players, button)
	}
	sb, ok := betting.NextActor(players, button)
	if !ok {
		return 0, false
	}
	return betting.NextActor(players, sb)
}

// EndHand clears the in-flight flag, permitting seating changes and a
// subsequent CommenceHand.
func (g *Game) EndHand() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handInFlight = false
}
