package betting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func freshState(stacks map[SeatId]Chips, button, sb, bb SeatId, smallBlind, bigBlind Chips) *State {
	seats := []PlayerState{
		{Seat: 0, Stack: stacks[0], Status: StatusActive},
		{Seat: 1, Stack: stacks[1], Status: StatusActive},
		{Seat: 2, Stack: stacks[2], Status: StatusActive},
	}
	s := &State{
		Seats:               seats,
		Street:              StreetPreflop,
		Button:              button,
		BigBlindSeat:        bb,
		BigBlind:            bigBlind,
		CurrentBetToMatch:   bigBlind,
		LastFullRaiseAmount: bigBlind,
	}
	sbP, _ := s.Player(sb)
	sbP.Stack -= smallBlind
	sbP.CommittedThisRound = smallBlind
	sbP.CommittedTotal = smallBlind
	bbP, _ := s.Player(bb)
	bbP.Stack -= bigBlind
	bbP.CommittedThisRound = bigBlind
	bbP.CommittedTotal = bigBlind
	s.RecomputePots()
	first, _ := ComputeFirstToAct(s.Seats, button, bb, StreetPreflop)
	s.ToAct = &first
	return s
}

// S1: bet-call-fold preflop, seats 0,1,2, button=0 SB=1 BB=2, stakes(10,20).
func TestScenarioS1BetCallFoldPreflop(t *testing.T) {
	s := freshState(map[SeatId]Chips{0: 1000, 1: 1000, 2: 1000}, 0, 1, 2, 10, 20)

	_, err := s.ApplyAction(0, PlayerAction{Kind: ActionRaiseTo, To: 60})
	require.NoError(t, err)

	_, err = s.ApplyAction(1, PlayerAction{Kind: ActionFold})
	require.NoError(t, err)

	_, err = s.ApplyAction(2, PlayerAction{Kind: ActionCall})
	require.NoError(t, err)

	// 60 (seat 0) + 10 (seat 1's forfeited small blind) + 60 (seat 2) = 130.
	require.Equal(t, Chips(130), s.Pots.Total())
	require.Equal(t, Chips(40), s.LastFullRaiseAmount)
	require.True(t, s.StreetComplete())
}

// S2: short all-in does not reopen. Seats 0,1,2 stacks (1000,55,1000).
func TestScenarioS2ShortAllInDoesNotReopen(t *testing.T) {
	s := freshState(map[SeatId]Chips{0: 1000, 1: 55, 2: 1000}, 0, 1, 2, 10, 20)

	_, err := s.ApplyAction(0, PlayerAction{Kind: ActionRaiseTo, To: 50})
	require.NoError(t, err)

	// Seat 1 has already posted SB=10, stack 45 remaining; all-in to 55.
	_, err = s.ApplyAction(1, PlayerAction{Kind: ActionAllIn})
	require.NoError(t, err)
	p1, _ := s.Player(1)
	require.Equal(t, Chips(55), p1.CommittedThisRound)

	_, err = s.ApplyAction(2, PlayerAction{Kind: ActionCall})
	require.NoError(t, err)

	legal, err := s.LegalActionsFor(0)
	require.NoError(t, err)
	require.False(t, legal.CanRaise, "short all-in raise must not reopen action")
	require.True(t, legal.CanCall)
}

// S3: side pots. Seats A,B,C starting stacks (100,60,100), all go all-in.
func TestScenarioS3SidePots(t *testing.T) {
	seats := []PlayerState{
		{Seat: 0, Stack: 0, CommittedTotal: 100, Status: StatusAllIn},
		{Seat: 1, Stack: 0, CommittedTotal: 60, Status: StatusAllIn},
		{Seat: 2, Stack: 0, CommittedTotal: 100, Status: StatusAllIn},
	}
	pots := ComputeSidePots(seats)
	require.Equal(t, Chips(180), pots.Main.Amount)
	require.ElementsMatch(t, []SeatId{0, 1, 2}, pots.Main.EligibleSeats())
	require.Len(t, pots.Sides, 1)
	require.Equal(t, Chips(80), pots.Sides[0].Amount)
	require.ElementsMatch(t, []SeatId{0, 2}, pots.Sides[0].EligibleSeats())
}

func TestInvariantsHoldAfterActions(t *testing.T) {
	s := freshState(map[SeatId]Chips{0: 1000, 1: 1000, 2: 1000}, 0, 1, 2, 10, 20)
	_, err := s.ApplyAction(0, PlayerAction{Kind: ActionCall})
	require.NoError(t, err)
	_, err = s.ApplyAction(1, PlayerAction{Kind: ActionCall})
	require.NoError(t, err)
	_, err = s.ApplyAction(2, PlayerAction{Kind: ActionCheck})
	require.NoError(t, err)
	require.NoError(t, s.ValidateInvariants())
}

func TestWrongTurnRejected(t *testing.T) {
	s := freshState(map[SeatId]Chips{0: 1000, 1: 1000, 2: 1000}, 0, 1, 2, 10, 20)
	_, err := s.ApplyAction(1, PlayerAction{Kind: ActionFold})
	require.ErrorIs(t, err, ErrWrongTurn)
}
