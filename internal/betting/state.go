package betting

import "fmt"

// State is the full per-street betting state.
type State struct {
	Seats               []PlayerState // clockwise table order
	Street              Street
	Button              SeatId
	BigBlindSeat        SeatId
	BigBlind            Chips
	CurrentBetToMatch   Chips
	LastFullRaiseAmount Chips
	LastAggressor       *SeatId
	ToAct               *SeatId
	Pots                Pots
}

func (s *State) Player(seat SeatId) (*PlayerState, error) {
	for i := range s.Seats {
		if s.Seats[i].Seat == seat {
			return &s.Seats[i], nil
		}
	}
	return nil, fmt.Errorf("%w: seat %d", ErrUnknownSeat, seat)
}

func (s *State) ActiveNonAllInSeats() []SeatId { return ActiveNonAllInSeats(s.Seats) }
func (s *State) NonFoldedSeats() []SeatId      { return NonFoldedSeats(s.Seats) }

// LegalActionsFor derives the legal actions for the seat to act. Returns
// ErrWrongTurn if seat is not s.ToAct.
func (s *State) LegalActionsFor(seat SeatId) (LegalActions, error) {
	if s.ToAct == nil || *s.ToAct != seat {
		return LegalActions{}, ErrWrongTurn
	}
	p, err := s.Player(seat)
	if err != nil {
		return LegalActions{}, err
	}
	price := PriceToCall(s.CurrentBetToMatch, p.CommittedThisRound)

	la := LegalActions{Seat: seat, CanFold: true}
	if price == 0 {
		la.CanCheck = true
	} else if p.Stack > 0 {
		la.CanCall = true
		la.CallAmount = price
		if price > p.Stack {
			la.CallAmount = p.Stack
			la.CallIsFull = false
		} else {
			la.CallIsFull = true
		}
	}

	// A player who has already acted since the last full raise may only
	// call or fold against a short (non-reopening) all-in bump; betting or
	// raising again requires not having acted this round yet.
	if !p.HasActed {
		if s.CurrentBetToMatch == 0 {
			la.CanBet = true
			la.BetBounds = BetToBoundsUnopened(s.BigBlind, *p)
		} else {
			bounds := RaiseToBoundsOpened(s.CurrentBetToMatch, s.LastFullRaiseAmount, *p)
			if bounds.Max > s.CurrentBetToMatch {
				la.CanRaise = true
				la.RaiseBounds = bounds
			}
		}
	}
	if p.Stack > 0 {
		la.CanAllIn = true
	}
	return la, nil
}

// ApplyAction validates and applies a raw PlayerAction for seat, advancing
// ToAct and returning the NormalizedAction recorded in the event log.
// Illegal actions return an error and leave s unmodified.
func (s *State) ApplyAction(seat SeatId, action PlayerAction) (NormalizedAction, error) {
	legal, err := s.LegalActionsFor(seat)
	if err != nil {
		return NormalizedAction{}, err
	}
	p, err := s.Player(seat)
	if err != nil {
		return NormalizedAction{}, err
	}

	switch action.Kind {
	case ActionFold:
		if !legal.CanFold {
			return NormalizedAction{}, fmt.Errorf("%w: fold not legal", ErrIllegalAction)
		}
		p.Status = StatusFolded
		p.HasActed = true
		return s.finishAction(NormalizedAction{Seat: seat, Kind: ActionFold})

	case ActionCheck:
		if !legal.CanCheck {
			return NormalizedAction{}, fmt.Errorf("%w: check not legal", ErrIllegalAction)
		}
		p.HasActed = true
		return s.finishAction(NormalizedAction{Seat: seat, Kind: ActionCheck})

	case ActionCall:
		if !legal.CanCall {
			return NormalizedAction{}, fmt.Errorf("%w: call not legal", ErrIllegalAction)
		}
		amount := legal.CallAmount
		p.Stack -= amount
		p.CommittedThisRound += amount
		p.CommittedTotal += amount
		p.HasActed = true
		allIn := p.Stack == 0
		if allIn {
			p.Status = StatusAllIn
		}
		return s.finishAction(NormalizedAction{Seat: seat, Kind: ActionCall, To: p.CommittedThisRound, FullCall: legal.CallIsFull, IsAllIn: allIn})

	case ActionBetTo:
		if !legal.CanBet || action.To < legal.BetBounds.Min || action.To > legal.BetBounds.Max {
			return NormalizedAction{}, fmt.Errorf("%w: bet_to %d out of bounds [%d,%d]", ErrIllegalAction, action.To, legal.BetBounds.Min, legal.BetBounds.Max)
		}
		return s.applyRaiseLike(p, action.To, true)

	case ActionRaiseTo:
		if !legal.CanRaise || action.To < legal.RaiseBounds.Min || action.To > legal.RaiseBounds.Max {
			return NormalizedAction{}, fmt.Errorf("%w: raise_to %d out of bounds [%d,%d]", ErrIllegalAction, action.To, legal.RaiseBounds.Min, legal.RaiseBounds.Max)
		}
		return s.applyRaiseLike(p, action.To, false)

	case ActionAllIn:
		allInTo := p.CommittedThisRound + p.Stack
		if s.CurrentBetToMatch == 0 {
			if !legal.CanBet {
				return NormalizedAction{}, fmt.Errorf("%w: all-in bet not legal", ErrIllegalAction)
			}
			return s.applyRaiseLike(p, allInTo, true)
		}
		if allInTo <= s.CurrentBetToMatch {
			// Short all-in that does not even call in full is treated as a call.
			amount := p.Stack
			p.CommittedThisRound += amount
			p.CommittedTotal += amount
			p.Stack = 0
			p.Status = StatusAllIn
			p.HasActed = true
			return s.finishAction(NormalizedAction{Seat: seat, Kind: ActionCall, To: p.CommittedThisRound, FullCall: allInTo == s.CurrentBetToMatch, IsAllIn: true})
		}
		if !legal.CanRaise {
			return NormalizedAction{}, fmt.Errorf("%w: all-in raise not legal", ErrIllegalAction)
		}
		return s.applyRaiseLike(p, allInTo, false)

	default:
		return NormalizedAction{}, fmt.Errorf("%w: unknown action kind %v", ErrIllegalAction, action.Kind)
	}
}

// applyRaiseLike handles both BetTo (unopened==true) and RaiseTo, since both
// move `to` chips in and reprice the street, differing only in whether a
// bet already existed.
func (s *State) applyRaiseLike(p *PlayerState, to Chips, unopened bool) (NormalizedAction, error) {
	delta := to - p.CommittedThisRound
	p.Stack -= delta
	p.CommittedThisRound = to
	p.CommittedTotal += delta
	p.HasActed = true
	isAllIn := p.Stack == 0
	if isAllIn {
		p.Status = StatusAllIn
	}

	raiseAmount := to - s.CurrentBetToMatch
	full := unopened || IsFullRaise(raiseAmount, s.LastFullRaiseAmount)

	if full {
		// Reopen action for every non-folded, non-all-in seat other than the
		// aggressor.
		for i := range s.Seats {
			if s.Seats[i].Seat == p.Seat {
				continue
			}
			if s.Seats[i].Status == StatusActive {
				s.Seats[i].HasActed = false
			}
		}
		s.LastFullRaiseAmount = raiseAmount
		if s.LastFullRaiseAmount == 0 {
			s.LastFullRaiseAmount = to
		}
	}
	s.CurrentBetToMatch = to
	seat := p.Seat
	s.LastAggressor = &seat

	kind := ActionRaiseTo
	if unopened {
		kind = ActionBetTo
	}
	return s.finishAction(NormalizedAction{Seat: p.Seat, Kind: kind, To: to, FullRaise: full, IsAllIn: isAllIn})
}

func (s *State) finishAction(na NormalizedAction) (NormalizedAction, error) {
	s.RecomputePots()
	next, ok := s.computeNextToAct()
	if ok {
		s.ToAct = &next
	} else {
		s.ToAct = nil
	}
	return na, nil
}

// StreetComplete reports whether the current street has finished: every
// Active seat has acted this round, and committed_this_round matches for
// everyone still obligated to match it.
func (s *State) StreetComplete() bool {
	actives := s.ActiveNonAllInSeats()
	if len(actives) == 0 {
		return true
	}
	var reference Chips
	first := true
	for _, seatID := range actives {
		p, _ := s.Player(seatID)
		if !p.HasActed {
			return false
		}
		if first {
			reference = p.CommittedThisRound
			first = false
		} else if p.CommittedThisRound != reference {
			return false
		}
	}
	return true
}

func (s *State) computeNextToAct() (SeatId, bool) {
	if s.ToAct == nil {
		first, ok := ComputeFirstToAct(s.Seats, s.Button, s.BigBlindSeat, s.Street)
		return first, ok
	}
	if s.StreetComplete() {
		return 0, false
	}
	from := *s.ToAct
	for i := 0; i < len(s.Seats); i++ {
		next, ok := NextActor(s.Seats, from)
		if !ok {
			return 0, false
		}
		p, _ := s.Player(next)
		if !p.HasActed || p.CommittedThisRound != s.CurrentBetToMatch {
			return next, true
		}
		from = next
		if next == *s.ToAct {
			break
		}
	}
	return 0, false
}

// ValidateInvariants enforces commit-ordering and pot-conservation
// invariants, grounded in the source engine's
// InvariantCheck::validate_invariants.
func (s *State) ValidateInvariants() error {
	for _, p := range s.Seats {
		if p.CommittedThisRound > p.CommittedTotal {
			return fmt.Errorf("%w: seat %d committed_this_round %d > committed_total %d", ErrInvariantViolated, p.Seat, p.CommittedThisRound, p.CommittedTotal)
		}
	}
	var sumCommitted Chips
	for _, p := range s.Seats {
		sumCommitted += p.CommittedTotal
	}
	if sumCommitted != s.Pots.Total() {
		return fmt.Errorf("%w: sum(committed_total)=%d != pots.total=%d", ErrInvariantViolated, sumCommitted, s.Pots.Total())
	}
	return nil
}
