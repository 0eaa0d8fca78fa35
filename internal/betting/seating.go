package betting

// NextActor returns the next clockwise seat after `from` (exclusive) among
// `seats` whose status is Active, or (0, false) if none qualify. Seats must
// be supplied in clockwise table order.
func NextActor(seats []PlayerState, from SeatId) (SeatId, bool) {
	if len(seats) == 0 {
		return 0, false
	}
	startIdx := -1
	for i, s := range seats {
		if s.Seat == from {
			startIdx = i
			break
		}
	}
	if startIdx == -1 {
		startIdx = -1 // fall through: treat as "before seat 0"
	}
	n := len(seats)
	for step := 1; step <= n; step++ {
		idx := (startIdx + step) % n
		if idx < 0 {
			idx += n
		}
		if seats[idx].Status == StatusActive {
			return seats[idx].Seat, true
		}
	}
	return 0, false
}

// ComputeFirstToAct returns the first seat to act on a street: left of the
// big blind preflop, left of the button postflop.
func ComputeFirstToAct(seats []PlayerState, button SeatId, bigBlindSeat SeatId, street Street) (SeatId, bool) {
	if street == StreetPreflop {
		return NextActor(seats, bigBlindSeat)
	}
	return NextActor(seats, button)
}

// ActiveNonAllInSeats returns seats still obligated to act this street.
func ActiveNonAllInSeats(seats []PlayerState) []SeatId {
	out := make([]SeatId, 0, len(seats))
	for _, s := range seats {
		if s.Status == StatusActive {
			out = append(out, s.Seat)
		}
	}
	return out
}

// NonFoldedSeats returns seats still live for the pot (Active or AllIn).
func NonFoldedSeats(seats []PlayerState) []SeatId {
	out := make([]SeatId, 0, len(seats))
	for _, s := range seats {
		if s.Status == StatusActive || s.Status == StatusAllIn {
			out = append(out, s.Seat)
		}
	}
	return out
}
