package betting

// PriceToCall returns max(0, current_bet_to_match - committed_this_round).
func PriceToCall(currentBetToMatch, committedThisRound Chips) Chips {
	if currentBetToMatch <= committedThisRound {
		return 0
	}
	return currentBetToMatch - committedThisRound
}

// BetToBoundsUnopened returns the legal [min,max] for a BetTo action when no
// bet has yet been made this street: bigBlind <= t <= stack+committed.
func BetToBoundsUnopened(bigBlind Chips, p PlayerState) RaiseBounds {
	max := p.Stack + p.CommittedThisRound
	min := bigBlind
	if min > max {
		min = max
	}
	return RaiseBounds{Min: min, Max: max}
}

// RaiseToBoundsOpened returns the legal [min,max] for a RaiseTo action once a
// bet is live: current_bet_to_match + last_full_raise_amount <= t <= stack+committed.
func RaiseToBoundsOpened(currentBetToMatch, lastFullRaiseAmount Chips, p PlayerState) RaiseBounds {
	max := p.Stack + p.CommittedThisRound
	min := currentBetToMatch + lastFullRaiseAmount
	if min > max {
		min = max
	}
	return RaiseBounds{Min: min, Max: max}
}

// IsFullRaise reports whether a raise of raiseAmount over the previous bet
// meets or exceeds the last full raise size, and therefore reopens the
// action for players who have already acted this round.
func IsFullRaise(raiseAmount, lastFullRaiseAmount Chips) bool {
	return raiseAmount >= lastFullRaiseAmount
}
