package betting

import "errors"

var (
	ErrWrongTurn        = errors.New("betting: not this seat's turn")
	ErrIllegalAction    = errors.New("betting: illegal action")
	ErrUnknownSeat      = errors.New("betting: unknown seat")
	ErrInvariantViolated = errors.New("betting: invariant violated")
)
