package game

type Outcome int

const (
	Ongoing   Outcome = 0
	SideAWins Outcome = 1
	SideBWins Outcome = 2
)

func winnerOutcome(side Side) Outcome {
	if side == SideA {
		return SideAWins
	}
	return SideBWins
}

// ApplyMove moves side's piece from origin to (destRow, destCol) and
// returns the resulting board. The original board is left untouched.
//
// mustContinue is true when the move was a capture and the piece can
// capture again from its new square, in which case the turn stays with
// the same side. The outcome is decided purely by the opponent's
// remaining piece count; running out of moves is the coordinator's
// concern.
func ApplyMove(b Board, destRow, destCol int, origin Pos, side Side) (Board, bool, Outcome, error) {
	legal := false
	for _, dest := range b.LegalDestinations(origin.Row, origin.Col, side) {
		if dest.Row == destRow && dest.Col == destCol {
			legal = true
			break
		}
	}
	if !legal {
		return b, false, Ongoing, ErrInvalidMove
	}

	b[origin.Row][origin.Col] = Empty
	b[destRow][destCol] = side

	capture := destRow-origin.Row == 2*side.forward()
	if capture {
		b[(origin.Row+destRow)/2][(origin.Col+destCol)/2] = Empty
	}

	if b.PieceCount(side.Opponent()) == 0 {
		return b, false, winnerOutcome(side), nil
	}

	mustContinue := capture && b.hasCaptureFrom(destRow, destCol, side)
	return b, mustContinue, Ongoing, nil
}
