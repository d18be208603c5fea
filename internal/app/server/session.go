package server

import (
	"sync"
	"time"

	"github.com/shashki-online/shashki/internal/game"
	"github.com/shashki-online/shashki/pkg/logging"
	"go.uber.org/zap"
)

type command struct {
	seat   *seat
	op     int
	origin game.Pos
	dest   game.Pos
}

// Session drives one active room. A single goroutine drains cmdCh, so
// moves within a room are strictly serialized; the registry lock is
// never held during gameplay. The turn timer is owned by the session
// and reset on every accepted move, so a stalled client forfeits even
// if it never reports its own timeout.
type Session struct {
	room        *Room
	turnTimeout time.Duration

	cmdCh chan command
	done  chan struct{}
	timer *time.Timer

	settleFn func(winnerID, loserID int)
	nameFn   func(userID int) string
	onEnd    func(room *Room)

	mu    sync.Mutex
	board game.Board
	turn  int
	ended bool
}

func newSession(
	room *Room,
	turnTimeout time.Duration,
	settleFn func(winnerID, loserID int),
	nameFn func(userID int) string,
	onEnd func(room *Room),
) *Session {
	s := &Session{
		room:        room,
		turnTimeout: turnTimeout,
		cmdCh:       make(chan command, 4),
		done:        make(chan struct{}),
		timer:       time.NewTimer(turnTimeout),
		settleFn:    settleFn,
		nameFn:      nameFn,
		onEnd:       onEnd,
		board:       game.NewBoard(),
		turn:        1,
	}
	go s.run()
	go s.watchTimer()
	return s
}

func (s *Session) run() {
	for {
		select {
		case <-s.done:
			return
		case cmd := <-s.cmdCh:
			switch cmd.op {
			case opMove:
				s.handleMove(cmd.seat, cmd.origin, cmd.dest)
			case opPossibleMoves:
				s.handlePossibleMoves(cmd.seat, cmd.origin)
			case opForfeit:
				logging.Info("seat forfeited",
					zap.Int("room_number", s.room.Number),
					zap.Int("seat", cmd.seat.Index),
				)
				s.finish(cmd.seat)
			}
		}
	}
}

func (s *Session) watchTimer() {
	for {
		select {
		case <-s.done:
			return
		case <-s.timer.C:
			s.expireTurn()
		}
	}
}

func (s *Session) enqueue(cmd command) {
	select {
	case s.cmdCh <- cmd:
	case <-s.done:
	}
}

func (s *Session) processMove(st *seat, origin, dest game.Pos) {
	s.enqueue(command{seat: st, op: opMove, origin: origin, dest: dest})
}

func (s *Session) processPossibleMoves(st *seat, origin game.Pos) {
	s.enqueue(command{seat: st, op: opPossibleMoves, origin: origin})
}

func (s *Session) processForfeit(st *seat) {
	s.enqueue(command{seat: st, op: opForfeit})
}

func (s *Session) handleMove(st *seat, origin, dest game.Pos) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	if st.Index != s.turn {
		s.mu.Unlock()
		st.writeJSON(errorResponse{Type: "error", Error: ErrStatusWrongTurn})
		return
	}

	next, mustContinue, outcome, err := game.ApplyMove(s.board, dest.Row, dest.Col, origin, st.side())
	if err != nil {
		s.mu.Unlock()
		st.writeJSON(errorResponse{Type: "error", Error: ErrStatusInvalidMove})
		return
	}
	s.board = next

	if outcome != game.Ongoing {
		s.mu.Unlock()
		s.broadcastBoard(next, false, int(outcome))
		s.finish(s.opponentOf(st))
		return
	}

	if mustContinue {
		// Capture chain: the same seat stays on turn.
		s.timer.Reset(s.turnTimeout)
		s.mu.Unlock()
		s.broadcastBoard(next, true, 0)
		return
	}

	other := s.opponentOf(st)
	s.turn = other.Index
	if !next.HasAnyLegalMove(other.side()) {
		// The side left without a move loses.
		s.mu.Unlock()
		s.broadcastBoard(next, false, sideStatus(st.side()))
		s.finish(other)
		return
	}
	s.timer.Reset(s.turnTimeout)
	s.mu.Unlock()

	logging.Info("new turn",
		zap.Int("room_number", s.room.Number),
		zap.Int("seat", other.Index),
	)
	s.broadcastBoard(next, false, 0)
}

func (s *Session) handlePossibleMoves(st *seat, origin game.Pos) {
	s.mu.Lock()
	board := s.board
	s.mu.Unlock()

	dests := board.LegalDestinations(origin.Row, origin.Col, st.side())
	moves := make([][2]int, 0, len(dests))
	for _, d := range dests {
		moves = append(moves, [2]int{d.Row, d.Col})
	}
	st.writeJSON(possibleMovesResponse{PossibleMoves: moves})
}

// handleDisconnect treats a dropped connection during an active game as
// a forfeit by that seat.
func (s *Session) handleDisconnect(st *seat) {
	logging.Info("seat disconnected",
		zap.Int("room_number", s.room.Number),
		zap.Int("seat", st.Index),
	)
	s.finish(st)
}

func (s *Session) expireTurn() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	idx := s.turn
	s.mu.Unlock()

	logging.Info("turn timer expired",
		zap.Int("room_number", s.room.Number),
		zap.Int("seat", idx),
	)
	s.finish(s.room.Seats[idx-1])
}

func (s *Session) broadcastBoard(b game.Board, continueStep bool, status int) {
	resp := boardResponse{
		Pieces:       boardCells(b),
		ContinueStep: continueStep,
		GameStatus:   status,
	}
	var lost *seat
	for _, st := range s.room.Seats {
		if err := st.writeJSON(resp); err != nil {
			logging.Error("couldn't notify seat",
				zap.Int("room_number", s.room.Number),
				zap.Int("seat", st.Index),
				zap.Error(err),
			)
			lost = st
		}
	}
	// A failed write only forfeits the unreachable seat while the game
	// is undecided; a terminal broadcast already has its loser, and
	// finish follows with that seat.
	if lost != nil && status == 0 {
		s.finish(lost)
	}
}

// finish settles and tears the room down, declaring loser's opponent the
// winner. Idempotent; whichever of move handling, timer expiry or
// disconnect gets here first wins.
func (s *Session) finish(loser *seat) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.mu.Unlock()

	close(s.done)
	s.timer.Stop()

	winner := s.opponentOf(loser)
	go s.settleFn(winner.UserID, loser.UserID)

	resp := resultResponse{
		WinnerUsername: s.nameFn(winner.UserID),
		GameStatus:     sideStatus(winner.side()),
	}
	for _, st := range s.room.Seats {
		if err := st.writeJSON(resp); err != nil {
			logging.Error("couldn't send result",
				zap.Int("room_number", s.room.Number),
				zap.Int("seat", st.Index),
				zap.Error(err),
			)
		}
	}
	for _, st := range s.room.Seats {
		st.close()
	}

	logging.Info("game ended",
		zap.Int("room_number", s.room.Number),
		zap.Int("winner_user_id", winner.UserID),
	)
	s.onEnd(s.room)
}

func (s *Session) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Session) opponentOf(st *seat) *seat {
	for _, other := range s.room.Seats {
		if other.Index != st.Index {
			return other
		}
	}
	return st
}

func sideStatus(side game.Side) int {
	return int(side)
}

func boardCells(b game.Board) [8][8]int {
	var cells [8][8]int
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			cells[row][col] = int(b[row][col])
		}
	}
	return cells
}
