package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shashki-online/shashki/internal/game"
	"github.com/shashki-online/shashki/pkg/logging"
	"go.uber.org/zap"
)

// UserStore is the persistence boundary the server depends on: accounts,
// display names and score settlement.
type UserStore interface {
	Register(ctx context.Context, username, password string) (int, error)
	Authenticate(ctx context.Context, username, password string) (int, error)
	Username(ctx context.Context, id int) (string, error)
	ApplyResult(ctx context.Context, winnerID, loserID int) error
	TopPlayers(ctx context.Context, limit int) ([]PlayerScore, error)
}

type PlayerScore struct {
	Username string
	Score    int
}

// Leaderboard is the optional ranking cache kept in sync at settlement.
type Leaderboard interface {
	Seed(ctx context.Context, username string, score float64) error
	Record(ctx context.Context, username string, delta float64) error
	Top(ctx context.Context, n int64) ([]PlayerScore, error)
}

type server struct {
	address  string
	upgrader websocket.Upgrader

	config   Config
	registry *Registry
	users    UserStore
	ranking  Leaderboard
	jwtKey   []byte
}

func NewServer(cfg Config, users UserStore, ranking Leaderboard) *server {
	return &server{
		address: "0.0.0.0:" + cfg.Port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		config:   cfg,
		registry: NewRegistry(),
		users:    users,
		ranking:  ranking,
		jwtKey:   []byte(cfg.JwtSecret),
	}
}

// wsConn serializes writes to one websocket connection; the session
// broadcast and the read loop's own replies share it.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// client is the per-connection state tracked by the read loop.
type client struct {
	id     string
	conn   *wsConn
	userID int
	room   *Room
	seat   *seat
}

// Start runs the websocket endpoint. Each connection gets its own read
// loop; a faulty connection only ever takes down itself and, mid-game,
// its own room.
func (s *server) Start() error {
	http.HandleFunc("/ws", s.handleWS)
	logging.Info("websocket server started", zap.String("port", s.config.Port))
	return http.ListenAndServe(s.address, nil)
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := s.auth(r)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(err.Error()))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &client{
		id:     uuid.NewString(),
		conn:   &wsConn{conn: conn},
		userID: userID,
	}
	logging.Info("client connected",
		zap.String("conn_id", c.id),
		zap.String("remote_address", conn.RemoteAddr().String()),
	)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.handleClose(c)
			logging.Info("connection closed",
				zap.String("conn_id", c.id),
				zap.Error(err),
			)
			break
		}

		var req request
		if err := json.Unmarshal(message, &req); err != nil {
			c.conn.WriteJSON(statusResponse{Status: false, Message: "malformed request"})
			continue
		}
		s.route(c, req)
	}
}

func (s *server) route(c *client, req request) {
	if req.Operation != 0 {
		s.routeOperation(c, req)
		return
	}
	switch req.Command {
	case cmdLogin:
		s.handleLogin(c, req)
	case cmdRegister:
		s.handleRegister(c, req)
	case cmdTopPlayers:
		s.handleTopPlayers(c)
	case cmdCreateRoom:
		s.handleCreateRoom(c, req)
	case cmdListRooms:
		s.handleListRooms(c)
	case cmdJoinRoom:
		s.handleJoinRoom(c, req)
	default:
		c.conn.WriteJSON(statusResponse{Status: false, Message: "unknown command"})
	}
}

func (s *server) routeOperation(c *client, req request) {
	if c.seat == nil || c.room == nil {
		c.conn.WriteJSON(statusResponse{Status: false, Message: "not in a room"})
		return
	}
	session := c.room.Session()
	if session == nil {
		c.conn.WriteJSON(statusResponse{Status: false, Message: "game not started"})
		return
	}
	origin := game.Pos{Row: req.SelectedPiece[0], Col: req.SelectedPiece[1]}
	switch req.Operation {
	case opMove:
		session.processMove(c.seat, origin, game.Pos{Row: req.Row, Col: req.Col})
	case opPossibleMoves:
		session.processPossibleMoves(c.seat, origin)
	case opForfeit:
		session.processForfeit(c.seat)
	default:
		c.conn.WriteJSON(errorResponse{Type: "error", Error: ErrStatusMalformedRequest})
	}
}

// handleClose releases whatever the connection held: a waiting room is
// torn down, an active game is forfeited.
func (s *server) handleClose(c *client) {
	if c.room == nil {
		return
	}
	if session := c.room.Session(); session != nil {
		if !session.isEnded() {
			session.handleDisconnect(c.seat)
		}
		return
	}
	s.registry.Delete(c.room.Number)
	logging.Info("room abandoned before start",
		zap.Int("room_number", c.room.Number),
		zap.String("conn_id", c.id),
	)
}

func (s *server) startSession(room *Room) {
	session := newSession(
		room,
		s.config.TurnTimeout,
		s.settle,
		s.displayName,
		func(r *Room) { s.registry.Delete(r.Number) },
	)
	room.setSession(session)
	logging.Info("game started", zap.Int("room_number", room.Number))

	// Both seats learn the starting position; seat 1 is on turn.
	session.broadcastBoard(game.NewBoard(), false, 0)
}
