package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashki-online/shashki/pkg/logging"
	"go.uber.org/zap"
)

func (s *server) handleLogin(c *client, req request) {
	userID, err := s.users.Authenticate(context.Background(), req.Username, req.Password)
	if err != nil {
		c.conn.WriteJSON(authResponse{Status: false, Message: err.Error()})
		return
	}
	c.userID = userID

	token, err := s.issueToken(userID)
	if err != nil {
		logging.Error("failed to issue token", zap.Error(err))
	}
	c.conn.WriteJSON(authResponse{Status: true, UserID: userID, Token: token})
	logging.Info("user logged in",
		zap.String("conn_id", c.id),
		zap.Int("user_id", userID),
	)
}

func (s *server) handleRegister(c *client, req request) {
	userID, err := s.users.Register(context.Background(), req.Username, req.Password)
	if err != nil {
		c.conn.WriteJSON(authResponse{Status: false, Message: err.Error()})
		return
	}
	c.userID = userID

	if s.ranking != nil {
		if err := s.ranking.Seed(context.Background(), req.Username, initialScore); err != nil {
			logging.Error("failed to seed ranking", zap.Error(err))
		}
	}
	token, err := s.issueToken(userID)
	if err != nil {
		logging.Error("failed to issue token", zap.Error(err))
	}
	c.conn.WriteJSON(authResponse{Status: true, UserID: userID, Token: token})
	logging.Info("user registered",
		zap.String("conn_id", c.id),
		zap.Int("user_id", userID),
	)
}

func (s *server) handleTopPlayers(c *client) {
	scores := s.topScores()
	lines := make([]string, 0, len(scores))
	for i, p := range scores {
		lines = append(lines, fmt.Sprintf("%d: %s: %d points", i+1, p.Username, p.Score))
	}
	c.conn.WriteJSON(topPlayersResponse{Status: true, Message: lines})
}

// topScores prefers the ranking cache and falls back to the user store.
func (s *server) topScores() []PlayerScore {
	if s.ranking != nil {
		scores, err := s.ranking.Top(context.Background(), topPlayersLimit)
		if err == nil && len(scores) > 0 {
			return scores
		}
		if err != nil {
			logging.Error("ranking cache unavailable", zap.Error(err))
		}
	}
	scores, err := s.users.TopPlayers(context.Background(), topPlayersLimit)
	if err != nil {
		logging.Error("failed to query top players", zap.Error(err))
		return nil
	}
	return scores
}

func (s *server) handleCreateRoom(c *client, req request) {
	userID := s.resolveUserID(c, req)
	if userID == 0 {
		c.conn.WriteJSON(statusResponse{Status: false, Message: ErrUnauthorized.Error()})
		return
	}
	if err := s.releaseSeat(c); err != nil {
		c.conn.WriteJSON(statusResponse{Status: false, Message: err.Error()})
		return
	}
	room, st := s.registry.Create(userID, c.conn)
	c.room, c.seat = room, st
	c.conn.WriteJSON(roomResponse{Status: true, ClientNumber: st.Index, RoomNumber: room.Number})
	logging.Info("room created",
		zap.Int("room_number", room.Number),
		zap.Int("user_id", userID),
	)
}

func (s *server) handleJoinRoom(c *client, req request) {
	userID := s.resolveUserID(c, req)
	if userID == 0 {
		c.conn.WriteJSON(statusResponse{Status: false, Message: ErrUnauthorized.Error()})
		return
	}
	if err := s.releaseSeat(c); err != nil {
		c.conn.WriteJSON(statusResponse{Status: false, Message: err.Error()})
		return
	}
	room, st, err := s.registry.Join(userID, c.conn, req.RoomNumber)
	if err != nil {
		c.conn.WriteJSON(statusResponse{Status: false, Message: err.Error()})
		return
	}
	c.room, c.seat = room, st
	c.conn.WriteJSON(roomResponse{Status: true, ClientNumber: st.Index, RoomNumber: room.Number})
	logging.Info("room joined",
		zap.Int("room_number", room.Number),
		zap.Int("user_id", userID),
	)
	s.startSession(room)
}

func (s *server) handleListRooms(c *client) {
	statuses := s.registry.List()
	rooms := make([]roomInfo, 0, len(statuses))
	for _, st := range statuses {
		rooms = append(rooms, roomInfo{
			RoomID:      st.Number,
			Creator:     s.displayName(st.CreatorID),
			PlayerCount: st.PlayerCount,
		})
	}
	c.conn.WriteJSON(roomListResponse{Status: true, Message: rooms})
}

// releaseSeat frees whatever seat the connection already holds before
// it takes a new one. A waiting room it created is torn down so the
// listing does not accumulate abandoned rooms; an active game cannot be
// left this way.
func (s *server) releaseSeat(c *client) error {
	if c.room == nil {
		return nil
	}
	session := c.room.Session()
	if session != nil && !session.isEnded() {
		return ErrInGame
	}
	if session == nil {
		s.registry.Delete(c.room.Number)
		logging.Info("waiting room abandoned on re-seat",
			zap.Int("room_number", c.room.Number),
			zap.String("conn_id", c.id),
		)
	}
	c.room, c.seat = nil, nil
	return nil
}

// resolveUserID prefers the identity established on this connection
// (token or login) over the id claimed in the request.
func (s *server) resolveUserID(c *client, req request) int {
	if c.userID != 0 {
		return c.userID
	}
	if req.UserID > 0 {
		c.userID = req.UserID
		return req.UserID
	}
	return 0
}

// settle adjusts both players' persisted scores and the ranking cache.
// Best effort: failures are logged, never propagated into the session.
func (s *server) settle(winnerID, loserID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.users.ApplyResult(ctx, winnerID, loserID); err != nil {
		logging.Error("score settlement failed",
			zap.Int("winner_user_id", winnerID),
			zap.Int("loser_user_id", loserID),
			zap.Error(err),
		)
	}
	if s.ranking == nil {
		return
	}
	for _, adj := range []struct {
		userID int
		delta  float64
	}{
		{winnerID, scoreDelta},
		{loserID, -scoreDelta},
	} {
		name, err := s.users.Username(ctx, adj.userID)
		if err != nil {
			continue
		}
		if err := s.ranking.Record(ctx, name, adj.delta); err != nil {
			logging.Error("ranking update failed", zap.Error(err))
		}
	}
}

// displayName resolves a user id for result broadcasts and room lists,
// falling back to a placeholder for missing users.
func (s *server) displayName(userID int) string {
	name, err := s.users.Username(context.Background(), userID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			logging.Error("username lookup failed", zap.Int("user_id", userID), zap.Error(err))
		}
		return "unknown"
	}
	return name
}

const (
	initialScore    = 500
	scoreDelta      = 25
	topPlayersLimit = 10
)
