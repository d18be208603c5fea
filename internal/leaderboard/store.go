// Package leaderboard keeps player scores in a Redis sorted set so the
// top-players listing does not hit the database on every lobby refresh.
package leaderboard

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/shashki-online/shashki/internal/app/server"
)

const rankingKey = "shashki:ranking"

type Store struct {
	rdb *redis.Client
}

func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Store{rdb: redis.NewClient(opts)}, nil
}

func NewStoreWithClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// Seed sets the player's score, used when an account is created.
func (s *Store) Seed(ctx context.Context, username string, score float64) error {
	return s.rdb.ZAdd(ctx, rankingKey, redis.Z{Score: score, Member: username}).Err()
}

// Record shifts the player's score by delta after a settlement.
func (s *Store) Record(ctx context.Context, username string, delta float64) error {
	return s.rdb.ZIncrBy(ctx, rankingKey, delta, username).Err()
}

// Top returns the n best players, highest score first.
func (s *Store) Top(ctx context.Context, n int64) ([]server.PlayerScore, error) {
	entries, err := s.rdb.ZRevRangeWithScores(ctx, rankingKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	scores := make([]server.PlayerScore, 0, len(entries))
	for _, e := range entries {
		name, ok := e.Member.(string)
		if !ok {
			continue
		}
		scores = append(scores, server.PlayerScore{
			Username: name,
			Score:    int(e.Score),
		})
	}
	return scores, nil
}
