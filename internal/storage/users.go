// Package storage persists user accounts and scores in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shashki-online/shashki/internal/app/server"
	"golang.org/x/crypto/bcrypt"
)

const initialScore = 500

type Store struct {
	db *sql.DB
}

func NewStore(databaseURL string) (*Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// EnsureSchema creates the users table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 500
		)`)
	return err
}

// Register creates the account with the default score and returns its id.
func (s *Store) Register(ctx context.Context, username, password string) (int, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, server.ErrBadCredential
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	var id int
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password, score) VALUES ($1, $2, $3) RETURNING id`,
		username, string(hash), initialScore,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, server.ErrUsernameTaken
		}
		return 0, err
	}
	return id, nil
}

func (s *Store) Authenticate(ctx context.Context, username, password string) (int, error) {
	var (
		id   int
		hash string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password FROM users WHERE username = $1`, username,
	).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, server.ErrBadCredential
	}
	if err != nil {
		return 0, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return 0, server.ErrBadCredential
	}
	return id, nil
}

func (s *Store) Username(ctx context.Context, id int) (string, error) {
	var username string
	err := s.db.QueryRowContext(ctx,
		`SELECT username FROM users WHERE id = $1`, id,
	).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", server.ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

// ApplyResult settles one finished game: winner +25, loser -25, in one
// transaction.
func (s *Store) ApplyResult(ctx context.Context, winnerID, loserID int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET score = score + 25 WHERE id = $1`, winnerID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET score = score - 25 WHERE id = $1`, loserID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) TopPlayers(ctx context.Context, limit int) ([]server.PlayerScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, score FROM users ORDER BY score DESC, username ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []server.PlayerScore
	for rows.Next() {
		var p server.PlayerScore
		if err := rows.Scan(&p.Username, &p.Score); err != nil {
			return nil, err
		}
		scores = append(scores, p)
	}
	return scores, rows.Err()
}

// DeleteUser removes the account. Unknown ids are a no-op.
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
