package main

import (
	"context"

	"github.com/shashki-online/shashki/internal/app/server"
	"github.com/shashki-online/shashki/internal/leaderboard"
	"github.com/shashki-online/shashki/internal/storage"
	"github.com/shashki-online/shashki/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	cfg := server.NewConfig()
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	defer logging.Sync()

	users, err := storage.NewStore(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to open user store", zap.Error(err))
	}
	defer users.Close()
	if err := users.EnsureSchema(context.Background()); err != nil {
		logging.Fatal("failed to ensure schema", zap.Error(err))
	}

	var ranking server.Leaderboard
	if cfg.RedisURL != "" {
		store, err := leaderboard.NewStore(cfg.RedisURL)
		if err != nil {
			logging.Fatal("failed to open ranking store", zap.Error(err))
		}
		defer store.Close()
		ranking = store
	}

	logging.Fatal("Game server exited: ", zap.Error(
		server.NewServer(cfg, users, ranking).Start(),
	))
}
