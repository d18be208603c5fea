package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	TurnTimeout time.Duration
	LogLevel    string
	LogFormat   string

	DatabaseURL string
	RedisURL    string
	JwtSecret   string
}

func NewConfig() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs/server")
	viper.AddConfigPath(".")

	viper.SetDefault("Server.Port", "43000")
	viper.SetDefault("Server.TurnTimeout", "25s")
	viper.SetDefault("Server.LogLevel", "info")
	viper.SetDefault("Server.LogFormat", "console")

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	turnTimeout, err := time.ParseDuration(viper.GetString("Server.TurnTimeout"))
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	return Config{
		Port:        viper.GetString("Server.Port"),
		TurnTimeout: turnTimeout,
		LogLevel:    viper.GetString("Server.LogLevel"),
		LogFormat:   viper.GetString("Server.LogFormat"),
		DatabaseURL: viper.GetString("DATABASE_URL"),
		RedisURL:    viper.GetString("REDIS_URL"),
		JwtSecret:   viper.GetString("JWT_SECRET"),
	}
}
