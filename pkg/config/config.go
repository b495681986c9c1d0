// Package config loads service settings from the environment
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the service
type Config struct {
	MongoURI        string
	MongoDB         string
	MongoCollection string
	ListenAddr      string
	LogLevel        string
}

// Load reads settings from the environment, falling back to defaults.
// Keys map to upper-cased env vars (mongo_uri -> MONGO_URI).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "userdock")
	v.SetDefault("mongo_collection", "usersData")
	v.SetDefault("listen_addr", ":5050")
	v.SetDefault("log_level", "info")

	v.AutomaticEnv()

	cfg := &Config{
		MongoURI:        v.GetString("mongo_uri"),
		MongoDB:         v.GetString("mongo_db"),
		MongoCollection: v.GetString("mongo_collection"),
		ListenAddr:      v.GetString("listen_addr"),
		LogLevel:        v.GetString("log_level"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI must not be empty")
	}
	if cfg.MongoDB == "" {
		return nil, fmt.Errorf("MONGO_DB must not be empty")
	}
	if cfg.MongoCollection == "" {
		return nil, fmt.Errorf("MONGO_COLLECTION must not be empty")
	}

	return cfg, nil
}
