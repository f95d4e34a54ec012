package config

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type RedisSettings struct {
	Address  string
	Password string
	DB       int
}

type Config struct {
	// Server port
	Port      string
	AppEnv    string
	LogLevel  string
	JWTSecret string
	// Lifetime of bearer tokens issued at sign-in
	TokenDuration time.Duration
	// Digest algorithm for the credential store: md5 (default), sha1, sha256.
	// Changing it invalidates every digest persisted under the old one.
	HashAlgorithm string
	// Storage driver for credentials: sqlite (default) or redis
	StorageDriver string
	SQLitePath    string
	RedisSettings RedisSettings
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TOKEN_DURATION", "1h")
	viper.SetDefault("HASH_ALGORITHM", "md5")
	viper.SetDefault("STORAGE_DRIVER", "sqlite")
	viper.SetDefault("SQLITE_PATH", "credentials.db")
	viper.SetDefault("REDIS_ADDRESS", "localhost:6379")

	// Load configuration
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg := &Config{
		Port:          viper.GetString("PORT"),
		AppEnv:        viper.GetString("APP_ENV"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		JWTSecret:     jwtSecret,
		TokenDuration: viper.GetDuration("TOKEN_DURATION"),
		HashAlgorithm: viper.GetString("HASH_ALGORITHM"),
		StorageDriver: strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		SQLitePath:    viper.GetString("SQLITE_PATH"),
		RedisSettings: RedisSettings{
			Address:  viper.GetString("REDIS_ADDRESS"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
	}

	if _, err := cfg.HashFunc(); err != nil {
		return nil, err
	}
	if cfg.StorageDriver != "sqlite" && cfg.StorageDriver != "redis" {
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// HashFunc resolves the configured digest constructor for the credential
// store.
func (c *Config) HashFunc() (func() hash.Hash, error) {
	switch strings.ToLower(c.HashAlgorithm) {
	case "", "md5":
		return md5.New, nil
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	}
	return nil, fmt.Errorf("unsupported hash algorithm %q", c.HashAlgorithm)
}
