// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validEnvs         = []string{"development", "production"}
	validStorageTypes = []string{"memory", "sqlite", "postgres"}
	validCacheTypes   = []string{"memory", "redis"}
)

func genSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	return load(os.Args[1:])
}

func load(args []string) error {
	// A missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read .env file, %w", err)
	}

	flags := pflag.NewFlagSet("gamedash", pflag.ContinueOnError)
	configPath := flags.String("config", "", "Path to a config.toml file")
	flags.Int("port", 8080, "Port to listen on")
	flags.String("log-level", "info", "Log level")
	flags.String("storage", "memory", "Storage backend, one of memory, sqlite or postgres")

	if err := flags.Parse(args); err != nil {
		return err
	}

	v.BindPFlag("host.port", flags.Lookup("port"))
	v.BindPFlag("app.log_level", flags.Lookup("log-level"))
	v.BindPFlag("storage.type", flags.Lookup("storage"))

	if *configPath != "" {
		v.SetConfigFile(*configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("riot.api_key", "RIOT_API_KEY")
	v.BindEnv("steam.api_key", "STEAM_API_KEY")
	v.BindEnv("clash_royale.api_key", "CLASH_ROYALE_API_KEY")

	v.BindEnv("storage.dsn", "STORAGE_DSN", "DATABASE_URL")
	v.BindEnv("security.session_secret", "SESSION_SECRET")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.env", "development")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl_enabled", false)

	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.dsn", "gamedash.db")

	v.SetDefault("auth.echo_otp", false)
	v.SetDefault("auth.passcode_ttl", 10*time.Minute)
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)

	v.SetDefault("security.rate_limit", 0)
	v.SetDefault("security.rate_burst", 20)

	v.SetDefault("turnstile.enabled", false)

	v.SetDefault("mail.port", 587)

	v.SetDefault("upstream.timeout", 15*time.Second)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("archive.enabled", false)

	v.SetDefault("cleanup.interval", 10*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	return validate()
}

func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if !slices.Contains(validEnvs, v.GetString("app.env")) {
		return errors.New("invalid app.env provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	switch v.GetString("storage.type") {
	case "sqlite", "postgres":
		if v.GetString("storage.dsn") == "" {
			return errors.New("storage.dsn can't be empty")
		}
	}

	if !slices.Contains(validStorageTypes, v.GetString("storage.type")) {
		return errors.New("invalid storage type provided")
	}

	if !slices.Contains(validCacheTypes, v.GetString("cache.type")) {
		return errors.New("invalid cache type provided")
	}

	if v.GetDuration("auth.passcode_ttl") <= 0 || v.GetDuration("auth.session_ttl") <= 0 {
		return errors.New("auth ttls must be bigger than 0")
	}

	if v.GetDuration("upstream.timeout") <= 0 {
		return errors.New("upstream.timeout must be bigger than 0")
	}

	if v.GetDuration("cleanup.interval") <= 0 {
		return errors.New("cleanup.interval must be bigger than 0")
	}

	if v.GetString("security.session_secret") == "" {
		v.Set("security.session_secret", genSecret())
		zap.L().Warn("No security.session_secret set, generated a random one. Sessions won't survive a restart")
	} else if len(v.GetString("security.session_secret")) < 32 {
		return errors.New("security.session_secret must be at least 32 characters long")
	}

	if v.GetBool("auth.echo_otp") && v.GetString("app.env") == "production" {
		return errors.New("auth.echo_otp can't be enabled in production")
	}

	if v.GetBool("turnstile.enabled") && v.GetString("turnstile.secret") == "" {
		return errors.New("turnstile secret token is missing")
	}

	if v.GetString("mail.host") != "" && v.GetString("mail.sender") == "" {
		return errors.New("mail.sender can't be empty when mail.host is set")
	}

	if v.GetBool("archive.enabled") && v.GetString("archive.bucket") == "" {
		return errors.New("archive.bucket can't be empty")
	}

	for _, key := range []string{"riot.api_key", "steam.api_key", "clash_royale.api_key"} {
		if v.GetString(key) == "" {
			zap.L().Warn("Upstream api key missing, lookups for that game will fail", zap.String("key", key))
		}
	}

	return nil
}
