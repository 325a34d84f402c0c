// Package config loads CLI and server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// Prefix is prepended to every variable name.
const Prefix = "PARLEY_"

// Config holds the settings shared by every command.
// Flags override the values read here.
type Config struct {
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	Language    string `env:"LANGUAGE"     envDefault:"en"`
	HistoryFile string `env:"HISTORY_FILE" envDefault:".parley/history.json"`
	// Scripts is a directory of Lua hook scripts. Empty means the dialogue directory.
	Scripts string `env:"SCRIPTS"`

	// RedisAddr switches history persistence from the file to Redis.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
	RedisPrefix   string        `env:"REDIS_PREFIX"   envDefault:"parley:"`
	LockTTL       time.Duration `env:"LOCK_TTL"       envDefault:"30s"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// FromMap reads vars instead of the process environment. Keys carry the prefix.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.LanguageTag(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LanguageTag parses Language.
func (c Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", c.Language, err)
	}
	return tag, nil
}

// UsesRedis reports whether history is kept in Redis.
func (c Config) UsesRedis() bool {
	return c.RedisAddr != ""
}
