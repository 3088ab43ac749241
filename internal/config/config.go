package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
)

// Config holds the server settings. Flags take precedence over the
// CHESS_* environment variables, which take precedence over defaults.
type Config struct {
	Addr    string
	Origin  string
	DataDir string
}

var (
	ErrInvalidAddr   = errors.New("invalid listen address")
	ErrInvalidOrigin = errors.New("invalid CORS origin")
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// Load parses args (without the program name) on top of the environment.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var cfg Config
	fs.StringVar(&cfg.Addr, "addr", envOr("CHESS_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.Origin, "origin", envOr("CHESS_ORIGIN", "http://localhost:5173"), "allowed CORS origin")
	fs.StringVar(&cfg.DataDir, "data", envOr("CHESS_DATA", ""), "badger data directory, empty keeps games in memory")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidAddr, c.Addr, err)
	}
	if !strings.HasPrefix(c.Origin, "http://") && !strings.HasPrefix(c.Origin, "https://") {
		return fmt.Errorf("%w %q", ErrInvalidOrigin, c.Origin)
	}
	return nil
}

// InMemory reports whether games are kept only for the life of the process.
func (c Config) InMemory() bool {
	return c.DataDir == ""
}
