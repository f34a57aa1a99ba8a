package config

import (
	"errors"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// Config holds runtime settings for the taskkeeper CLI.
type Config struct {
	ServerURL      string
	SessionDir     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionDir = ".taskkeeper"
	c.RequestTimeout = 10 * time.Second
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server url is required")
	}
	if c.SessionDir == "" {
		return errors.New("session dir is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

// LoadConfig constructs a Config from defaults, the optional config file and
// command-line flags, in that order.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Args returns the command line with every config flag removed: the
// subcommand followed by its own arguments.
func Args() []string {
	return flagx.Positional(os.Args[1:], append([]string{"-c", "-config"}, clientFlags...))
}
