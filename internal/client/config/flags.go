package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

var clientFlags = []string{"-a", "-s", "-t"}

// parseFlags populates Config fields from the global flags. Subcommand flags
// are left alone.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], clientFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the taskkeeper API")
	fs.StringVar(&cfg.SessionDir, "s", cfg.SessionDir, "session directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
