package config

import (
	"flag"
	"os"

	"github.com/fgodoybr/frotacontrol/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   credential store DSN
//	-f string   local state database file
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "credential store DSN")
	fs.StringVar(&cfg.LocalDBPath, "f", cfg.LocalDBPath, "local state database file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
