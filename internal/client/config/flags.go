package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/flagx"
)

// Flags lists every flag consumed here. The command tree gets the rest
// (see flagx.StripArgs).
var Flags = []string{"-a", "-u", "-d", "-s", "-i"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   analysis service base URL
//	-u string   auth service base URL
//	-d string   data directory
//	-s string   storage driver: sqlite, memory or valkey
//	-i int      online check interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with the command tree.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "analysis service base URL")
	fs.StringVar(&cfg.AuthURL, "u", cfg.AuthURL, "auth service base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver (sqlite, memory, valkey)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
