package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/visionaq/internal/client/cli"
	"github.com/dmitrijs2005/visionaq/internal/client/config"
	"github.com/dmitrijs2005/visionaq/internal/flagx"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// config flags were consumed by LoadConfig; cobra gets the rest
	consumed := append(append([]string{}, config.Flags...), flagx.ConfigFileFlags...)

	root := cli.NewRootCommand(cfg, logger)
	root.SetArgs(flagx.StripArgs(os.Args[1:], consumed))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

}
