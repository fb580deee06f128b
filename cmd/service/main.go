package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"streamly/internal/logging"
)

func main() {
	app := &cli.Command{
		Name:  "streamly",
		Usage: "Music streaming API",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Optional .env files loaded before reading the environment",
				Value: []string{".env"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logging.New(os.Stderr, "info").Fatal("streamly", "err", err)
	}
}
