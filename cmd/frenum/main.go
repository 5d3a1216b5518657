// Command frenum is the guardrail lifecycle CLI: lint a policy,
// replay it against declarative tests, scaffold a new project, watch
// a policy file for edits, or serve it over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var (
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", version, short)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "frenum",
		Usage:   "Guardrail lifecycle CLI for LLM agent tool calls",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error, fatal, panic)",
				Value: "warn",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}
			log.Logger = log.Logger.Level(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			testCommand(),
			lintCommand(),
			initCommand(),
			watchCommand(),
			serveCommand(),
		},
	}

	ctx := context.Background()
	if err := app.Run(ctx, os.Args); err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			if ee.Err != nil {
				fmt.Fprintln(os.Stderr, ee.Err)
			}
			os.Exit(ee.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
