package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/terry-li-hm/frenum/internal/engine"
	"github.com/terry-li-hm/frenum/internal/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the evaluator, audit log, and report API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "Path to policy YAML/JSON file"},
			&cli.BoolFlag{Name: "reload", Usage: "Reload the policy whenever --config changes on disk"},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, c *cli.Command) error {
	configPath := c.String("config")

	ev, err := buildEvaluator(configPath)
	if err != nil {
		return exitCode(2, fmt.Errorf("load policy: %w", err))
	}
	store := engine.NewStore(ev)

	if c.Bool("reload") {
		watcher, err := engine.Watch(configPath, store, func() (*engine.Evaluator, error) {
			return buildEvaluator(configPath)
		})
		if err != nil {
			return exitCode(2, fmt.Errorf("start watcher: %w", err))
		}
		defer watcher.Close()
	}

	cfg := server.LoadConfig()
	srv := server.New(cfg, store)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	return srv.Shutdown(ctx)
}
