package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/terry-li-hm/frenum/internal/config"
	"github.com/terry-li-hm/frenum/internal/engine"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Reload a policy file on every change and log the resulting rule count",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "Path to policy YAML/JSON file"},
		},
		Action: runWatch,
	}
}

func buildEvaluator(path string) (*engine.Evaluator, error) {
	version, raws, err := config.LoadPolicyFile(path)
	if err != nil {
		return nil, err
	}
	return engine.New(version, raws)
}

func runWatch(ctx context.Context, c *cli.Command) error {
	configPath := c.String("config")

	ev, err := buildEvaluator(configPath)
	if err != nil {
		return exitCode(2, fmt.Errorf("load policy: %w", err))
	}
	store := engine.NewStore(ev)

	watcher, err := engine.Watch(configPath, store, func() (*engine.Evaluator, error) {
		return buildEvaluator(configPath)
	})
	if err != nil {
		return exitCode(2, fmt.Errorf("start watcher: %w", err))
	}
	defer watcher.Close()

	log.Info().Str("config", configPath).Int("rules", len(ev.Policy().Rules)).Msg("watching policy for changes")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	return nil
}
