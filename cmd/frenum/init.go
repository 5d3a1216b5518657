package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/terry-li-hm/frenum/internal/config"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Scaffold a starter policy.yaml and tests.yaml",
		Action: runInit,
	}
}

func runInit(ctx context.Context, c *cli.Command) error {
	type target struct {
		path    string
		content string
	}
	targets := []target{
		{"policy.yaml", config.StarterPolicy},
		{"tests.yaml", config.StarterTests},
	}

	var wrote []string
	for _, t := range targets {
		if _, err := os.Stat(t.path); err == nil {
			fmt.Fprintf(os.Stderr, "  skip  %s (already exists)\n", t.path)
			continue
		}
		if err := os.WriteFile(t.path, []byte(t.content), 0o644); err != nil {
			return exitCode(2, fmt.Errorf("write %s: %w", t.path, err))
		}
		wrote = append(wrote, t.path)
		fmt.Printf("  wrote %s\n", t.path)
	}

	if len(wrote) > 0 {
		fmt.Println("\nRun: frenum lint --config policy.yaml")
		fmt.Println("     frenum test --config policy.yaml --tests tests.yaml")
	} else {
		fmt.Fprintln(os.Stderr, "\nNothing to write - both files already exist.")
	}

	return nil
}
