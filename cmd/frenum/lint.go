package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/terry-li-hm/frenum/internal/config"
	"github.com/terry-li-hm/frenum/internal/lint"
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:  "lint",
		Usage: "Static analysis of policy configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "Path to policy YAML/JSON file"},
		},
		Action: runLint,
	}
}

func runLint(ctx context.Context, c *cli.Command) error {
	configPath := c.String("config")

	version, raws, err := config.LoadPolicyFile(configPath)
	if err != nil {
		return exitCode(2, fmt.Errorf("load policy: %w", err))
	}

	findings := lint.Lint(version, raws)
	if len(findings) == 0 {
		fmt.Println("No issues found.")
		return nil
	}

	errs := lint.Errors(findings)
	warns := lint.Warnings(findings)

	for _, f := range findings {
		prefix := "WARN"
		if f.Severity == "error" {
			prefix = "ERROR"
		}
		ruleCtx := ""
		if f.RuleName != "" {
			ruleCtx = fmt.Sprintf(" [%s]", f.RuleName)
		}
		fmt.Printf("  %s %s%s: %s\n", prefix, f.Code, ruleCtx, f.Message)
	}

	fmt.Printf("\n%d error(s), %d warning(s)\n", len(errs), len(warns))
	if len(errs) > 0 {
		return exitCode(1, nil)
	}
	return nil
}
