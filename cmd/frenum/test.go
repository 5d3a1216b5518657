package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/terry-li-hm/frenum/internal/config"
	"github.com/terry-li-hm/frenum/internal/engine"
	"github.com/terry-li-hm/frenum/internal/report"
	"github.com/terry-li-hm/frenum/internal/runner"
)

func testCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Run guardrail regression tests against a policy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "Path to policy YAML/JSON file"},
			&cli.StringFlag{Name: "tests", Required: true, Usage: "Path to test YAML/JSON file or directory"},
			&cli.StringFlag{Name: "format", Value: "text", Usage: "Output format: text, json, or html"},
			&cli.StringFlag{Name: "output", Usage: "Write report to file (default: stdout)"},
			&cli.FloatFlag{Name: "min-coverage", Usage: "Fail if coverage drops below this percentage (0-100)"},
		},
		Action: runTest,
	}
}

func runTest(ctx context.Context, c *cli.Command) error {
	configPath := c.String("config")
	testsPath := c.String("tests")

	version, raws, err := config.LoadPolicyFile(configPath)
	if err != nil {
		return exitCode(2, fmt.Errorf("load policy: %w", err))
	}

	cases, err := config.LoadTestsPath(testsPath)
	if err != nil {
		return exitCode(2, fmt.Errorf("load tests: %w", err))
	}

	ev, err := engine.New(version, raws)
	if err != nil {
		return exitCode(2, fmt.Errorf("compile policy: %w", err))
	}

	outcomes := runner.Run(ev, cases)
	coverage := runner.ComputeCoverage(ev.Policy(), outcomes)

	output, err := renderReport(c.String("format"), outcomes, coverage)
	if err != nil {
		return exitCode(2, err)
	}

	if path := c.String("output"); path != "" {
		if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
			return exitCode(2, fmt.Errorf("write report: %w", err))
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	} else {
		fmt.Println(output)
	}

	for _, o := range outcomes {
		if !o.Passed {
			return exitCode(1, nil)
		}
	}

	if c.IsSet("min-coverage") {
		threshold := c.Float("min-coverage")
		if coverage.CoveragePct < threshold {
			fmt.Fprintf(os.Stderr, "Coverage %.1f%% below threshold %.1f%%\n", coverage.CoveragePct, threshold)
			return exitCode(1, nil)
		}
	}

	return nil
}

func renderReport(format string, outcomes []runner.Outcome, coverage runner.Coverage) (string, error) {
	switch format {
	case "json":
		data, err := report.RenderJSON(outcomes, coverage)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "html":
		return report.RenderHTML(outcomes, coverage)
	default:
		return report.RenderText(outcomes, coverage), nil
	}
}
