package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/terry-li-hm/frenum/internal/runner"
)

// reportTemplate renders the same data RenderText and RenderJSON see,
// through html/template so every value is contextually escaped —
// policy authors' descriptions and tool names end up in the document,
// and html/template is the one part of the corpus's stack that can
// guarantee that's safe without a hand-rolled escaper.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>frenum guardrail regression report</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 900px; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #d1d5db; padding: 0.5rem; text-align: left; }
th { background: #f3f4f6; }
.pass { color: #15803d; font-weight: 600; }
.fail { color: #b91c1c; font-weight: 600; }
.bar { background: #e5e7eb; border-radius: 4px; height: 12px; overflow: hidden; }
.bar-fill { background: #15803d; height: 100%; }
.meta { color: #6b7280; font-size: 0.875rem; }
</style>
</head>
<body>
<h1>frenum guardrail regression report</h1>
<p class="meta">{{.Passed}}/{{.Total}} passed &middot; evidence hash {{.EvidenceHash}}</p>
<table>
<tr><th>Test</th><th>Expected</th><th>Actual</th><th>Blocking rule</th><th>Status</th></tr>
{{range .Rows}}<tr>
<td>{{.Description}}</td>
<td>{{.Expected}}</td>
<td>{{.Actual}}</td>
<td>{{.BlockingRule}}</td>
<td class="{{if .Passed}}pass{{else}}fail{{end}}">{{if .Passed}}PASS{{else}}FAIL{{end}}</td>
</tr>
{{end}}</table>
<h2>Coverage: {{.Coverage.CoveragePct}}%</h2>
<div class="bar"><div class="bar-fill" style="width:{{.Coverage.CoveragePct}}%"></div></div>
<p>{{.Coverage.Exercised}}/{{.Coverage.TotalDeterministic}} deterministic rules exercised</p>
{{if .NotExercised}}<p>Not exercised: {{.NotExercised}}</p>{{end}}
{{if .Semantic}}<p>Semantic (manual validation required): {{.Semantic}}</p>{{end}}
</body>
</html>
`))

type htmlRow struct {
	Description  string
	Expected     string
	Actual       string
	BlockingRule string
	Passed       bool
}

type htmlData struct {
	Rows         []htmlRow
	Coverage     runner.Coverage
	NotExercised string
	Semantic     string
	Passed       int
	Total        int
	EvidenceHash string
}

// RenderHTML renders a table-plus-progress-bar report. Output is
// deterministic for the same inputs: html/template's escaping is a
// pure function of its input, so two runs produce byte-identical HTML.
func RenderHTML(outcomes []runner.Outcome, coverage runner.Coverage) (string, error) {
	data := htmlData{
		Coverage:     coverage,
		NotExercised: strings.Join(coverage.RulesNotExercised, ", "),
		Semantic:     strings.Join(coverage.SemanticRules, ", "),
		Total:        len(outcomes),
		EvidenceHash: EvidenceHash(outcomes, coverage),
	}
	for _, o := range outcomes {
		if o.Passed {
			data.Passed++
		}
		data.Rows = append(data.Rows, htmlRow{
			Description:  o.Case.Description,
			Expected:     string(o.Case.Expected),
			Actual:       string(o.ActualDecision),
			BlockingRule: o.ActualBlockingRule,
			Passed:       o.Passed,
		})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}
	return buf.String(), nil
}
