// Package report renders batch comparison outcomes as markdown and HTML
// for the API report endpoint and the CLI batch command.
package report

import (
	"fmt"
	"strings"

	"gobayes/app"
	"gobayes/domain/core"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// BuildMarkdown renders a batch outcome as a markdown document: one table
// row per candidate plus the aggregate summary.
func BuildMarkdown(baseline core.EntityKey, outcome *app.BatchOutcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Comparison report: baseline %s\n\n", baseline)
	fmt.Fprintf(&b, "Baseline posterior: %s (mean %.4f)\n\n", outcome.Baseline, outcome.Baseline.Mean())

	b.WriteString("| Candidate | P(candidate > baseline) | Estimate | Interval |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, entry := range outcome.Entries {
		ci := entry.Interval
		fmt.Fprintf(&b, "| %s | %.4f | %+.5f | [%+.5f, %+.5f] @ %.0f%% |\n",
			entry.Entity, ci.PosteriorProb, ci.Estimate, ci.Low, ci.High, ci.Level*100)
	}

	s := outcome.Summary
	fmt.Fprintf(&b, "\n**Summary**: %d candidates, %d favored over the baseline. ", s.Candidates, s.FavoredCount)
	if s.Candidates > 0 {
		fmt.Fprintf(&b, "Estimates range %+.5f to %+.5f (mean %+.5f).", s.MinEstimate, s.MaxEstimate, s.MeanEstimate)
	}
	b.WriteString("\n")

	return b.String()
}

// RenderHTML converts a markdown report to an HTML fragment.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
