package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"onlinefdr/domain/stream"
)

// BuildMarkdown renders a run artifact as a markdown report: parameters,
// summary figures, and the first few rejections.
func BuildMarkdown(artifact *stream.RunArtifact) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Screening Run %s\n\n", artifact.ID)
	fmt.Fprintf(&b, "Created: %s\n\n", artifact.CreatedAt.Time().Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Parameters\n\n")
	fmt.Fprintf(&b, "| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Variant | %s |\n", artifact.Kind)
	fmt.Fprintf(&b, "| w0 | %g |\n", artifact.W0)
	fmt.Fprintf(&b, "| alpha | %g |\n", artifact.Alpha)
	fmt.Fprintf(&b, "| Tests | %d |\n", artifact.NumTests)
	if artifact.Kind == stream.RunBatch {
		fmt.Fprintf(&b, "| Batches | %d |\n", len(artifact.BatchSizes))
	}
	b.WriteString("\n")

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Rejections | %d |\n", artifact.Summary.Rejections)
	fmt.Fprintf(&b, "| Rejection rate | %.2f%% |\n", artifact.Summary.RejectionRate*100)
	fmt.Fprintf(&b, "| Mean threshold | %.6g |\n", artifact.Summary.MeanThreshold)
	fmt.Fprintf(&b, "| Threshold range | %.6g – %.6g |\n", artifact.Summary.MinThreshold, artifact.Summary.MaxThreshold)
	if artifact.Summary.FirstRejection >= 0 {
		fmt.Fprintf(&b, "| First rejection | test %d |\n", artifact.Summary.FirstRejection)
	} else {
		b.WriteString("| First rejection | none |\n")
	}
	b.WriteString("\n")

	writeRejections(&b, artifact)
	return b.String()
}

const maxListedRejections = 20

func writeRejections(b *strings.Builder, artifact *stream.RunArtifact) {
	thresholds := artifact.Thresholds
	decisions := artifact.Decisions
	if artifact.Kind == stream.RunBatch {
		thresholds = artifact.FlatThresholds()
		decisions = artifact.FlatDecisions()
	}

	b.WriteString("## Rejections\n\n")
	listed, total := 0, 0
	for i, rejected := range decisions {
		if !rejected {
			continue
		}
		total++
		if listed < maxListedRejections {
			fmt.Fprintf(b, "- test %d: p = %.6g at threshold %.6g\n", i, artifact.PValues[i], thresholds[i])
			listed++
		}
	}
	if total == 0 {
		b.WriteString("No rejections.\n")
	} else if total > listed {
		fmt.Fprintf(b, "- ... and %d more\n", total-listed)
	}
}

// RenderHTML converts a markdown report into an HTML fragment
func RenderHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
