package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsphweid/harmonycheck/model"
)

type TextOptions struct {
	Color       bool
	Suggestions bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	severityFg   = map[model.Severity]lipgloss.Color{model.High: "196", model.Medium: "214", model.Low: "69"}
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
)

type painter struct {
	color bool
}

func (p painter) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p painter) severity(s model.Severity) string {
	return p.paint(lipgloss.NewStyle().Foreground(severityFg[s]).Bold(s == model.High), s.String())
}

// WriteText renders the plain-text report.
func WriteText(w io.Writer, r *model.AnalysisReport, opts TextOptions) error {
	p := painter{color: opts.Color}
	var b strings.Builder

	title := "Harmony Analysis Report"
	if r.Filename != "" {
		title += ": " + r.Filename
	}
	b.WriteString(p.paint(titleStyle, title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	fmt.Fprintf(&b, "%s %s\n", p.paint(labelStyle, "Key:"), r.Metadata.Key)
	fmt.Fprintf(&b, "%s %s\n", p.paint(labelStyle, "Time Signature:"), r.Metadata.TimeSignature)
	fmt.Fprintf(&b, "%s %d\n", p.paint(labelStyle, "Total Measures:"), r.Metadata.Measures)
	fmt.Fprintf(&b, "%s %d\n", p.paint(labelStyle, "Number of Voices:"), r.Metadata.Voices)
	fmt.Fprintf(&b, "%s %d\n", p.paint(labelStyle, "Total Errors:"), r.TotalErrors)

	if info := r.Statistics.MidiInfo; info != nil {
		fmt.Fprintf(&b, "%s %.2fs at %.2f BPM", p.paint(labelStyle, "Playback:"), info.LengthSeconds, info.TempoBPM)
		if len(info.Instruments) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(info.Instruments, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nErrors by Severity:\n-------------------\n")
	for _, s := range model.Severities {
		fmt.Fprintf(&b, "%s: %d\n", p.severity(s), r.Statistics.BySeverity[s])
	}

	if len(r.Statistics.CommonIssues) > 0 {
		b.WriteString("\nMost Common Issues:\n-------------------\n")
		for _, issue := range r.Statistics.CommonIssues {
			fmt.Fprintf(&b, "- %v: %d occurrences (%v severity)\n", issue.Type, issue.Count, issue.Severity)
		}
	}

	if len(r.Errors) > 0 {
		b.WriteString("\nDetailed Errors:\n----------------\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "\nType: %v\nMeasure: %d\nSeverity: %s\nDescription: %s\n",
				e.Type, e.Measure, p.severity(e.Severity), e.Description)
			if opts.Suggestions {
				fmt.Fprintf(&b, "Suggestion: %s\n", Suggestion(e.Type))
			}
		}
	}

	if r.Partial {
		b.WriteString("\n" + p.paint(partialStyle, "Partial analysis: some measures could not be checked") + "\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "- %s, measure %d: %s\n", s.Check, s.Measure, s.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
