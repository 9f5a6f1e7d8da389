package report

import (
	"fmt"
	"sort"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/rules"
)

const DefaultCommonIssues = 5

type Options struct {
	Filename string
	// CommonIssues is how many error types to list as most common.
	CommonIssues int
}

// Aggregate merges the results of all checks into a report. The findings
// are fully sorted, so the order of results does not show in the report.
func Aggregate(s *model.Score, results []rules.Result, opts Options) (*model.AnalysisReport, error) {
	var findings []model.HarmonyError
	var skipped []model.Skip
	for _, r := range results {
		findings = append(findings, r.Findings...)
		skipped = append(skipped, r.Skipped...)
	}

	for _, f := range findings {
		if !s.HasMeasure(f.Measure) {
			return nil, &InvariantError{Message: fmt.Sprintf("%v finding references measure %d, which does not exist", f.Type, f.Measure)}
		}
	}

	SortFindings(findings)
	sort.SliceStable(skipped, func(i, j int) bool {
		if skipped[i].Measure != skipped[j].Measure {
			return skipped[i].Measure < skipped[j].Measure
		}
		return skipped[i].Check < skipped[j].Check
	})

	if findings == nil {
		findings = []model.HarmonyError{}
	}
	limit := opts.CommonIssues
	if limit <= 0 {
		limit = DefaultCommonIssues
	}

	report := &model.AnalysisReport{
		Filename:    opts.Filename,
		Metadata:    Metadata(s),
		TotalErrors: len(findings),
		Errors:      findings,
		Statistics: model.Statistics{
			ByType:       countByType(findings),
			BySeverity:   countBySeverity(findings),
			CommonIssues: commonIssues(findings, limit),
			MidiInfo:     s.MidiInfo,
		},
		Partial: len(skipped) > 0,
		Skipped: skipped,
	}

	if err := checkTotals(report); err != nil {
		return nil, err
	}
	return report, nil
}

func Metadata(s *model.Score) model.ScoreMetadata {
	md := model.ScoreMetadata{
		Title:         s.Title,
		Key:           "Unknown",
		KeySource:     s.KeySource,
		TimeSignature: s.Time.String(),
		Measures:      len(s.Measures),
		Voices:        s.Voices,
	}
	if s.Key != nil {
		md.Key = s.Key.String()
	}
	return md
}

// SortFindings orders by measure, then severity (high first), then type
// name; the voices and description settle whatever is left.
func SortFindings(findings []model.HarmonyError) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Measure != b.Measure {
			return a.Measure < b.Measure
		}
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		a1, a2 := a.Voices()
		b1, b2 := b.Voices()
		if a1 != b1 {
			return a1 < b1
		}
		if a2 != b2 {
			return a2 < b2
		}
		return a.Description < b.Description
	})
}

func countByType(findings []model.HarmonyError) map[model.ErrorType]int {
	res := make(map[model.ErrorType]int)
	for _, f := range findings {
		res[f.Type]++
	}
	return res
}

func countBySeverity(findings []model.HarmonyError) map[model.Severity]int {
	res := map[model.Severity]int{model.High: 0, model.Medium: 0, model.Low: 0}
	for _, f := range findings {
		res[f.Severity]++
	}
	return res
}

// commonIssues ranks error types by count. Ties keep the order in which
// the types first appear in the sorted findings.
func commonIssues(findings []model.HarmonyError, limit int) []model.IssueCount {
	index := make(map[model.ErrorType]int)
	var issues []model.IssueCount
	for _, f := range findings {
		i, ok := index[f.Type]
		if !ok {
			index[f.Type] = len(issues)
			issues = append(issues, model.IssueCount{Type: f.Type, Severity: f.Severity})
			i = len(issues) - 1
		}
		issues[i].Count++
		if f.Severity > issues[i].Severity {
			issues[i].Severity = f.Severity
		}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Count > issues[j].Count
	})
	if len(issues) > limit {
		issues = issues[:limit]
	}
	if issues == nil {
		issues = []model.IssueCount{}
	}
	return issues
}

func checkTotals(r *model.AnalysisReport) error {
	var bySeverity, byType int
	for _, n := range r.Statistics.BySeverity {
		bySeverity += n
	}
	for _, n := range r.Statistics.ByType {
		byType += n
	}
	if bySeverity != r.TotalErrors || byType != r.TotalErrors || r.TotalErrors != len(r.Errors) {
		return &InvariantError{Message: fmt.Sprintf("counts disagree: total %d, by severity %d, by type %d, listed %d",
			r.TotalErrors, bySeverity, byType, len(r.Errors))}
	}
	return nil
}
