// Package analyzer runs the validation gate, the enabled checks and the
// aggregator over scores, one at a time or in batches.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/jsphweid/harmonycheck/constants"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/report"
	"github.com/jsphweid/harmonycheck/rules"
	"github.com/jsphweid/harmonycheck/score"
	"github.com/jsphweid/harmonycheck/tonal"
	"github.com/jsphweid/harmonycheck/validation"
	"golang.org/x/sync/errgroup"
)

type Analyzer struct {
	config       rules.Config
	classifier   tonal.Classifier
	registry     *rules.Registry
	parallel     bool
	commonIssues int
	batchLimit   int
}

type Option func(*Analyzer)

func WithConfig(cfg rules.Config) Option {
	return func(a *Analyzer) {
		a.config = cfg
	}
}

func WithClassifier(c tonal.Classifier) Option {
	return func(a *Analyzer) {
		a.classifier = c
	}
}

func WithRegistry(r *rules.Registry) Option {
	return func(a *Analyzer) {
		a.registry = r
	}
}

// WithParallel runs the checks of one score concurrently.
func WithParallel(parallel bool) Option {
	return func(a *Analyzer) {
		a.parallel = parallel
	}
}

func WithCommonIssues(n int) Option {
	return func(a *Analyzer) {
		a.commonIssues = n
	}
}

// WithBatchLimit bounds how many files AnalyzeBatch works on at once.
func WithBatchLimit(n int) Option {
	return func(a *Analyzer) {
		a.batchLimit = n
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		config:       rules.DefaultConfig(),
		classifier:   tonal.Diatonic{},
		registry:     rules.Default(),
		commonIssues: report.DefaultCommonIssues,
		batchLimit:   constants.BatchConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze checks a loaded score. A score rejected by the validation gate
// yields a *validation.InvalidScoreError and no report.
func (a *Analyzer) Analyze(s *model.Score) (*model.AnalysisReport, error) {
	return a.analyze(s, "")
}

func (a *Analyzer) analyze(s *model.Score, filename string) (*model.AnalysisReport, error) {
	if err := validation.Validate(s); err != nil {
		return nil, err
	}

	in := rules.NewInput(s, a.config, a.classifier)
	checks := a.registry.Enabled(a.config)
	results := make([]rules.Result, len(checks))
	if a.parallel {
		var g errgroup.Group
		for i, c := range checks {
			i, c := i, c
			g.Go(func() error {
				results[i] = rules.Run(c, in)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, c := range checks {
			results[i] = rules.Run(c, in)
		}
	}

	return report.Aggregate(s, results, report.Options{
		Filename:     filename,
		CommonIssues: a.commonIssues,
	})
}

func (a *Analyzer) AnalyzeFile(path string) (*model.AnalysisReport, error) {
	s, err := score.Load(path)
	if err != nil {
		return nil, err
	}
	return a.analyze(s, filepath.Base(path))
}

// AnalyzeBytes analyzes an uploaded file. name picks the format.
func (a *Analyzer) AnalyzeBytes(name string, data []byte) (*model.AnalysisReport, error) {
	s, err := score.LoadBytes(name, data)
	if err != nil {
		return nil, err
	}
	return a.analyze(s, filepath.Base(name))
}

// AnalyzeBatch analyzes every path independently and returns one result per
// path, in the order given. A failing file never stops the others.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, paths []string) []model.BatchResult {
	results := make([]model.BatchResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if a.batchLimit > 0 {
		g.SetLimit(a.batchLimit)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = a.batchOne(ctx, path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (a *Analyzer) batchOne(ctx context.Context, path string) (res model.BatchResult) {
	res.Filename = path
	defer func() {
		if r := recover(); r != nil {
			log.Printf("analysis of %v panicked: %v", path, r)
			res.Report = nil
			res.Failure = &model.Failure{Kind: model.FailureInternal, Message: fmt.Sprint(r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Failure = &model.Failure{Kind: model.FailureInternal, Message: err.Error()}
		return res
	}
	r, err := a.AnalyzeFile(path)
	if err != nil {
		log.Printf("analysis of %v failed: %v", path, err)
		res.Failure = &model.Failure{Kind: Classify(err), Message: err.Error()}
		return res
	}
	res.Report = r
	return res
}

// Classify names the failure kind of an analysis error.
func Classify(err error) string {
	var inputErr *score.InputError
	var invalidErr *validation.InvalidScoreError
	switch {
	case errors.As(err, &inputErr):
		return model.FailureInput
	case errors.As(err, &invalidErr):
		return model.FailureValidation
	default:
		return model.FailureInternal
	}
}
