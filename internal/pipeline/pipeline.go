package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/aggregate"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/compare"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/construction"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/depmetrics"
)

// #region run

// outcome is one worker's result slot.
type outcome struct {
	bundle  aggregate.Bundle
	failure *Failure
}

// Run analyzes every document, groups the bundles into period cohorts and
// runs the comparisons. Documents that cannot be analyzed are listed in
// Report.Failures; the run only fails when ctx is done.
func Run(ctx context.Context, docs []annotation.Document, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := opts.Config
	workers := max(cfg.Workers, 1)

	// 1. Per-document analysis, bounded fan-out
	results := make([]outcome, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = analyzeIsolated(doc, opts, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze corpus: %w", err)
	}

	report := &Report{
		CreatedAt: time.Now().UTC(),
		Seed:      opts.Seed,
		Documents: make([]aggregate.Bundle, 0, len(docs)),
		Warnings:  []aggregate.Warning{},
		Failures:  []Failure{},
	}
	for _, r := range results {
		if r.failure != nil {
			report.Failures = append(report.Failures, *r.failure)
			continue
		}
		report.Documents = append(report.Documents, r.bundle)
		for _, w := range r.bundle.Warnings {
			report.Warnings = append(report.Warnings, aggregate.Warning{DocumentID: r.bundle.DocumentID, Message: w})
		}
	}
	sort.Slice(report.Documents, func(a, b int) bool {
		return report.Documents[a].DocumentID < report.Documents[b].DocumentID
	})
	sort.Slice(report.Failures, func(a, b int) bool {
		return report.Failures[a].DocumentID < report.Failures[b].DocumentID
	})

	// 2. Cohorts
	cohorts, dropped := aggregate.BuildCohorts(report.Documents, cfg.Periods)
	for _, w := range dropped {
		logger.Warn("document dropped from cohorts", "doc_id", w.DocumentID, "reason", w.Message)
	}
	opts.Metrics.Dropped(len(dropped))
	report.Warnings = append(report.Warnings, dropped...)
	for _, c := range cohorts {
		report.Cohorts = append(report.Cohorts, aggregate.Summarize(c))
	}

	// 3. Comparisons
	report.Analyses = compare.Run(cohorts, cfg.BootstrapFor(opts.Seed))

	logger.Info("analysis complete",
		"documents", len(report.Documents),
		"failures", len(report.Failures),
		"warnings", len(report.Warnings),
		"seed", opts.Seed,
	)
	return report, nil
}

// #endregion run

// #region analyze-document

// analyzeIsolated runs Analyze and turns an error or panic into a failure so
// one document cannot stop the others.
func analyzeIsolated(doc annotation.Document, opts Options, logger *slog.Logger) (out outcome) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("document analysis panicked", "doc_id", doc.ID, "panic", p)
			out = outcome{failure: &Failure{DocumentID: doc.ID, Stage: StageAnalyze, Error: fmt.Sprintf("panic: %v", p)}}
		}
	}()

	start := time.Now()
	b, skipped, err := Analyze(doc, opts)
	if err != nil {
		logger.Warn("document not analyzed", "doc_id", doc.ID, "error", err)
		return outcome{failure: &Failure{DocumentID: doc.ID, Stage: StageAnalyze, Error: err.Error()}}
	}
	for _, e := range skipped {
		opts.Metrics.IntegrityError(string(e.Kind))
		logger.Debug("sentence skipped", "doc_id", doc.ID, "sentence", e.Sentence, "kind", e.Kind)
	}
	opts.Metrics.Document(string(b.Period), len(doc.Sentences)-len(skipped), time.Since(start))
	return outcome{bundle: b}
}

// Analyze builds one document's bundle. Sentences with a malformed
// dependency tree are left out of both passes and reported as warnings.
// The language falls back to the one declared for the document's period.
func Analyze(doc annotation.Document, opts Options) (aggregate.Bundle, []*annotation.IntegrityError, error) {
	cfg := opts.Config
	spec, _ := aggregate.PeriodOf(doc.ID, cfg.Periods)

	lang := doc.Language
	if lang == "" {
		lang = spec.Language
	}
	if lang == "" {
		return aggregate.Bundle{}, nil, fmt.Errorf("document %s: no language declared and no period prefix matches", doc.ID)
	}
	strategy, err := cfg.Strategy(lang)
	if err != nil {
		return aggregate.Bundle{}, nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	valid, skipped := annotation.SplitValid(doc.Sentences)
	// Compute applies the same tree checks as SplitValid, so errs is empty.
	dep, errs := depmetrics.Compute(valid)
	if len(errs) > 0 {
		return aggregate.Bundle{}, nil, fmt.Errorf("document %s: validated sentence rejected by dependency pass: %w", doc.ID, errs[0])
	}
	cls := construction.Classify(strategy, valid)

	var warnings []string
	for _, e := range skipped {
		warnings = append(warnings, fmt.Sprintf("skipped malformed sentence: %v", e))
	}
	return aggregate.NewBundle(doc.ID, spec.Name, dep, cls, warnings), skipped, nil
}

// #endregion analyze-document
