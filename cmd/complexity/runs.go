package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/compare"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/stats"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/store"
)

// #region runs-cmd

func newRunsCmd() *cobra.Command {
	var (
		dbPath  string
		last    int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored analysis runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cmd, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			return runList(cmd.OutOrStdout(), st, last, jsonOut)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite run store (env COMPLEXITY_DB)")
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent runs; 0 for all")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

func runList(w io.Writer, st *store.Store, last int, jsonOut bool) error {
	runs, err := st.ListRuns(last)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs found")
		return nil
	}

	fmt.Fprintf(w, "%-12s  %-20s  %20s  %5s  %5s  %5s\n", "Run", "Time", "Seed", "Docs", "Fail", "Warn")
	fmt.Fprintf(w, "%-12s+-%-20s+-%20s+-%5s+-%5s+-%5s\n",
		"------------", "--------------------", "--------------------", "-----", "-----", "-----")
	for _, r := range runs {
		fmt.Fprintf(w, "%-12s  %-20s  %20d  %5d  %5d  %5d\n",
			shortID(r.RunID), r.CreatedAt.Format("2006-01-02T15:04:05Z"), r.Seed, r.Documents, r.Failures, r.Warnings)
	}
	return nil
}

// #endregion runs-cmd

// #region show-cmd

func newShowCmd() *cobra.Command {
	var (
		dbPath  string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show per-document metrics and analysis summaries of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			return runShow(cmd.OutOrStdout(), st, args[0], jsonOut)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite run store (env COMPLEXITY_DB)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output the stored report as JSON")
	return cmd
}

func runShow(w io.Writer, st *store.Store, runID string, jsonOut bool) error {
	rec, err := st.GetRun(runID)
	if err != nil {
		return err
	}
	report, err := rec.Report()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(w, report)
	}

	docs, err := st.ListDocuments(runID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Run %s  (%s, seed %d)\n\n", rec.RunID, rec.CreatedAt.Format("2006-01-02T15:04:05Z"), rec.Seed)
	fmt.Fprintf(w, "%-28s  %-10s  %-3s  %6s  %8s  %8s\n", "Document", "Period", "Lng", "Words", "Depth", "Art/1k")
	fmt.Fprintf(w, "%-28s+-%-10s+-%-3s+-%6s+-%8s+-%8s\n",
		"----------------------------", "----------", "---", "------", "--------", "--------")
	for _, d := range docs {
		period := d.Period
		if period == "" {
			period = "-"
		}
		fmt.Fprintf(w, "%-28s  %-10s  %-3s  %6d  %8.4f  %8.2f\n",
			d.DocumentID, period, d.Language, d.WordCount, d.AverageDepth, d.ArticleRate)
	}

	a := report.Analyses
	fmt.Fprintln(w)
	printEvolution(w, "Dependency depth", a.DependencyEvolution)
	printEvolution(w, "Article rate", a.ArticleDevelopment)
	printShift(w, a.AnalyticalShift)

	if len(report.Failures) > 0 {
		fmt.Fprintf(w, "\nFailures:\n")
		for _, f := range report.Failures {
			fmt.Fprintf(w, "  %-28s  %-8s  %s\n", f.DocumentID, f.Stage, f.Error)
		}
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, warn := range report.Warnings {
			fmt.Fprintf(w, "  %-28s  %s\n", warn.DocumentID, warn.Message)
		}
	}
	return nil
}

func printEvolution(w io.Writer, title string, e compare.Evolution) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, p := range e.Periods {
		if p.Err != "" {
			fmt.Fprintf(w, "  %-10s  %s\n", p.Period, p.Err)
			continue
		}
		ci := "-"
		if p.CI != nil {
			ci = fmt.Sprintf("[%.4f, %.4f]", p.CI.Lower, p.CI.Upper)
		}
		fmt.Fprintf(w, "  %-10s  mean=%.4f  std=%.4f  n=%d  ci=%s\n", p.Period, p.Mean, p.Std, p.N, ci)
	}
	if e.Err != "" {
		fmt.Fprintf(w, "  %s\n\n", e.Err)
		return
	}
	printTest(w, e.ANOVA)
	printTest(w, e.KruskalWallis)
	for _, pair := range e.Pairwise {
		if pair.Err != "" {
			fmt.Fprintf(w, "  %s vs %s: %s\n", pair.A, pair.B, pair.Err)
			continue
		}
		d := "-"
		if pair.CohensD != nil {
			d = fmt.Sprintf("%.4f", *pair.CohensD)
		}
		fmt.Fprintf(w, "  %s vs %s: U=%.2f p=%.4f d=%s\n", pair.A, pair.B, pair.MannWhitney.Statistic, pair.MannWhitney.PValue, d)
	}
	fmt.Fprintln(w)
}

func printShift(w io.Writer, s compare.Shift) {
	fmt.Fprintf(w, "Analytical shift:\n")
	if s.Err != "" {
		fmt.Fprintf(w, "  %s\n", s.Err)
		return
	}
	for _, p := range s.Periods {
		fmt.Fprintf(w, "  %-10s  synthetic=%d  analytic=%d  analytic_ratio=%.4f\n",
			p.Period, p.Synthetic, p.Analytic, p.AnalyticRatio)
	}
	if s.Fisher != nil {
		fmt.Fprintf(w, "  %s vs %s: ", s.Fisher.A, s.Fisher.B)
		printTestInline(w, s.Fisher.Test)
	}
	printTest(w, s.ChiSquare)
}

func printTest(w io.Writer, t *stats.TestResult) {
	if t == nil {
		return
	}
	fmt.Fprintf(w, "  ")
	printTestInline(w, *t)
}

func printTestInline(w io.Writer, t stats.TestResult) {
	if !t.OK() {
		fmt.Fprintf(w, "%s: %s\n", t.Test, t.Err)
		return
	}
	effect := ""
	if t.EffectSize != nil {
		effect = fmt.Sprintf("  effect=%.4f", *t.EffectSize)
	}
	fmt.Fprintf(w, "%s: statistic=%.4f  p=%.4f%s\n", t.Test, t.Statistic, t.PValue, effect)
}

// #endregion show-cmd

// #region helpers

func openStore(cmd *cobra.Command, dbPath string) (*store.Store, error) {
	if !cmd.Flags().Changed("db") {
		dbPath = envOr("COMPLEXITY_DB", dbPath)
	}
	if dbPath == "" {
		return nil, fmt.Errorf("usage: %s --db path/to/complexity.db", cmd.CommandPath())
	}
	return store.NewStore(dbPath)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// #endregion helpers
