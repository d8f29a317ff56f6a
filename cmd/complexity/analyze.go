package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotator"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/config"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/corpus"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/metrics"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/pipeline"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/store"
)

// #region analyze-cmd

type analyzeOptions struct {
	corpus      string
	configPath  string
	annotator   string
	db          string
	seed        uint64
	workers     int
	out         string
	metricsFile string
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze --corpus DIR",
		Short: "Analyze a corpus and store the run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.corpus, "corpus", "", "corpus directory (classical_latin/, medieval_latin/, early_spanish/)")
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.annotator, "annotator", "", "annotation service address (env ANNOTATOR_ADDR)")
	f.StringVar(&opts.db, "db", "", "SQLite run store; empty string skips saving (env COMPLEXITY_DB)")
	f.Uint64Var(&opts.seed, "seed", 0, "bootstrap seed; 0 picks a time-based seed")
	f.IntVar(&opts.workers, "workers", 0, "concurrent documents")
	f.StringVar(&opts.out, "out", "", "write the JSON report here instead of stdout")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")
	_ = cmd.MarkFlagRequired("corpus")
	return cmd
}

// #endregion analyze-cmd

// #region run-analyze

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger := root.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	seed := pipeline.ResolveSeed(cfg.Bootstrap.Seed, time.Now)
	if seed != cfg.Bootstrap.Seed {
		logger.Info("using time-based seed", "seed", seed)
	}

	client, err := annotator.NewClient(cfg.Annotator.Addr, cfg.Annotator.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	rec := metrics.New()
	loader := &corpus.Loader{
		Layout:    corpus.DefaultLayout(),
		Periods:   cfg.Periods,
		Annotator: client,
		Workers:   cfg.Workers,
		Logger:    logger,
		Metrics:   rec,
	}
	loaded, err := loader.Load(ctx, opts.corpus)
	if err != nil {
		return err
	}
	logger.Info("corpus loaded", "documents", len(loaded.Documents), "failures", len(loaded.Failures))

	report, err := pipeline.Run(ctx, loaded.Documents, pipeline.Options{
		Config:  cfg,
		Seed:    seed,
		Logger:  logger,
		Metrics: rec,
	})
	if err != nil {
		return err
	}
	report.AddFailures(loaded.Failures...)

	if cfg.DBPath != "" {
		if err := saveRun(cfg, report); err != nil {
			return err
		}
		logger.Info("run saved", "run_id", report.RunID, "db", cfg.DBPath)
	}

	if opts.metricsFile != "" {
		if err := rec.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}
	return writeReport(cmd, opts.out, report)
}

// resolveConfig applies, in increasing precedence, defaults, the config file,
// environment variables and flags.
func resolveConfig(cmd *cobra.Command, opts *analyzeOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	cfg.DBPath = envOr("COMPLEXITY_DB", cfg.DBPath)
	cfg.Annotator.Addr = envOr("ANNOTATOR_ADDR", cfg.Annotator.Addr)

	f := cmd.Flags()
	if f.Changed("db") {
		cfg.DBPath = opts.db
	}
	if f.Changed("annotator") {
		cfg.Annotator.Addr = opts.annotator
	}
	if f.Changed("seed") {
		cfg.Bootstrap.Seed = opts.seed
	}
	if f.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func saveRun(cfg config.Config, report *pipeline.Report) error {
	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = st.SaveRun(report, string(cfgJSON))
	return err
}

func writeReport(cmd *cobra.Command, path string, report *pipeline.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// #endregion run-analyze
