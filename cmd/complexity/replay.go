package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/config"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/pipeline"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/replay"
)

// errDrift is returned when a replayed run differs from what was stored.
var errDrift = errors.New("replay differs from stored run")

// #region replay-cmd

func newReplayCmd() *cobra.Command {
	var (
		dbPath      string
		fixturePath string
		configPath  string
		jsonOut     bool
	)
	cmd := &cobra.Command{
		Use:   "replay [RUN_ID]",
		Short: "Recompute a stored run's comparisons and check they are reproduced",
		Long: "Recompute the cohorts and comparisons of a stored run from its document\n" +
			"bundles and seed. Give a RUN_ID with --db, or a report file with --fixture.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				report *pipeline.Report
				cfg    config.Config
				err    error
			)
			switch {
			case fixturePath != "" && len(args) == 0:
				report, err = replay.LoadFixture(fixturePath)
				if err != nil {
					return err
				}
				cfg = config.Default()
			case fixturePath == "" && len(args) == 1:
				report, cfg, err = loadStoredRun(cmd, dbPath, args[0])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("usage: %s RUN_ID --db FILE | --fixture FILE", cmd.CommandPath())
			}
			if configPath != "" {
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}

			res, err := replay.Replay(report, cfg)
			if err != nil {
				return err
			}
			if jsonOut {
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				printReplay(cmd.OutOrStdout(), res)
			}
			if !res.Match() {
				return fmt.Errorf("%w: %s", errDrift, strings.Join(res.Mismatches(), ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite run store (env COMPLEXITY_DB)")
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "report JSON written by analyze --out")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config to replay with instead of the stored one")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

// loadStoredRun reads a run and the configuration it was produced with.
func loadStoredRun(cmd *cobra.Command, dbPath, runID string) (*pipeline.Report, config.Config, error) {
	st, err := openStore(cmd, dbPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	defer st.Close()

	rec, err := st.GetRun(runID)
	if err != nil {
		return nil, config.Config{}, err
	}
	report, err := rec.Report()
	if err != nil {
		return nil, config.Config{}, err
	}
	cfg := config.Default()
	if rec.ConfigJSON != "" {
		if cfg, err = config.FromJSON([]byte(rec.ConfigJSON)); err != nil {
			return nil, config.Config{}, err
		}
	}
	return report, cfg, nil
}

func printReplay(w io.Writer, res replay.Result) {
	if res.RunID != "" {
		fmt.Fprintf(w, "Run %s  (seed %d)\n", res.RunID, res.Seed)
	} else {
		fmt.Fprintf(w, "Fixture  (seed %d)\n", res.Seed)
	}
	for _, s := range res.Sections {
		status := "ok"
		if !s.Match {
			status = "DRIFT"
		}
		fmt.Fprintf(w, "  %-22s  %s\n", s.Name, status)
	}
}

// #endregion replay-cmd
