package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/aggregate"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/construction"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/stats"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// #region config-types

// Config is the analysis configuration read from YAML.
type Config struct {
	Periods   []aggregate.PeriodSpec                       `yaml:"periods"`
	Bootstrap BootstrapConfig                              `yaml:"bootstrap"`
	Workers   int                                          `yaml:"workers"`
	Lexicons  map[annotation.Language]construction.Lexicon `yaml:"lexicon"`
	Annotator AnnotatorConfig                              `yaml:"annotator"`
	DBPath    string                                       `yaml:"db"`
}

// BootstrapConfig controls confidence interval resampling. Seed 0 asks for a
// time-based seed.
type BootstrapConfig struct {
	Resamples  int     `yaml:"resamples"`
	Confidence float64 `yaml:"confidence"`
	Seed       uint64  `yaml:"seed"`
}

// AnnotatorConfig locates the syntactic annotation service.
type AnnotatorConfig struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// #endregion config-types

// #region defaults

// DefaultSeed keeps runs reproducible unless a seed is given.
const DefaultSeed = 42

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Periods: aggregate.DefaultPeriods(),
		Bootstrap: BootstrapConfig{
			Resamples:  1000,
			Confidence: 0.95,
			Seed:       DefaultSeed,
		},
		Workers: 4,
		Lexicons: map[annotation.Language]construction.Lexicon{
			annotation.Latin:   construction.LatinLexicon(),
			annotation.Spanish: construction.SpanishLexicon(),
		},
		Annotator: AnnotatorConfig{
			Addr:    "localhost:50051",
			Timeout: 60 * time.Second,
		},
		DBPath: "complexity.db",
	}
}

// #endregion defaults

// #region load

// Load reads path over the defaults and validates the result. Keys absent
// from the file keep their default; a lexicon given for a language replaces
// that language's default lexicon as a whole.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromJSON decodes a configuration stored alongside a run, such as the one
// saved by the run store, over the defaults.
func FromJSON(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse stored config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// #endregion load

// #region validate

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	if len(c.Periods) == 0 {
		return fmt.Errorf("%w: no periods", ErrInvalid)
	}
	names := make(map[aggregate.Period]bool, len(c.Periods))
	prefixes := make(map[string]bool, len(c.Periods))
	for i, p := range c.Periods {
		switch {
		case p.Name == "":
			return fmt.Errorf("%w: period %d has no name", ErrInvalid, i)
		case p.Prefix == "":
			return fmt.Errorf("%w: period %s has no prefix", ErrInvalid, p.Name)
		case names[p.Name]:
			return fmt.Errorf("%w: duplicate period %s", ErrInvalid, p.Name)
		case prefixes[p.Prefix]:
			return fmt.Errorf("%w: duplicate prefix %q", ErrInvalid, p.Prefix)
		}
		if _, err := c.Strategy(p.Language); err != nil {
			return fmt.Errorf("%w: period %s: %v", ErrInvalid, p.Name, err)
		}
		names[p.Name] = true
		prefixes[p.Prefix] = true
	}

	if c.Bootstrap.Resamples <= 0 {
		return fmt.Errorf("%w: bootstrap.resamples must be positive, got %d", ErrInvalid, c.Bootstrap.Resamples)
	}
	if c.Bootstrap.Confidence <= 0 || c.Bootstrap.Confidence >= 1 {
		return fmt.Errorf("%w: bootstrap.confidence must be in (0, 1), got %g", ErrInvalid, c.Bootstrap.Confidence)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	if c.Annotator.Timeout < 0 {
		return fmt.Errorf("%w: annotator.timeout is negative", ErrInvalid)
	}
	return nil
}

// #endregion validate

// Strategy builds the classification strategy for lang from its lexicon.
func (c Config) Strategy(lang annotation.Language) (construction.Strategy, error) {
	lex, ok := c.Lexicons[lang]
	if !ok {
		return nil, fmt.Errorf("no lexicon for language %q", lang)
	}
	return construction.StrategyFor(lang, lex)
}

// BootstrapFor returns bootstrap settings with the given resolved seed.
func (c Config) BootstrapFor(seed uint64) stats.Bootstrap {
	return stats.Bootstrap{
		Resamples:  c.Bootstrap.Resamples,
		Confidence: c.Bootstrap.Confidence,
		Seed:       seed,
	}
}
