package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/aggregate"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/metrics"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/pipeline"
)

// #region types

// Annotator turns raw text into annotated sentences.
type Annotator interface {
	Annotate(ctx context.Context, docID string, lang annotation.Language, text string) ([]annotation.Sentence, error)
}

// Dir maps a corpus subdirectory to the identifier prefix of its documents.
type Dir struct {
	Name   string
	Prefix string
}

// DefaultLayout is the three-period directory layout.
func DefaultLayout() []Dir {
	return []Dir{
		{Name: "classical_latin", Prefix: "latin_"},
		{Name: "medieval_latin", Prefix: "medieval_"},
		{Name: "early_spanish", Prefix: "spanish_"},
	}
}

// Supported file extensions.
const (
	ExtCoNLLU = ".conllu"
	ExtJSON   = ".json"
	ExtText   = ".txt"
)

// Loader reads a corpus directory into annotated documents. Annotator,
// Logger and Metrics may be nil; without an annotator raw text files fail.
type Loader struct {
	Layout    []Dir
	Periods   []aggregate.PeriodSpec
	Annotator Annotator
	Workers   int
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
}

// Result holds the loaded documents and those that could not be loaded.
type Result struct {
	Documents []annotation.Document
	Failures  []pipeline.Failure
}

// #endregion types

// #region load

// Load reads every supported file under root. Files in a layout directory
// get that directory's prefix; files directly under root keep their stem as
// identifier. Missing layout directories are skipped.
func (l *Loader) Load(ctx context.Context, root string) (Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Result{}, fmt.Errorf("open corpus: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("open corpus: %s is not a directory", root)
	}

	var res Result
	texts := make(map[string]string)

	if err := l.readDir(root, "", &res, texts); err != nil {
		return Result{}, err
	}
	for _, d := range l.Layout {
		dir := filepath.Join(root, d.Name)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			l.logger().Debug("corpus directory missing", "dir", dir)
			continue
		}
		if err := l.readDir(dir, d.Prefix, &res, texts); err != nil {
			return Result{}, err
		}
	}

	annotated, err := l.LoadTexts(ctx, texts)
	if err != nil {
		return Result{}, err
	}
	res.Documents = append(res.Documents, annotated.Documents...)
	res.Failures = append(res.Failures, annotated.Failures...)
	res.sortByID()
	return res, nil
}

func (l *Loader) readDir(dir, prefix string, res *Result, texts map[string]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read corpus dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ExtCoNLLU && ext != ExtJSON && ext != ExtText {
			continue
		}
		id := DocumentID(prefix, e.Name())
		path := filepath.Join(dir, e.Name())

		if ext == ExtText {
			data, err := os.ReadFile(path)
			if err != nil {
				res.Failures = append(res.Failures, failure(id, pipeline.StageLoad, err))
				continue
			}
			texts[id] = string(data)
			continue
		}

		sentences, err := readAnnotated(path, ext)
		if err != nil {
			l.logger().Warn("corpus file not loaded", "doc_id", id, "path", path, "error", err)
			res.Failures = append(res.Failures, failure(id, pipeline.StageLoad, err))
			continue
		}
		res.Documents = append(res.Documents, l.document(id, sentences))
	}
	return nil
}

func readAnnotated(path, ext string) ([]annotation.Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var read func(io.Reader) ([]annotation.Sentence, error)
	switch ext {
	case ExtCoNLLU:
		read = annotation.ReadCoNLLU
	default:
		read = annotation.ReadJSON
	}
	sentences, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sentences, nil
}

// DocumentID derives an identifier from a file name: the stem, with prefix
// prepended unless the stem already carries it.
func DocumentID(prefix, name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.HasPrefix(stem, prefix) {
		return stem
	}
	return prefix + stem
}

// #endregion load

// #region load-texts

// LoadTexts annotates raw texts keyed by document identifier. Each text is
// sent in the language of its period; texts with no period or failing
// annotation are reported as failures.
func (l *Loader) LoadTexts(ctx context.Context, texts map[string]string) (Result, error) {
	ids := make([]string, 0, len(texts))
	for id := range texts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]*annotation.Document, len(ids))
	fails := make([]*pipeline.Failure, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.Workers, 1))
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lang, ok := aggregate.LanguageOf(id, l.Periods)
			if !ok {
				f := failure(id, pipeline.StageAnnotate, fmt.Errorf("no period prefix matches %q; language unknown", id))
				fails[i] = &f
				return nil
			}
			if l.Annotator == nil {
				f := failure(id, pipeline.StageAnnotate, errors.New("raw text needs an annotation service"))
				fails[i] = &f
				return nil
			}
			sentences, err := l.Annotator.Annotate(gctx, id, lang, texts[id])
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				l.Metrics.AnnotatorFailure()
				l.logger().Warn("annotation failed", "doc_id", id, "error", err)
				f := failure(id, pipeline.StageAnnotate, err)
				fails[i] = &f
				return nil
			}
			doc := l.document(id, sentences)
			doc.Language = lang
			docs[i] = &doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("annotate corpus: %w", err)
	}

	var res Result
	for i := range ids {
		if docs[i] != nil {
			res.Documents = append(res.Documents, *docs[i])
		}
		if fails[i] != nil {
			res.Failures = append(res.Failures, *fails[i])
		}
	}
	return res, nil
}

// #endregion load-texts

func (l *Loader) document(id string, sentences []annotation.Sentence) annotation.Document {
	lang, _ := aggregate.LanguageOf(id, l.Periods)
	return annotation.Document{ID: id, Language: lang, Sentences: sentences}
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}

func (r *Result) sortByID() {
	sort.Slice(r.Documents, func(a, b int) bool { return r.Documents[a].ID < r.Documents[b].ID })
	sort.Slice(r.Failures, func(a, b int) bool { return r.Failures[a].DocumentID < r.Failures[b].DocumentID })
}

func failure(id, stage string, err error) pipeline.Failure {
	return pipeline.Failure{DocumentID: id, Stage: stage, Error: err.Error()}
}
