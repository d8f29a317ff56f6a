package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "complexity"

// #region recorder

// Recorder counts analysis activity on its own registry. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// DocumentsTotal counts analyzed documents. Labels: period
	DocumentsTotal *prometheus.CounterVec
	// SentencesTotal counts sentences that passed integrity checks.
	SentencesTotal prometheus.Counter
	// IntegrityErrorsTotal counts skipped sentences. Labels: kind
	IntegrityErrorsTotal *prometheus.CounterVec
	// AnnotatorFailuresTotal counts documents the annotator could not process.
	AnnotatorFailuresTotal prometheus.Counter
	// DroppedDocumentsTotal counts documents left out of every cohort.
	DroppedDocumentsTotal prometheus.Counter
	// AnalysisSeconds measures per-document analysis time.
	AnalysisSeconds prometheus.Histogram
}

// New builds a recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		DocumentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_analyzed_total",
			Help:      "Documents analyzed by period",
		}, []string{"period"}),
		SentencesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_analyzed_total",
			Help:      "Sentences with a well-formed dependency tree",
		}),
		IntegrityErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_errors_total",
			Help:      "Sentences skipped for a malformed dependency tree, by kind",
		}, []string{"kind"}),
		AnnotatorFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotator_failures_total",
			Help:      "Documents the annotation service failed on",
		}),
		DroppedDocumentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_dropped_total",
			Help:      "Documents matching no period prefix",
		}),
		AnalysisSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_analysis_seconds",
			Help:      "Time spent computing one document's bundle",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	r.registry.MustRegister(
		r.DocumentsTotal,
		r.SentencesTotal,
		r.IntegrityErrorsTotal,
		r.AnnotatorFailuresTotal,
		r.DroppedDocumentsTotal,
		r.AnalysisSeconds,
	)
	return r
}

// #endregion recorder

// #region record

// Document records one analyzed document.
func (r *Recorder) Document(period string, sentences int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.DocumentsTotal.WithLabelValues(period).Inc()
	r.SentencesTotal.Add(float64(sentences))
	r.AnalysisSeconds.Observe(elapsed.Seconds())
}

// IntegrityError records one skipped sentence.
func (r *Recorder) IntegrityError(kind string) {
	if r == nil {
		return
	}
	r.IntegrityErrorsTotal.WithLabelValues(kind).Inc()
}

// AnnotatorFailure records a document the annotator failed on.
func (r *Recorder) AnnotatorFailure() {
	if r == nil {
		return
	}
	r.AnnotatorFailuresTotal.Inc()
}

// Dropped records documents left out of the cohorts.
func (r *Recorder) Dropped(n int) {
	if r == nil {
		return
	}
	r.DroppedDocumentsTotal.Add(float64(n))
}

// #endregion record

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// WriteTextfile writes the current values in the text exposition format for
// the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.Gatherer()); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
