// Package metrics exposes Prometheus instruments for crawl runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newschecker"

// Recorder groups the crawl instruments. A nil Recorder records nothing.
type Recorder struct {
	gatherer    prometheus.Gatherer
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	articles    *prometheus.CounterVec
	links       *prometheus.CounterVec
}

// New registers the instruments on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		gatherer: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Crawl runs by phase and outcome.",
		}, []string{"phase", "status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of crawl runs by phase.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"phase"}),
		articles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_total",
			Help:      "Articles by listing and detail outcome.",
		}, []string{"result"}),
		links: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_checked_total",
			Help:      "Classified hyperlinks by verdict.",
		}, []string{"verdict"}),
	}

	reg.MustRegister(r.runs, r.runDuration, r.articles, r.links)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// ObserveRun records the outcome and duration of a phase.
func (r *Recorder) ObserveRun(phase string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.runs.WithLabelValues(phase, status).Inc()
	r.runDuration.WithLabelValues(phase).Observe(elapsed.Seconds())
}

// ArticleListed counts a listing sighting.
func (r *Recorder) ArticleListed(created bool) {
	if r == nil {
		return
	}
	if created {
		r.articles.WithLabelValues("created").Inc()
		return
	}
	r.articles.WithLabelValues("requeued").Inc()
}

// ArticleChecked counts a detail pass.
func (r *Recorder) ArticleChecked(err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.articles.WithLabelValues("failed").Inc()
		return
	}
	r.articles.WithLabelValues("checked").Inc()
}

// LinkClassified counts a probe verdict.
func (r *Recorder) LinkClassified(broken bool) {
	if r == nil {
		return
	}
	if broken {
		r.links.WithLabelValues("broken").Inc()
		return
	}
	r.links.WithLabelValues("valid").Inc()
}
