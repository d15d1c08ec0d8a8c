package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ddns", Subsystem: "recode", Name: "submissions_total", Help: "Record submissions by outcome"},
		[]string{"outcome"},
	)
	skipped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "ddns", Subsystem: "recode", Name: "skipped_total", Help: "Records skipped because the journal already holds them"},
	)
	submitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "ddns", Subsystem: "recode", Name: "submission_duration_seconds", Help: "Time from dispatch to callback", Buckets: prometheus.DefBuckets},
		[]string{"outcome"},
	)
	events = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ddns", Subsystem: "events", Name: "published_total", Help: "Outcome events handed to publishers"},
		[]string{"result"},
	)
	lastSync = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "ddns", Subsystem: "sync", Name: "last_completed_timestamp_seconds", Help: "Unix time of the last completed sync pass"},
	)
)

func init() {
	// ignore AlreadyRegistered so tests and embedding programs can coexist
	_ = prometheus.Register(collectors.NewGoCollector())
	_ = prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prometheus.MustRegister(submissions, skipped, submitDuration, events, lastSync)
}

func ObserveSubmission(outcome string, d time.Duration) {
	submissions.WithLabelValues(outcome).Inc()
	submitDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func IncSkipped() { skipped.Inc() }

func IncEvent(result string) { events.WithLabelValues(result).Inc() }

func MarkSync(t time.Time) { lastSync.Set(float64(t.Unix())) }
