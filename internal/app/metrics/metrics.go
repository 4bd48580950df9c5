package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pipeline work for the /metrics endpoint.
type Metrics struct {
	TranscriptionsTotal *prometheus.CounterVec
	SegmentsTotal       *prometheus.CounterVec
	UploadedBytes       prometheus.Counter
	SummariesTotal      *prometheus.CounterVec
}

// New registers the pipeline metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TranscriptionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minutes_transcriptions_total",
			Help: "Transcription pipeline runs by provider and outcome.",
		}, []string{"provider", "outcome"}),
		SegmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minutes_segments_total",
			Help: "Audio segments transcribed by outcome.",
		}, []string{"outcome"}),
		UploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minutes_uploaded_bytes_total",
			Help: "Bytes of meeting audio uploaded to object storage.",
		}),
		SummariesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minutes_summaries_total",
			Help: "Summary generations by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.TranscriptionsTotal, m.SegmentsTotal, m.UploadedBytes, m.SummariesTotal)
	return m
}

// NewUnregistered returns metrics that are not exported, for tests and the
// CLI path.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
