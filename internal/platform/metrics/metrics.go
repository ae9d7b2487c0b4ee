package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder observes processing results. The zero-cost Noop is used where no registry is wanted.
type Recorder interface {
	ObserveOutcome(txnType, result string, seconds float64)
	IncFraudFlag()
}

// Prometheus records processing metrics into a prometheus registerer.
type Prometheus struct {
	processed  *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	fraudFlags prometheus.Counter
}

// NewPrometheus registers the processor collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_processed_total",
			Help: "Transactions processed, labeled by type and result kind",
		}, []string{"type", "result"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_transaction_processing_seconds",
			Help:    "Latency of the processing unit of work",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}, []string{"type"}),
		fraudFlags: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_fraud_cases_flagged_total",
			Help: "Fraud cases recorded by the processor",
		}),
	}
}

func (p *Prometheus) ObserveOutcome(txnType, result string, seconds float64) {
	p.processed.WithLabelValues(txnType, result).Inc()
	p.latency.WithLabelValues(txnType).Observe(seconds)
}

func (p *Prometheus) IncFraudFlag() {
	p.fraudFlags.Inc()
}

// Noop discards every observation.
type Noop struct{}

func (Noop) ObserveOutcome(string, string, float64) {}
func (Noop) IncFraudFlag()                          {}
