package lambdakernel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	registry *prometheus.Registry

	// Counters
	nextConnectionID prometheus.CounterFunc
	requests         *prometheus.CounterVec
	failures         *prometheus.CounterVec
	verdicts         *prometheus.CounterVec
	replays          prometheus.Counter
	inconsistencies  prometheus.Counter

	// Gauges
	openConnections prometheus.GaugeFunc
	storedProofs    prometheus.GaugeFunc

	// Summaries
	latency        *prometheus.SummaryVec
	reductionSteps prometheus.Summary
}

func opLabel(op Op) string {
	for _, known := range allOps {
		if op == known {
			return string(op)
		}
	}
	return "unknown"
}

func newMetrics(s *Service) *metrics {
	m := &metrics{
		nextConnectionID: prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "next_connection_id",
				Help: "number of connections to this server over its lifetime",
			},
			func() float64 {
				s.mu.Lock()
				defer s.mu.Unlock()
				return float64(s.mu.nextConnectionID)
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "requests_total",
				Help: "requests handled, by op",
			},
			[]string{"op"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "request_failures_total",
				Help: "requests answered with an error, by op",
			},
			[]string{"op"},
		),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verdicts_total",
				Help: "proofs produced, by verdict",
			},
			[]string{"verdict"},
		),
		replays: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "verdict_replays_total",
				Help: "verifications answered from a stored proof",
			},
		),
		inconsistencies: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "inconsistency_certificates_total",
				Help: "inconsistency certificates issued",
			},
		),
		openConnections: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "open_connections",
				Help: "number of connections currently open",
			},
			func() float64 {
				return float64(s.numConnections())
			},
		),
		storedProofs: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "stored_proofs",
				Help: "number of proofs in the store",
			},
			func() float64 {
				count, err := s.store.NumProofs()
				if err != nil {
					return -1
				}
				return float64(count)
			},
		),
		latency: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "request_latency_ns",
				Help: "latency to answer a request, by op",
			},
			[]string{"op"},
		),
		reductionSteps: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name: "reduction_steps",
				Help: "reduction steps spent per normalization or verification",
			},
		),
	}
	m.registry = prometheus.NewPedanticRegistry()
	reg := m.registry

	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(collectors.NewGoCollector())

	reg.MustRegister(m.nextConnectionID)
	reg.MustRegister(m.requests)
	reg.MustRegister(m.failures)
	reg.MustRegister(m.verdicts)
	reg.MustRegister(m.replays)
	reg.MustRegister(m.inconsistencies)
	reg.MustRegister(m.openConnections)
	reg.MustRegister(m.storedProofs)
	reg.MustRegister(m.latency)
	reg.MustRegister(m.reductionSteps)
	return m
}
