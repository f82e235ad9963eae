package phone

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	BackendErrors *prometheus.CounterVec
	Records       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BackendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phonestore_backend_errors_total",
				Help: "Failed loads and saves of the phone data",
			},
			[]string{"op"},
		),
		Records: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "phonestore_records",
				Help: "Records in the phone data as of the last successful load or save",
			},
		),
	}

	reg.MustRegister(m.BackendErrors, m.Records)
	return m
}

func (m *Metrics) backendError(op string) {
	if m == nil {
		return
	}
	m.BackendErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) observeRecords(n int) {
	if m == nil {
		return
	}
	m.Records.Set(float64(n))
}
