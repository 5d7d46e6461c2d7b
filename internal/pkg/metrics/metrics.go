package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "apsystems"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Metrics struct {
	polls    *prometheus.CounterVec
	value    *prometheus.GaugeVec
	inWindow *prometheus.GaugeVec
}

func New() *Metrics {
	return &Metrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sensor_polls_total",
			Help:      "Sensor polls by outcome",
		}, []string{"sensor", "outcome"}),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sensor_value",
			Help:      "Last value read for a sensor",
		}, []string{"sensor", "unit"}),
		inWindow: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sensor_in_window",
			Help:      "Whether the sensor is inside its daylight window (1=yes, 0=no)",
		}, []string{"sensor"}),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.polls, m.value, m.inWindow} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe records the outcome of one poll. value is nil on failure.
func (m *Metrics) Observe(sensor, unit string, value *float64, inWindow bool) {
	if value == nil {
		m.polls.WithLabelValues(sensor, OutcomeFailure).Inc()
	} else {
		m.polls.WithLabelValues(sensor, OutcomeSuccess).Inc()
		m.value.WithLabelValues(sensor, unit).Set(*value)
	}
	window := 0.0
	if inWindow {
		window = 1.0
	}
	m.inWindow.WithLabelValues(sensor).Set(window)
}
