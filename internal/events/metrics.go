package events

import (
	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSink counts events by message.
type MetricsSink struct {
	total *prometheus.CounterVec
}

// NewMetricsSink registers the event counter with reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shortener",
		Name:      "events_total",
		Help:      "Core events emitted, by message.",
	}, []string{"msg"})

	if err := reg.Register(total); err != nil {
		return nil, err
	}

	return &MetricsSink{total: total}, nil
}

func (s *MetricsSink) Log(event shortener.Event) {
	s.total.WithLabelValues(event.Msg).Inc()
}

var _ shortener.EventSink = (*MetricsSink)(nil)
