package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Instrumented wraps an Adapter with prometheus counters for operations and failures.
type Instrumented struct {
	next Adapter

	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// Instrument wraps the given adapter, registering its metrics with reg.
// The medium label distinguishes adapters when several are registered.
func Instrument(next Adapter, reg prometheus.Registerer, medium string) *Instrumented {
	factory := promauto.With(reg)
	return &Instrumented{
		next: next,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "storage_operations_total",
				Help:        "Total number of storage adapter operations",
				ConstLabels: prometheus.Labels{"medium": medium},
			},
			[]string{"op", "key"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "storage_failures_total",
				Help:        "Total number of failed storage adapter operations",
				ConstLabels: prometheus.Labels{"medium": medium},
			},
			[]string{"op", "key"},
		),
	}
}

func (i *Instrumented) Read(key string) ([]byte, bool, error) {
	i.operations.WithLabelValues("read", key).Inc()
	value, found, err := i.next.Read(key)
	if err != nil {
		i.failures.WithLabelValues("read", key).Inc()
	}
	return value, found, err
}

func (i *Instrumented) Write(key string, value []byte) error {
	i.operations.WithLabelValues("write", key).Inc()
	err := i.next.Write(key, value)
	if err != nil {
		i.failures.WithLabelValues("write", key).Inc()
	}
	return err
}

func (i *Instrumented) Remove(key string) error {
	i.operations.WithLabelValues("remove", key).Inc()
	err := i.next.Remove(key)
	if err != nil {
		i.failures.WithLabelValues("remove", key).Inc()
	}
	return err
}
