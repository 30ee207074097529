package reporter

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/houghcircles/service/task"
)

const namespace = "houghcircles"

var states = []task.State{
	task.StateCreated, task.StateInitialized, task.StateConfigured, task.StateRunning,
	task.StateMonitoring, task.StateSuspended, task.StateFailed, task.StateReleased,
}

// Metrics exposes task progress as Prometheus collectors.
type Metrics struct {
	cycles     *prometheus.CounterVec
	errors     *prometheus.CounterVec
	cps        *prometheus.GaugeVec
	state      *prometheus.GaugeVec
	allocation *prometheus.GaugeVec
}

// Report implements task.Reporter.
func (m *Metrics) Report(_ context.Context, event *task.Event) {
	switch event.Type {
	case task.EventCreated, task.EventTransition:
		for _, state := range states {
			value := 0.0
			if state == event.To {
				value = 1
			}
			m.state.WithLabelValues(event.Task, string(state)).Set(value)
		}
	case task.EventConfigured:
		m.allocation.WithLabelValues(event.Task, "quota").Set(float64(event.Allocation.ProcessingQuota()))
		m.allocation.WithLabelValues(event.Task, "processors").Set(float64(event.Allocation.ProcessorCount()))
		m.allocation.WithLabelValues(event.Task, "memory").Set(float64(event.Allocation.MemoryBudget()))
	case task.EventCycle:
		m.cycles.WithLabelValues(event.Task).Inc()
	case task.EventMonitor:
		if event.Telemetry != nil {
			m.cps.WithLabelValues(event.Task).Set(event.Telemetry.CPS)
		}
	case task.EventError:
		m.errors.WithLabelValues(event.Task, string(event.Op)).Inc()
	}
}

// NewMetrics creates the collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	ret := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Completed work cycles.",
		}, []string{"task"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed lifecycle callbacks.",
		}, []string{"task", "op"}),
		cps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cycles_per_second",
			Help:      "Throughput reported by the last monitor call.",
		}, []string{"task"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "1 for the current lifecycle state of a task.",
		}, []string{"task", "state"}),
		allocation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "allocation",
			Help:      "Active allocation by resource.",
		}, []string{"task", "resource"}),
	}
	for _, collector := range []prometheus.Collector{ret.cycles, ret.errors, ret.cps, ret.state, ret.allocation} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
