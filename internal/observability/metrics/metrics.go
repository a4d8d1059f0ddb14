package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "timerdeck_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	ticksTotal       prometheus.Counter
	halfwayTotal     prometheus.Counter
	completionsTotal prometheus.Counter
	activeCountdowns prometheus.Gauge
	commandsTotal    *prometheus.CounterVec
	snapshotWrites   *prometheus.CounterVec
)

// Init registers timer engine metrics with registerer.
// A nil registerer uses the default Prometheus registry. Only the first call has effect.
func Init(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}

		ticksTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "ticks_total",
				Help: "Total countdown ticks that decremented a timer",
			},
		)
		halfwayTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "halfway_alerts_total",
				Help: "Total halfway alerts emitted",
			},
		)
		completionsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "completions_total",
				Help: "Total timers that counted down to zero",
			},
		)
		activeCountdowns = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "active_countdowns",
				Help: "Number of registered countdown jobs",
			},
		)
		commandsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "commands_total",
				Help: "Total timer commands by command and result",
			},
			[]string{"command", "result"},
		)
		snapshotWrites = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "snapshot_writes_total",
				Help: "Total snapshot writes by key and result",
			},
			[]string{"key", "result"},
		)

		registerer.MustRegister(
			ticksTotal,
			halfwayTotal,
			completionsTotal,
			activeCountdowns,
			commandsTotal,
			snapshotWrites,
		)
	})
}

// IncTick records one countdown decrement.
func IncTick() {
	if ticksTotal != nil {
		ticksTotal.Inc()
	}
}

// IncHalfway records one halfway alert.
func IncHalfway() {
	if halfwayTotal != nil {
		halfwayTotal.Inc()
	}
}

// IncCompletion records one completion.
func IncCompletion() {
	if completionsTotal != nil {
		completionsTotal.Inc()
	}
}

// SetActiveCountdowns updates the registered job gauge.
func SetActiveCountdowns(count int) {
	if activeCountdowns != nil {
		activeCountdowns.Set(float64(count))
	}
}

// ObserveCommand records a command outcome.
func ObserveCommand(command string, err error) {
	if commandsTotal == nil {
		return
	}
	commandsTotal.WithLabelValues(command, result(err)).Inc()
}

// ObserveSnapshotWrite records a persistence write outcome.
func ObserveSnapshotWrite(key string, err error) {
	if snapshotWrites == nil {
		return
	}
	snapshotWrites.WithLabelValues(key, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
