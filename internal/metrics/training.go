// Package metrics exposes Prometheus collectors for solver runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Training holds the collectors updated by the CFR trainer. A nil *Training is
// valid and records nothing.
type Training struct {
	iterations     prometheus.Counter
	nodesVisited   prometheus.Counter
	terminalNodes  prometheus.Counter
	infoSets       prometheus.Gauge
	gameValue      prometheus.Gauge
	iterationTimes prometheus.Histogram
}

// NewTraining creates the training collectors and registers them with reg.
// A nil reg leaves them unregistered. Registering twice on one registry fails.
func NewTraining(reg prometheus.Registerer) (*Training, error) {
	m := &Training{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kuhn_cfr_iterations_total",
			Help: "Completed CFR training iterations",
		}),
		nodesVisited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kuhn_cfr_nodes_visited_total",
			Help: "Game tree nodes visited by CFR traversals",
		}),
		terminalNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kuhn_cfr_terminal_nodes_total",
			Help: "Terminal nodes reached by CFR traversals",
		}),
		infoSets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kuhn_cfr_infosets",
			Help: "Information sets tracked in the regret table",
		}),
		gameValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kuhn_cfr_game_value",
			Help: "Running estimate of the game value to player 1",
		}),
		iterationTimes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kuhn_cfr_iteration_duration_seconds",
			Help:    "Wall time per CFR iteration",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10), // 100ns to ~26ms
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.iterations,
		m.nodesVisited,
		m.terminalNodes,
		m.infoSets,
		m.gameValue,
		m.iterationTimes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveIteration records one completed iteration.
func (m *Training) ObserveIteration(nodes, terminals int64, infoSets int, d time.Duration) {
	if m == nil {
		return
	}
	m.iterations.Inc()
	m.nodesVisited.Add(float64(nodes))
	m.terminalNodes.Add(float64(terminals))
	m.infoSets.Set(float64(infoSets))
	m.iterationTimes.Observe(d.Seconds())
}

// SetGameValue records the latest game value estimate.
func (m *Training) SetGameValue(v float64) {
	if m == nil {
		return
	}
	m.gameValue.Set(v)
}
