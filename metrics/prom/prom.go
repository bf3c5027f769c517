// Package prom adapts the pipeline's run-time counters to Prometheus,
// the same shape as the teacher's metrics/prom adapter (a small set of
// Counters/Gauges registered once, exposed through a handful of methods)
// retargeted from per-cache hit/miss/eviction counters to per-run trace
// and simulation progress.
package prom

import "github.com/prometheus/client_golang/prometheus"

// Adapter implements pipeline.Metrics and exports Prometheus counters
// and gauges. Safe for concurrent use; every Prometheus metric type is
// goroutine-safe.
type Adapter struct {
	accessesTotal prometheus.Counter
	sampledTotal  prometheus.Counter
	getsTotal     prometheus.Counter
	setsTotal     prometheus.Counter
	mae           *prometheus.GaugeVec
	rssBytes      prometheus.Gauge
	elapsedSecs   prometheus.Gauge
	throughput    prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		accessesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "accesses_total",
			Help:        "Trace records read",
			ConstLabels: constLabels,
		}),
		sampledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "sampled_total",
			Help:        "Accesses admitted by SHARDS sampling",
			ConstLabels: constLabels,
		}),
		getsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "gets_total",
			Help:        "GET records read",
			ConstLabels: constLabels,
		}),
		setsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "sets_total",
			Help:        "SET records read",
			ConstLabels: constLabels,
		}),
		mae: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "mae",
			Help:        "Mean absolute error against the accurate reference MRC",
			ConstLabels: constLabels,
		}, []string{"policy", "algorithm"}),
		rssBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "rss_bytes",
			Help:        "Process resident set size high-water mark",
			ConstLabels: constLabels,
		}),
		elapsedSecs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "elapsed_seconds",
			Help:        "Wall-clock run time",
			ConstLabels: constLabels,
		}),
		throughput: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "accesses_per_second",
			Help:        "Peak accesses/second, populated only in throughput run mode",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.accessesTotal, a.sampledTotal, a.getsTotal, a.setsTotal, a.mae, a.rssBytes, a.elapsedSecs, a.throughput)
	return a
}

// Access counts one trace record read off the wire, regardless of op.
func (a *Adapter) Access() { a.accessesTotal.Inc() }

// Sampled counts one access admitted past SHARDS sampling.
func (a *Adapter) Sampled() { a.sampledTotal.Inc() }

// Get counts one GET record.
func (a *Adapter) Get() { a.getsTotal.Inc() }

// Set counts one SET record.
func (a *Adapter) Set() { a.setsTotal.Inc() }

// ObserveMAE records the mean absolute error of one (policy, algorithm)
// run's MRC against the accurate reference.
func (a *Adapter) ObserveMAE(policy, algorithm string, mae float64) {
	a.mae.WithLabelValues(policy, algorithm).Set(mae)
}

// RSS updates the resident-set-size gauge.
func (a *Adapter) RSS(bytes uint64) { a.rssBytes.Set(float64(bytes)) }

// Elapsed updates the wall-clock run time gauge.
func (a *Adapter) Elapsed(seconds float64) { a.elapsedSecs.Set(seconds) }

// Throughput updates the peak accesses/second gauge (throughput run mode).
func (a *Adapter) Throughput(accessesPerSecond float64) { a.throughput.Set(accessesPerSecond) }
