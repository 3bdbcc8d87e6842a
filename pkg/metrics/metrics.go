// Package metrics renders timer state as Prometheus metrics for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"io"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/mtt-project/mtt/pkg/model"
)

const namespace = "mtt"

// Registry holds the timer gauges.
type Registry struct {
	reg *prom.Registry

	totalSeconds   *prom.GaugeVec
	currentSeconds *prom.GaugeVec
	running        *prom.GaugeVec
	records        *prom.GaugeVec
	active         *prom.GaugeVec
	timers         prom.Gauge
	generated      prom.Gauge
}

// NewRegistry constructs and registers the gauges on a private registry.
func NewRegistry() *Registry {
	r := &Registry{reg: prom.NewRegistry()}
	r.totalSeconds = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "timer_total_seconds",
		Help:      "Sum of completed record durations",
	}, []string{"timer"})
	r.currentSeconds = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "timer_current_seconds",
		Help:      "Elapsed time of the running interval, 0 when idle",
	}, []string{"timer"})
	r.running = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "timer_running",
		Help:      "1 if the timer is running",
	}, []string{"timer"})
	r.records = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "timer_records",
		Help:      "Number of completed records",
	}, []string{"timer"})
	r.active = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "timer_active",
		Help:      "1 for the active timer",
	}, []string{"timer"})
	r.timers = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "timers",
		Help:      "Number of timers",
	})
	r.generated = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "generated_timestamp_seconds",
		Help:      "Unix time the metrics were rendered",
	})
	r.reg.MustRegister(r.totalSeconds, r.currentSeconds, r.running, r.records, r.active, r.timers, r.generated)
	return r
}

// Observe replaces all gauge values with a snapshot of state at now.
func (r *Registry) Observe(state *model.AppState, now time.Time) {
	for _, vec := range []*prom.GaugeVec{r.totalSeconds, r.currentSeconds, r.running, r.records, r.active} {
		vec.Reset()
	}

	active, _ := state.ActiveTimerName()
	names := state.TimerNames()
	for _, name := range names {
		t, _ := state.GetTimer(name)
		r.totalSeconds.WithLabelValues(name).Set(t.TotalDuration().Seconds())
		r.currentSeconds.WithLabelValues(name).Set(t.Elapsed(now).Seconds())
		r.running.WithLabelValues(name).Set(boolGauge(t.IsRunning()))
		r.records.WithLabelValues(name).Set(float64(len(t.Records)))
		r.active.WithLabelValues(name).Set(boolGauge(name == active))
	}
	r.timers.Set(float64(len(names)))
	r.generated.Set(float64(now.Unix()))
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prom.Gatherer {
	return r.reg
}

// Write encodes the metrics in the text exposition format.
func (r *Registry) Write(w io.Writer) error {
	mfs, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

// WriteTextfile atomically writes the metrics to path.
func (r *Registry) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write textfile: %w", err)
	}
	return nil
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
