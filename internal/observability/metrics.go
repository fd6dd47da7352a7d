package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StationCollector bundles Prometheus metrics for observation building. It
// implements core.Recorder so an Observation can drive it directly.
type StationCollector struct {
	gatherer prometheus.Gatherer

	BeamsTotal           prometheus.Counter
	BeamletsTotal        prometheus.Counter
	AllocationFailures   prometheus.Counter
	PassbandViolations   prometheus.Counter
	BeamletPoolCapacity  prometheus.Gauge
	BeamletPoolAllocated prometheus.Gauge
}

// NewStationCollector registers station metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewStationCollector(reg prometheus.Registerer) (*StationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	beams, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "station_beams_total",
		Help: "Total number of beams added to observations.",
	}), "station_beams_total")
	if err != nil {
		return nil, err
	}
	beamlets, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "station_beamlets_allocated_total",
		Help: "Total number of beamlet IDs allocated.",
	}), "station_beamlets_allocated_total")
	if err != nil {
		return nil, err
	}
	failures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "station_allocation_failures_total",
		Help: "Beam additions rejected because the beamlet pool was exhausted.",
	}), "station_allocation_failures_total")
	if err != nil {
		return nil, err
	}
	passband, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "station_passband_violations_total",
		Help: "Advisory passband violations observed while adding beams.",
	}), "station_passband_violations_total")
	if err != nil {
		return nil, err
	}
	capacity, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "station_beamlet_pool_capacity",
		Help: "Total beamlet slots exposed by the station hardware.",
	}), "station_beamlet_pool_capacity")
	if err != nil {
		return nil, err
	}
	allocated, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "station_beamlet_pool_allocated",
		Help: "Beamlet IDs currently allocated in the active observation.",
	}), "station_beamlet_pool_allocated")
	if err != nil {
		return nil, err
	}

	return &StationCollector{
		gatherer:             gatherer,
		BeamsTotal:           beams,
		BeamletsTotal:        beamlets,
		AllocationFailures:   failures,
		PassbandViolations:   passband,
		BeamletPoolCapacity:  capacity,
		BeamletPoolAllocated: allocated,
	}, nil
}

// BeamAdded records a successful beam addition. Implements core.Recorder.
func (c *StationCollector) BeamAdded(beamlets int) {
	if c == nil {
		return
	}
	c.BeamsTotal.Inc()
	c.BeamletsTotal.Add(float64(beamlets))
}

// AllocationFailed records a pool-exhaustion rejection. Implements
// core.Recorder.
func (c *StationCollector) AllocationFailed(requested, remaining int) {
	if c == nil {
		return
	}
	c.AllocationFailures.Inc()
}

// PassbandViolation records an advisory passband violation. Implements
// core.Recorder.
func (c *StationCollector) PassbandViolation() {
	if c == nil {
		return
	}
	c.PassbandViolations.Inc()
}

// PoolState mirrors the pool gauges. Implements core.Recorder.
func (c *StationCollector) PoolState(allocated, capacity int) {
	if c == nil {
		return
	}
	c.BeamletPoolAllocated.Set(float64(allocated))
	c.BeamletPoolCapacity.Set(float64(capacity))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *StationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
