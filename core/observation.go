package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/signalsfoundry/stationctl/internal/logging"
	"github.com/signalsfoundry/stationctl/model"
)

// Recorder receives observation-level events for metrics. The core stays
// agnostic of the metrics backend; internal/observability provides a
// Prometheus-backed implementation.
type Recorder interface {
	BeamAdded(beamlets int)
	AllocationFailed(requested, remaining int)
	PassbandViolation()
	PoolState(allocated, capacity int)
}

type nopRecorder struct{}

func (nopRecorder) BeamAdded(int)             {}
func (nopRecorder) AllocationFailed(int, int) {}
func (nopRecorder) PassbandViolation()        {}
func (nopRecorder) PoolState(int, int)        {}

// WindowPosition places a frequency-derived subband window relative to its
// reference subband.
type WindowPosition string

const (
	// WindowCenter puts floor(n/2) subbands below the reference and the
	// remainder at or above it.
	WindowCenter WindowPosition = "center"
	// WindowLower starts the window at the reference subband.
	WindowLower WindowPosition = "lower"
	// WindowUpper ends the window at the reference subband.
	WindowUpper WindowPosition = "upper"
)

// ParseWindowPosition maps a plan-file string onto a WindowPosition, with
// the empty string defaulting to center.
func ParseWindowPosition(s string) (WindowPosition, error) {
	switch WindowPosition(strings.ToLower(s)) {
	case WindowCenter, "":
		return WindowCenter, nil
	case WindowLower:
		return WindowLower, nil
	case WindowUpper:
		return WindowUpper, nil
	}
	return "", fmt.Errorf("%w: window position %q is not one of center, lower, upper", ErrInvalidConfiguration, s)
}

// ObservationConfig carries the fixed per-observation settings.
type ObservationConfig struct {
	AntennaSet model.AntennaSet
	Mode       model.ReceiverMode

	// Duration is the integration time; informational only.
	Duration time.Duration

	// Logger receives advisory messages (passband violations, rejected
	// beams). Nil means no logging.
	Logger logging.Logger

	// Metrics receives counter events. Nil means no metrics.
	Metrics Recorder
}

// Observation owns the beamlet-ID pool and the frequency model for one
// station observation and accumulates beams. Beams are added atomically: a
// failed add leaves the pool and the beam list untouched.
type Observation struct {
	cfg      ObservationConfig
	receiver *Receiver
	pool     *BeamletPool
	beams    []*Beam

	nbeamlets int

	log logging.Logger
	rec Recorder
}

// NewObservation validates the antenna-set/mode pair and constructs an
// empty observation.
func NewObservation(cfg ObservationConfig) (*Observation, error) {
	receiver, err := NewReceiver(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if !cfg.AntennaSet.Known() {
		return nil, fmt.Errorf("%w: antenna set %q is not one of the available antenna sets", ErrInvalidConfiguration, cfg.AntennaSet)
	}
	if !cfg.AntennaSet.CompatibleWith(cfg.Mode) {
		return nil, fmt.Errorf("%w: antenna set %q is not compatible with rcumode %d", ErrInvalidConfiguration, cfg.AntennaSet, cfg.Mode)
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Noop()
	}
	rec := cfg.Metrics
	if rec == nil {
		rec = nopRecorder{}
	}

	o := &Observation{
		cfg:      cfg,
		receiver: receiver,
		pool:     NewBeamletPool(),
		log:      log,
		rec:      rec,
	}
	o.rec.PoolState(0, o.pool.Capacity())
	return o, nil
}

// Receiver returns the observation's frequency model.
func (o *Observation) Receiver() *Receiver { return o.receiver }

// Pool returns the observation's beamlet-ID pool.
func (o *Observation) Pool() *BeamletPool { return o.pool }

// Beams returns the beams in addition order.
func (o *Observation) Beams() []*Beam { return append([]*Beam(nil), o.beams...) }

// BeamCount returns the number of beams added so far.
func (o *Observation) BeamCount() int { return len(o.beams) }

// BeamletCount returns the number of beamlets formed so far.
func (o *Observation) BeamletCount() int { return o.nbeamlets }

// Duration returns the informational integration time.
func (o *Observation) Duration() time.Duration { return o.cfg.Duration }

// AddBeam adds a beam covering an explicit subband list. Coordinates are
// radians unless inRadians is false, in which case they are degrees.
//
// The passband check is advisory: violations are logged and counted but do
// not block the beam. ID allocation is transactional, so a pool exhaustion
// returns ErrResourceExhausted with no beam added and no IDs consumed. The
// beam configuration is validated before any IDs are requested, keeping
// the add atomic.
func (o *Observation) AddBeam(subbands []int, ra, dec float64, coordSys model.CoordinateSystem, inRadians bool) error {
	if len(subbands) == 0 {
		return fmt.Errorf("%w: a beam needs at least one subband", ErrInvalidConfiguration)
	}
	if !coordSys.Known() {
		return fmt.Errorf("%w: coordinate system %q is not one of the available coordinate systems", ErrInvalidConfiguration, coordSys)
	}
	for _, s := range subbands {
		if s < 0 || s > model.MaxSubband {
			return fmt.Errorf("%w: subband %d falls outside 0-%d", ErrInvalidConfiguration, s, model.MaxSubband)
		}
	}

	if report := o.receiver.CheckSubbands(subbands); !report.OK() {
		o.rec.PassbandViolation()
		plan := o.receiver.Plan()
		if report.BelowLower {
			o.log.Warn(context.Background(), "frequency falls below the lower limit of the passband",
				logging.Any("frequency_mhz", report.MinMHz),
				logging.Any("passband_lower_mhz", plan.Passband.LowerMHz))
		}
		if report.AboveUpper {
			o.log.Warn(context.Background(), "frequency falls above the upper limit of the passband",
				logging.Any("frequency_mhz", report.MaxMHz),
				logging.Any("passband_upper_mhz", plan.Passband.UpperMHz))
		}
	}

	pointing := model.Pointing{RA: ra, Dec: dec}
	if !inRadians {
		pointing = model.PointingFromDegrees(ra, dec)
	}

	ids, err := o.pool.Allocate(len(subbands))
	if err != nil {
		o.rec.AllocationFailed(len(subbands), o.pool.Remaining())
		o.log.Warn(context.Background(), "beam could not be added",
			logging.Int("subbands", len(subbands)),
			logging.Int("remaining_beamlets", o.pool.Remaining()),
			logging.Any("error", err.Error()))
		return err
	}

	beam, err := NewBeam(ids, subbands, pointing, nil, o.cfg.AntennaSet, o.cfg.Mode, coordSys)
	if err != nil {
		// Unreachable given the validation above; surfaced anyway so a
		// logic regression cannot silently drop a beam.
		return err
	}

	o.beams = append(o.beams, beam)
	o.nbeamlets += beam.NBeamlets()
	o.rec.BeamAdded(beam.NBeamlets())
	o.rec.PoolState(o.pool.Allocated(), o.pool.Capacity())
	return nil
}

// AddBeamAtFrequency adds a beam of nsubbands contiguous subbands placed
// around the subband nearest to centerMHz. A window that would leave the
// 0-511 range on one side is shifted whole, preserving its width; windows
// wider than the full range are rejected so a both-sides overflow cannot
// occur.
func (o *Observation) AddBeamAtFrequency(centerMHz float64, nsubbands int, ra, dec float64,
	coordSys model.CoordinateSystem, inRadians bool, position WindowPosition) error {

	if nsubbands <= 0 {
		return fmt.Errorf("%w: subband count must be positive, got %d", ErrInvalidConfiguration, nsubbands)
	}
	if nsubbands > model.NumSubbands {
		return fmt.Errorf("%w: subband count %d exceeds the %d available subbands", ErrInvalidConfiguration, nsubbands, model.NumSubbands)
	}

	center := o.receiver.SubbandOf(centerMHz)

	var lo int
	switch position {
	case WindowLower:
		lo = center
	case WindowUpper:
		lo = center - nsubbands + 1
	case WindowCenter, "":
		lo = center - nsubbands/2
	default:
		return fmt.Errorf("%w: window position %q is not one of center, lower, upper", ErrInvalidConfiguration, position)
	}
	hi := lo + nsubbands - 1

	// Shift the whole window back inside 0-511, never clip.
	if lo < 0 {
		hi -= lo
		lo = 0
	} else if hi > model.MaxSubband {
		lo -= hi - model.MaxSubband
		hi = model.MaxSubband
	}

	subbands := make([]int, 0, nsubbands)
	for s := lo; s <= hi; s++ {
		subbands = append(subbands, s)
	}
	return o.AddBeam(subbands, ra, dec, coordSys, inRadians)
}

// Script concatenates every beam's directives in addition order, one
// directive per line. The result is the control script handed to the
// external executor.
func (o *Observation) Script() string {
	parts := make([]string, len(o.beams))
	for i, b := range o.beams {
		parts[i] = b.Render()
	}
	return strings.Join(parts, "\n")
}
