package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/signalsfoundry/stationctl/model"
)

// ErrInvalidMode is returned when a receiver mode outside the defined 0-7
// range is requested.
var ErrInvalidMode = errors.New("invalid receiver mode")

// Receiver models the frequency geometry of one receiver mode: the mapping
// between subband indices (0-511) and sky frequencies in MHz.
type Receiver struct {
	mode model.ReceiverMode
	plan model.BandPlan
}

// NewReceiver constructs the frequency model for a receiver mode.
func NewReceiver(mode model.ReceiverMode) (*Receiver, error) {
	plan, ok := model.PlanFor(mode)
	if !ok {
		return nil, fmt.Errorf("%w: rcumode %d is outside 0-7", ErrInvalidMode, mode)
	}
	return &Receiver{mode: mode, plan: plan}, nil
}

// Mode returns the receiver mode this model was built for.
func (r *Receiver) Mode() model.ReceiverMode { return r.mode }

// Plan returns the band plan backing this model.
func (r *Receiver) Plan() model.BandPlan { return r.plan }

// SubbandWidthMHz returns the width of one subband channel.
func (r *Receiver) SubbandWidthMHz() float64 { return r.plan.SubbandWidthMHz() }

// FrequencyOf returns the sky frequency (MHz) of a subband. Indices outside
// 0-511 are clipped into range.
func (r *Receiver) FrequencyOf(subband int) float64 {
	s := clampInt(subband, 0, model.MaxSubband)
	return r.plan.Band.LowerMHz + float64(r.plan.Direction)*float64(s)*r.SubbandWidthMHz()
}

// FrequenciesOf maps a slice of subbands to their frequencies, preserving
// order and length.
func (r *Receiver) FrequenciesOf(subbands []int) []float64 {
	freqs := make([]float64, len(subbands))
	for i, s := range subbands {
		freqs[i] = r.FrequencyOf(s)
	}
	return freqs
}

// SubbandOf returns the subband whose frequency is nearest to freqMHz.
// Rounding is half-away-from-zero (math.Round); results are clipped to
// 0-511, so frequencies outside the receiver band map to the nearest edge.
func (r *Receiver) SubbandOf(freqMHz float64) int {
	s := math.Round(float64(r.plan.Direction) * (freqMHz - r.plan.Band.LowerMHz) / r.SubbandWidthMHz())
	return clampInt(int(s), 0, model.MaxSubband)
}

// PassbandReport is the result of an advisory passband check. It never
// blocks beam creation; callers decide whether to log or surface it.
type PassbandReport struct {
	// BelowLower / AboveUpper flag which passband edge was crossed.
	BelowLower bool
	AboveUpper bool

	// MinMHz and MaxMHz are the extreme frequencies of the checked
	// subbands, useful for log messages.
	MinMHz float64
	MaxMHz float64
}

// OK reports whether every checked frequency fell inside the passband.
func (p PassbandReport) OK() bool { return !p.BelowLower && !p.AboveUpper }

// CheckSubbands verifies that the frequencies of the given subbands fall
// within the mode's passband.
func (r *Receiver) CheckSubbands(subbands []int) PassbandReport {
	var report PassbandReport
	for i, f := range r.FrequenciesOf(subbands) {
		if i == 0 || f < report.MinMHz {
			report.MinMHz = f
		}
		if i == 0 || f > report.MaxMHz {
			report.MaxMHz = f
		}
		if f < r.plan.Passband.LowerMHz {
			report.BelowLower = true
		}
		if f > r.plan.Passband.UpperMHz {
			report.AboveUpper = true
		}
	}
	return report
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
