package model

// ReceiverMode selects the receiver's operating band and sampling clock.
// It corresponds to the RCU mode in station documentation; modes 0-7 are
// defined.
type ReceiverMode int

const (
	// NumSubbands is the number of frequency channels produced by the
	// station polyphase filter; indices run 0..MaxSubband.
	NumSubbands = 512
	MaxSubband  = NumSubbands - 1
)

// FrequencyRange is a [lower, upper] frequency interval in MHz.
type FrequencyRange struct {
	LowerMHz float64
	UpperMHz float64
}

// BandPlan describes the frequency geometry of one receiver mode: the
// sampling clock, the full receiver band, the safely usable passband and
// the spectral direction.
type BandPlan struct {
	ClockMHz float64
	Band     FrequencyRange
	Passband FrequencyRange

	// Direction is +1 when subband index increases with frequency and -1
	// for inverted-spectrum modes. All currently defined modes use +1.
	Direction int
}

// SubbandWidthMHz returns the width of one subband channel.
func (p BandPlan) SubbandWidthMHz() float64 {
	return p.ClockMHz / 1024
}

// bandPlans holds the per-mode geometry. Mode 6 runs on the 160 MHz clock,
// every other mode on 200 MHz.
var bandPlans = map[ReceiverMode]BandPlan{
	0: {ClockMHz: 200, Band: FrequencyRange{0, 0}, Passband: FrequencyRange{0, 0}, Direction: 1},
	1: {ClockMHz: 200, Band: FrequencyRange{0, 100}, Passband: FrequencyRange{10, 90}, Direction: 1},
	2: {ClockMHz: 200, Band: FrequencyRange{0, 100}, Passband: FrequencyRange{30, 80}, Direction: 1},
	3: {ClockMHz: 200, Band: FrequencyRange{0, 100}, Passband: FrequencyRange{10, 80}, Direction: 1},
	4: {ClockMHz: 200, Band: FrequencyRange{0, 100}, Passband: FrequencyRange{30, 80}, Direction: 1},
	5: {ClockMHz: 200, Band: FrequencyRange{100, 200}, Passband: FrequencyRange{110, 190}, Direction: 1},
	6: {ClockMHz: 160, Band: FrequencyRange{160, 240}, Passband: FrequencyRange{170, 230}, Direction: 1},
	7: {ClockMHz: 200, Band: FrequencyRange{200, 300}, Passband: FrequencyRange{210, 270}, Direction: 1},
}

// Valid reports whether m is one of the defined receiver modes.
func (m ReceiverMode) Valid() bool {
	_, ok := bandPlans[m]
	return ok
}

// PlanFor returns the band plan for a receiver mode. The second return is
// false when the mode is undefined.
func PlanFor(m ReceiverMode) (BandPlan, bool) {
	p, ok := bandPlans[m]
	return p, ok
}
