package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/signalsfoundry/stationctl/model"
)

// ErrInvalidConfiguration is returned when a directive or beam is built
// with an unknown antenna set, mode or coordinate system, or with an
// incompatible antenna/mode pair.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// rcuSpec selects every receiver unit of a full station (192 RCUs).
const rcuSpec = "0:191"

// FieldSpec addresses either a single subband/beamlet or an inclusive
// lo:hi run. The choice is made once, by beam assembly; downstream code
// never re-infers it from argument shape.
type FieldSpec struct {
	lo, hi int
	ranged bool
}

// Single addresses one index.
func Single(n int) FieldSpec { return FieldSpec{lo: n, hi: n} }

// Span addresses the inclusive run lo..hi.
func Span(lo, hi int) FieldSpec { return FieldSpec{lo: lo, hi: hi, ranged: true} }

// IsRange reports whether the spec is a lo:hi run.
func (f FieldSpec) IsRange() bool { return f.ranged }

// Lo returns the first (or only) index addressed.
func (f FieldSpec) Lo() int { return f.lo }

// Hi returns the last (or only) index addressed.
func (f FieldSpec) Hi() int { return f.hi }

// Count returns how many indices the spec addresses.
func (f FieldSpec) Count() int { return f.hi - f.lo + 1 }

// Expand lists every index the spec addresses, ascending.
func (f FieldSpec) Expand() []int {
	out := make([]int, 0, f.Count())
	for i := f.lo; i <= f.hi; i++ {
		out = append(out, i)
	}
	return out
}

// String renders the spec in directive syntax: "N" or "lo:hi".
func (f FieldSpec) String() string {
	if f.ranged {
		return strconv.Itoa(f.lo) + ":" + strconv.Itoa(f.hi)
	}
	return strconv.Itoa(f.lo)
}

// Directive is one beamctl invocation: the binding of a subband spec to a
// beamlet-ID spec under one digital pointing. Its rendered form is a
// compatibility contract with the external executor and must not change.
type Directive struct {
	AntennaSet model.AntennaSet
	Mode       model.ReceiverMode
	CoordSys   model.CoordinateSystem
	Subbands   FieldSpec
	Beamlets   FieldSpec
	Digital    model.Pointing

	// Analog is the shared tile beamformer pointing. Required for HBA
	// antenna sets, ignored for LBA.
	Analog *model.Pointing
}

// NewDirective validates and constructs a directive. Violations return
// ErrInvalidConfiguration naming the offending field.
func NewDirective(d Directive) (*Directive, error) {
	if !d.AntennaSet.Known() {
		return nil, fmt.Errorf("%w: antenna set %q is not one of the available antenna sets", ErrInvalidConfiguration, d.AntennaSet)
	}
	if !d.Mode.Valid() {
		return nil, fmt.Errorf("%w: rcumode %d is outside 0-7", ErrInvalidConfiguration, d.Mode)
	}
	if !d.CoordSys.Known() {
		return nil, fmt.Errorf("%w: coordinate system %q is not one of the available coordinate systems", ErrInvalidConfiguration, d.CoordSys)
	}
	if !d.AntennaSet.CompatibleWith(d.Mode) {
		return nil, fmt.Errorf("%w: antenna set %q is not compatible with rcumode %d", ErrInvalidConfiguration, d.AntennaSet, d.Mode)
	}
	if d.Subbands.Lo() < 0 || d.Subbands.Hi() > model.MaxSubband || d.Subbands.Lo() > d.Subbands.Hi() {
		return nil, fmt.Errorf("%w: subbands %s fall outside 0-%d", ErrInvalidConfiguration, d.Subbands, model.MaxSubband)
	}
	if d.Beamlets.Lo() < 0 || d.Beamlets.Hi() > MaxBeamlets-1 || d.Beamlets.Lo() > d.Beamlets.Hi() {
		return nil, fmt.Errorf("%w: beamlets %s fall outside 0-%d", ErrInvalidConfiguration, d.Beamlets, MaxBeamlets-1)
	}
	if d.Subbands.Count() != d.Beamlets.Count() {
		return nil, fmt.Errorf("%w: subband count %d does not match beamlet count %d", ErrInvalidConfiguration, d.Subbands.Count(), d.Beamlets.Count())
	}
	if d.AntennaSet.IsHBA() && d.Analog == nil {
		return nil, fmt.Errorf("%w: antenna set %q requires an analog pointing", ErrInvalidConfiguration, d.AntennaSet)
	}
	return &d, nil
}

// Render produces the control-command line for this directive. Field order
// and separators are fixed by the executor contract.
func (d *Directive) Render() string {
	var b strings.Builder
	b.WriteString("beamctl")
	fmt.Fprintf(&b, " --antennaset=%s", d.AntennaSet)
	fmt.Fprintf(&b, " --rcus=%s", rcuSpec)
	fmt.Fprintf(&b, " --rcumode=%d", d.Mode)
	fmt.Fprintf(&b, " --subbands=%s", d.Subbands)
	fmt.Fprintf(&b, " --beamlets=%s", d.Beamlets)
	fmt.Fprintf(&b, " --digdir=%s,%s,%s", formatCoord(d.Digital.RA), formatCoord(d.Digital.Dec), d.CoordSys)
	if d.AntennaSet.IsHBA() && d.Analog != nil {
		fmt.Fprintf(&b, " --anadir=%s,%s,%s", formatCoord(d.Analog.RA), formatCoord(d.Analog.Dec), d.CoordSys)
	}
	b.WriteString(" &")
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
