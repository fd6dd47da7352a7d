package core

import (
	"fmt"
	"strings"

	"github.com/signalsfoundry/stationctl/model"
)

// Beam is an ordered, non-empty set of beamlets sharing one digital
// pointing, one antenna set, one receiver mode and one coordinate system.
// Its directives are assembled once, at construction, and never mutated.
type Beam struct {
	ids      []int
	subbands []int

	digital  model.Pointing
	analog   model.Pointing
	antennas model.AntennaSet
	mode     model.ReceiverMode
	coordSys model.CoordinateSystem

	directives []*Directive
}

// BeamletTuple is one configured (id, subband, pointing) binding. Expanding
// a beam's directives yields the identical tuple set whether or not the
// beam was merged into a range directive.
type BeamletTuple struct {
	ID       int
	Subband  int
	Pointing model.Pointing
}

// NewBeam validates the (id, subband) pairing and assembles directives.
// When both the IDs and the subbands form strictly ascending step-1 runs of
// length >= 2, the whole beam collapses into a single range directive;
// otherwise one directive is emitted per beamlet. The analog pointing may
// be nil, in which case HBA beams reuse the digital pointing for the tile
// beamformer, matching how single-target observations are usually set up.
func NewBeam(ids, subbands []int, digital model.Pointing, analog *model.Pointing,
	antennas model.AntennaSet, mode model.ReceiverMode, coordSys model.CoordinateSystem) (*Beam, error) {

	if len(subbands) == 0 {
		return nil, fmt.Errorf("%w: a beam needs at least one subband", ErrInvalidConfiguration)
	}
	if len(ids) != len(subbands) {
		return nil, fmt.Errorf("%w: number of beamlet ids (%d) does not match the number of subbands (%d)",
			ErrInvalidConfiguration, len(ids), len(subbands))
	}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate beamlet id %d", ErrInvalidConfiguration, id)
		}
		seen[id] = true
	}
	for _, s := range subbands {
		if s < 0 || s > model.MaxSubband {
			return nil, fmt.Errorf("%w: subband %d falls outside 0-%d", ErrInvalidConfiguration, s, model.MaxSubband)
		}
	}

	b := &Beam{
		ids:      append([]int(nil), ids...),
		subbands: append([]int(nil), subbands...),
		digital:  digital,
		antennas: antennas,
		mode:     mode,
		coordSys: coordSys,
	}
	b.analog = digital
	if analog != nil {
		b.analog = *analog
	}

	if err := b.assemble(); err != nil {
		return nil, err
	}
	return b, nil
}

// contiguous reports merge eligibility: >= 2 beamlets whose IDs and
// subbands both ascend in steps of exactly 1.
func (b *Beam) contiguous() bool {
	if len(b.ids) < 2 {
		return false
	}
	for i := 1; i < len(b.ids); i++ {
		if b.ids[i]-b.ids[i-1] != 1 || b.subbands[i]-b.subbands[i-1] != 1 {
			return false
		}
	}
	return true
}

func (b *Beam) assemble() error {
	var analog *model.Pointing
	if b.antennas.IsHBA() {
		analog = &b.analog
	}

	if b.contiguous() {
		last := len(b.ids) - 1
		d, err := NewDirective(Directive{
			AntennaSet: b.antennas,
			Mode:       b.mode,
			CoordSys:   b.coordSys,
			Subbands:   Span(b.subbands[0], b.subbands[last]),
			Beamlets:   Span(b.ids[0], b.ids[last]),
			Digital:    b.digital,
			Analog:     analog,
		})
		if err != nil {
			return err
		}
		b.directives = []*Directive{d}
		return nil
	}

	for i := range b.ids {
		d, err := NewDirective(Directive{
			AntennaSet: b.antennas,
			Mode:       b.mode,
			CoordSys:   b.coordSys,
			Subbands:   Single(b.subbands[i]),
			Beamlets:   Single(b.ids[i]),
			Digital:    b.digital,
			Analog:     analog,
		})
		if err != nil {
			return err
		}
		b.directives = append(b.directives, d)
	}
	return nil
}

// Directives returns the assembled directives, one for a merged beam or
// one per beamlet otherwise.
func (b *Beam) Directives() []*Directive { return b.directives }

// Tuples expands the assembled directives back into individual
// (id, subband, pointing) bindings. Range directives unroll position by
// position, so the result is identical to a non-merged rendering.
func (b *Beam) Tuples() []BeamletTuple {
	var tuples []BeamletTuple
	for _, d := range b.directives {
		ids := d.Beamlets.Expand()
		subs := d.Subbands.Expand()
		for i := range ids {
			tuples = append(tuples, BeamletTuple{ID: ids[i], Subband: subs[i], Pointing: d.Digital})
		}
	}
	return tuples
}

// Render joins the beam's directive lines with newlines.
func (b *Beam) Render() string {
	lines := make([]string, len(b.directives))
	for i, d := range b.directives {
		lines[i] = d.Render()
	}
	return strings.Join(lines, "\n")
}

// IDs returns the beamlet IDs in beam order.
func (b *Beam) IDs() []int { return append([]int(nil), b.ids...) }

// Subbands returns the subbands in beam order.
func (b *Beam) Subbands() []int { return append([]int(nil), b.subbands...) }

// NBeamlets returns the number of beamlets in the beam.
func (b *Beam) NBeamlets() int { return len(b.ids) }

// Digital returns the shared digital pointing.
func (b *Beam) Digital() model.Pointing { return b.digital }
