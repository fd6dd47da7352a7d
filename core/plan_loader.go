package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/signalsfoundry/stationctl/internal/logging"
	"github.com/signalsfoundry/stationctl/model"
	"gopkg.in/yaml.v3"
)

// Plan is the on-disk observation plan. JSON is the primary format; YAML
// files are accepted for hand-written plans.
type Plan struct {
	AntennaSet      string     `json:"antenna_set" yaml:"antenna_set"`
	RCUMode         int        `json:"rcumode" yaml:"rcumode"`
	DurationSeconds int        `json:"duration_seconds" yaml:"duration_seconds"`
	Beams           []PlanBeam `json:"beams" yaml:"beams"`
}

// PlanBeam describes one beam either by an explicit subband list or by a
// center frequency plus window width. Exactly one of the two forms must be
// used.
type PlanBeam struct {
	Subbands []int `json:"subbands,omitempty" yaml:"subbands,omitempty"`

	CenterFrequencyMHz float64 `json:"center_frequency_mhz,omitempty" yaml:"center_frequency_mhz,omitempty"`
	SubbandCount       int     `json:"subband_count,omitempty" yaml:"subband_count,omitempty"`
	Position           string  `json:"position,omitempty" yaml:"position,omitempty"`

	RA       float64 `json:"ra" yaml:"ra"`
	Dec      float64 `json:"dec" yaml:"dec"`
	CoordSys string  `json:"coordsys" yaml:"coordsys"`

	// InDegrees marks ra/dec as degrees; the default is radians.
	InDegrees bool `json:"in_degrees,omitempty" yaml:"in_degrees,omitempty"`
}

// LoadPlan decodes a JSON plan from r.
func LoadPlan(r io.Reader) (*Plan, error) {
	var p Plan
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("LoadPlan: decode failed: %w", err)
	}
	return &p, nil
}

// LoadPlanFile reads a plan from disk, choosing the decoder by file
// extension (.yaml/.yml are YAML, everything else JSON).
func LoadPlanFile(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadPlanFile: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var p Plan
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("LoadPlanFile: decode %q failed: %w", path, err)
		}
		return &p, nil
	default:
		return LoadPlan(strings.NewReader(string(raw)))
	}
}

// BuildObservation replays a plan into a fresh observation. Structural
// problems (bad antenna set or mode, malformed beam entries) fail the
// build; a pool exhaustion on an individual beam is logged and counted but
// does not abort the remaining beams, matching the recoverable-error
// contract of AddBeam.
func BuildObservation(p *Plan, log logging.Logger, rec Recorder) (*Observation, error) {
	if p == nil {
		return nil, fmt.Errorf("BuildObservation: plan is nil")
	}

	obs, err := NewObservation(ObservationConfig{
		AntennaSet: model.AntennaSet(strings.ToUpper(p.AntennaSet)),
		Mode:       model.ReceiverMode(p.RCUMode),
		Duration:   time.Duration(p.DurationSeconds) * time.Second,
		Logger:     log,
		Metrics:    rec,
	})
	if err != nil {
		return nil, fmt.Errorf("BuildObservation: %w", err)
	}

	for i, beam := range p.Beams {
		coordSys := model.CoordinateSystem(strings.ToUpper(beam.CoordSys))
		if beam.CoordSys == "" {
			coordSys = model.CoordJ2000
		}
		inRadians := !beam.InDegrees

		switch {
		case len(beam.Subbands) > 0 && beam.SubbandCount > 0:
			return nil, fmt.Errorf("BuildObservation: beam %d specifies both subbands and subband_count", i)

		case len(beam.Subbands) > 0:
			err = obs.AddBeam(beam.Subbands, beam.RA, beam.Dec, coordSys, inRadians)

		case beam.SubbandCount > 0:
			var pos WindowPosition
			pos, err = ParseWindowPosition(beam.Position)
			if err == nil {
				err = obs.AddBeamAtFrequency(beam.CenterFrequencyMHz, beam.SubbandCount,
					beam.RA, beam.Dec, coordSys, inRadians, pos)
			}

		default:
			return nil, fmt.Errorf("BuildObservation: beam %d has neither subbands nor subband_count", i)
		}

		if errors.Is(err, ErrResourceExhausted) {
			// Already logged and counted by AddBeam; keep going so the
			// plan yields as many beams as the pool allows.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("BuildObservation: beam %d: %w", i, err)
		}
	}
	return obs, nil
}
