package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPlanJSON = `{
  "antenna_set": "HBA_DUAL",
  "rcumode": 5,
  "duration_seconds": 600,
  "beams": [
    {
      "center_frequency_mhz": 150.0,
      "subband_count": 10,
      "position": "center",
      "ra": 45.0,
      "dec": 60.0,
      "coordsys": "J2000",
      "in_degrees": true
    },
    {
      "subbands": [251, 256, 260],
      "ra": 0.5,
      "dec": 0.25,
      "coordsys": "AZELGEO"
    }
  ]
}`

func TestLoadPlan_JSON(t *testing.T) {
	plan, err := LoadPlan(strings.NewReader(testPlanJSON))
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if plan.AntennaSet != "HBA_DUAL" || plan.RCUMode != 5 {
		t.Errorf("plan header = %q/%d, want HBA_DUAL/5", plan.AntennaSet, plan.RCUMode)
	}
	if len(plan.Beams) != 2 {
		t.Fatalf("plan has %d beams, want 2", len(plan.Beams))
	}
	if plan.DurationSeconds != 600 {
		t.Errorf("duration = %d, want 600", plan.DurationSeconds)
	}
}

func TestBuildObservation_FromPlan(t *testing.T) {
	plan, err := LoadPlan(strings.NewReader(testPlanJSON))
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}

	obs, err := BuildObservation(plan, nil, nil)
	if err != nil {
		t.Fatalf("BuildObservation: %v", err)
	}
	if obs.BeamCount() != 2 {
		t.Fatalf("BeamCount = %d, want 2", obs.BeamCount())
	}
	if obs.BeamletCount() != 13 {
		t.Errorf("BeamletCount = %d, want 13", obs.BeamletCount())
	}

	// Beam 1: 10-wide centered window around 150 MHz with freshly
	// allocated ids 0..9 -> a single merged directive.
	script := obs.Script()
	if !strings.Contains(script, "--subbands=251:260") || !strings.Contains(script, "--beamlets=0:9") {
		t.Errorf("script missing merged frequency beam:\n%s", script)
	}
	// Beam 2: explicit non-contiguous subbands render per beamlet.
	if !strings.Contains(script, "--subbands=256 --beamlets=11") {
		t.Errorf("script missing per-beamlet directive:\n%s", script)
	}
	if !strings.Contains(script, "AZELGEO") {
		t.Errorf("script missing AZELGEO coordsys:\n%s", script)
	}
}

func TestLoadPlanFile_YAML(t *testing.T) {
	raw := `antenna_set: LBA_INNER
rcumode: 4
duration_seconds: 300
beams:
  - subbands: [154, 155, 156]
    ra: 0.7
    dec: 1.1
    coordsys: J2000
`
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	plan, err := LoadPlanFile(path)
	if err != nil {
		t.Fatalf("LoadPlanFile: %v", err)
	}
	obs, err := BuildObservation(plan, nil, nil)
	if err != nil {
		t.Fatalf("BuildObservation: %v", err)
	}
	if got := obs.Script(); !strings.Contains(got, "--antennaset=LBA_INNER") || !strings.Contains(got, "--subbands=154:156") {
		t.Errorf("unexpected script:\n%s", got)
	}
}

func TestLoadPlanFile_JSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte(testPlanJSON), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	plan, err := LoadPlanFile(path)
	if err != nil {
		t.Fatalf("LoadPlanFile: %v", err)
	}
	if len(plan.Beams) != 2 {
		t.Fatalf("plan has %d beams, want 2", len(plan.Beams))
	}
}

func TestBuildObservation_RejectsAmbiguousBeam(t *testing.T) {
	plan := &Plan{
		AntennaSet: "HBA_DUAL",
		RCUMode:    5,
		Beams: []PlanBeam{
			{Subbands: []int{100}, SubbandCount: 4, CenterFrequencyMHz: 150, RA: 1, Dec: 1},
		},
	}
	if _, err := BuildObservation(plan, nil, nil); err == nil {
		t.Fatalf("ambiguous beam accepted, want error")
	}
}

func TestBuildObservation_RejectsEmptyBeam(t *testing.T) {
	plan := &Plan{
		AntennaSet: "HBA_DUAL",
		RCUMode:    5,
		Beams:      []PlanBeam{{RA: 1, Dec: 1}},
	}
	if _, err := BuildObservation(plan, nil, nil); err == nil {
		t.Fatalf("empty beam accepted, want error")
	}
}

func TestBuildObservation_SkipsBeamsPastExhaustion(t *testing.T) {
	// First beam drains the pool; the second cannot be allocated but the
	// build still succeeds with what fit.
	subbands := make([]int, MaxBeamlets)
	for i := range subbands {
		subbands[i] = i
	}
	plan := &Plan{
		AntennaSet: "HBA_DUAL",
		RCUMode:    5,
		Beams: []PlanBeam{
			{Subbands: subbands, RA: 1, Dec: 1},
			{Subbands: []int{400}, RA: 1, Dec: 1},
		},
	}

	obs, err := BuildObservation(plan, nil, nil)
	if err != nil {
		t.Fatalf("BuildObservation: %v", err)
	}
	if obs.BeamCount() != 1 {
		t.Errorf("BeamCount = %d, want 1 (second beam skipped)", obs.BeamCount())
	}
	if obs.Pool().Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", obs.Pool().Remaining())
	}
}

func TestBuildObservation_LowercasePlanValues(t *testing.T) {
	plan := &Plan{
		AntennaSet: "hba_dual",
		RCUMode:    5,
		Beams:      []PlanBeam{{Subbands: []int{256}, RA: 1, Dec: 1, CoordSys: "j2000"}},
	}
	obs, err := BuildObservation(plan, nil, nil)
	if err != nil {
		t.Fatalf("BuildObservation: %v", err)
	}
	if !strings.Contains(obs.Script(), "--antennaset=HBA_DUAL") {
		t.Errorf("antenna set not normalised:\n%s", obs.Script())
	}
}
