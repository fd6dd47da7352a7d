package core

import (
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/stationctl/model"
)

func TestNewReceiver_InvalidMode(t *testing.T) {
	for _, mode := range []model.ReceiverMode{-1, 8, 100} {
		if _, err := NewReceiver(mode); !errors.Is(err, ErrInvalidMode) {
			t.Errorf("NewReceiver(%d) error = %v, want ErrInvalidMode", mode, err)
		}
	}
}

func TestSubbandWidth_ClockSelection(t *testing.T) {
	// Mode 6 runs on the 160 MHz clock, every other mode on 200 MHz.
	r5, err := NewReceiver(5)
	if err != nil {
		t.Fatalf("NewReceiver(5): %v", err)
	}
	if got, want := r5.SubbandWidthMHz(), 200.0/1024; got != want {
		t.Errorf("mode 5 subband width = %v, want %v", got, want)
	}

	r6, err := NewReceiver(6)
	if err != nil {
		t.Fatalf("NewReceiver(6): %v", err)
	}
	if got, want := r6.SubbandWidthMHz(), 160.0/1024; got != want {
		t.Errorf("mode 6 subband width = %v, want %v", got, want)
	}
}

func TestFrequencyOf_Mode5(t *testing.T) {
	r, err := NewReceiver(5)
	if err != nil {
		t.Fatalf("NewReceiver(5): %v", err)
	}

	// Subband 256 sits exactly halfway through the 100-200 MHz band.
	if got := r.FrequencyOf(256); got != 150.0 {
		t.Errorf("FrequencyOf(256) = %v, want 150.0", got)
	}

	// Out-of-range subbands clip to the band edges.
	if got := r.FrequencyOf(-5); got != 100.0 {
		t.Errorf("FrequencyOf(-5) = %v, want 100.0 (clipped to subband 0)", got)
	}
	want := 100.0 + 511*200.0/1024
	if got := r.FrequencyOf(600); got != want {
		t.Errorf("FrequencyOf(600) = %v, want %v (clipped to subband 511)", got, want)
	}
}

func TestFrequenciesOf_PreservesShape(t *testing.T) {
	r, err := NewReceiver(7)
	if err != nil {
		t.Fatalf("NewReceiver(7): %v", err)
	}
	subbands := []int{0, 100, 511}
	freqs := r.FrequenciesOf(subbands)
	if len(freqs) != len(subbands) {
		t.Fatalf("FrequenciesOf returned %d values for %d subbands", len(freqs), len(subbands))
	}
	for i, s := range subbands {
		if freqs[i] != r.FrequencyOf(s) {
			t.Errorf("FrequenciesOf[%d] = %v, want %v", i, freqs[i], r.FrequencyOf(s))
		}
	}
}

func TestSubbandOf_RoundTrip(t *testing.T) {
	// subbandOf(frequencyOf(s)) == s for every valid subband of every mode.
	for mode := model.ReceiverMode(0); mode <= 7; mode++ {
		r, err := NewReceiver(mode)
		if err != nil {
			t.Fatalf("NewReceiver(%d): %v", mode, err)
		}
		for s := 0; s <= model.MaxSubband; s++ {
			if got := r.SubbandOf(r.FrequencyOf(s)); got != s {
				t.Fatalf("mode %d: SubbandOf(FrequencyOf(%d)) = %d", mode, s, got)
			}
		}
	}
}

func TestSubbandOf_RoundingBoundary(t *testing.T) {
	r, err := NewReceiver(5)
	if err != nil {
		t.Fatalf("NewReceiver(5): %v", err)
	}
	width := r.SubbandWidthMHz()

	// Exactly halfway between subbands 100 and 101 rounds away from zero,
	// i.e. up to 101; just below the midpoint stays at 100.
	mid := 100.0 + (100.0+0.5)*width
	if got := r.SubbandOf(mid); got != 101 {
		t.Errorf("SubbandOf(midpoint) = %d, want 101 (half-away-from-zero)", got)
	}
	if got := r.SubbandOf(mid - 1e-9); got != 100 {
		t.Errorf("SubbandOf(midpoint-eps) = %d, want 100", got)
	}
}

func TestSubbandOf_ClipsToRange(t *testing.T) {
	r, err := NewReceiver(5)
	if err != nil {
		t.Fatalf("NewReceiver(5): %v", err)
	}
	if got := r.SubbandOf(50.0); got != 0 {
		t.Errorf("SubbandOf(50.0) = %d, want 0", got)
	}
	if got := r.SubbandOf(250.0); got != 511 {
		t.Errorf("SubbandOf(250.0) = %d, want 511", got)
	}
}

func TestCheckSubbands_Advisory(t *testing.T) {
	r, err := NewReceiver(5) // passband 110-190 MHz
	if err != nil {
		t.Fatalf("NewReceiver(5): %v", err)
	}

	if report := r.CheckSubbands([]int{256}); !report.OK() {
		t.Errorf("subband 256 (150 MHz) flagged outside passband: %+v", report)
	}

	low := r.CheckSubbands([]int{40}) // ~107.8 MHz, below 110
	if low.OK() || !low.BelowLower || low.AboveUpper {
		t.Errorf("subband 40 report = %+v, want BelowLower only", low)
	}
	if low.MinMHz >= 110 {
		t.Errorf("report.MinMHz = %v, want < 110", low.MinMHz)
	}

	high := r.CheckSubbands([]int{470}) // ~191.8 MHz, above 190
	if high.OK() || !high.AboveUpper || high.BelowLower {
		t.Errorf("subband 470 report = %+v, want AboveUpper only", high)
	}

	both := r.CheckSubbands([]int{40, 470})
	if !both.BelowLower || !both.AboveUpper {
		t.Errorf("mixed report = %+v, want both flags", both)
	}
}

func TestCheckSubbands_ReportsExtremes(t *testing.T) {
	r, err := NewReceiver(5)
	if err != nil {
		t.Fatalf("NewReceiver(5): %v", err)
	}
	report := r.CheckSubbands([]int{100, 300, 200})
	if math.Abs(report.MinMHz-r.FrequencyOf(100)) > 1e-12 {
		t.Errorf("MinMHz = %v, want %v", report.MinMHz, r.FrequencyOf(100))
	}
	if math.Abs(report.MaxMHz-r.FrequencyOf(300)) > 1e-12 {
		t.Errorf("MaxMHz = %v, want %v", report.MaxMHz, r.FrequencyOf(300))
	}
}
