package clock

import (
	"testing"
	"time"
)

func TestSystemNow(t *testing.T) {
	before := time.Now()
	got := System().Now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("System().Now() = %v, outside [%v, %v]", got, before, after)
	}
}

func TestFixedNow(t *testing.T) {
	at := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	f := NewFixed(at)
	if !f.Now().Equal(at) {
		t.Errorf("Now() = %v, want %v", f.Now(), at)
	}
	// A fixed clock does not drift.
	time.Sleep(time.Millisecond)
	if !f.Now().Equal(at) {
		t.Errorf("Now() drifted to %v, want %v", f.Now(), at)
	}
}

func TestFixedAdvance(t *testing.T) {
	at := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	f := NewFixed(at)
	f.Advance(90 * time.Minute)
	if want := at.Add(90 * time.Minute); !f.Now().Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", f.Now(), want)
	}
}
