package photocell

import (
	"math"
	"testing"
)

func TestSmootherWarmupAndSteadyState(t *testing.T) {
	var s smoother
	s.Reset(3)

	inputs := []float64{10, 20, 30, 40}
	want := []float64{
		10,                   // first sample, average of 1
		(10.0 + 20) / 2,      // warm-up partial average
		(10.0 + 20 + 30) / 3, // window just filled
		(20.0 + 30 + 40) / 3, // oldest sample replaced
	}

	for i, in := range inputs {
		got := s.Push(in)
		if math.Abs(got-want[i]) > 1e-9 {
			t.Errorf("push %d: got %v, want %v", i+1, got, want[i])
		}
	}
}

func TestSmootherDisabled(t *testing.T) {
	var s smoother
	s.Reset(0)

	for _, in := range []float64{5, 100, 0.3} {
		if got := s.Push(in); got != in {
			t.Errorf("disabled smoother returned %v for input %v", got, in)
		}
	}
}

func TestSmootherNeverReturnsSentinel(t *testing.T) {
	var s smoother
	s.Reset(10)

	// During warm-up every returned average must come from real
	// samples only, never from an unfilled slot.
	for i := 0; i < 10; i++ {
		if got := s.Push(float64(i)); got < 0 {
			t.Fatalf("push %d: negative smoothed lux %v", i+1, got)
		}
	}
}

func TestSmootherWindowClamped(t *testing.T) {
	var s smoother
	s.Reset(MaxSmoothingWindow + 50)

	if s.size != MaxSmoothingWindow {
		t.Errorf("window size %d, want clamp to %d", s.size, MaxSmoothingWindow)
	}
}

func TestSmootherResetRestartsWarmup(t *testing.T) {
	var s smoother
	s.Reset(2)
	s.Push(100)
	s.Push(200)
	s.Push(300)

	s.Reset(2)
	if got := s.Push(42); got != 42 {
		t.Errorf("first push after reset returned %v, want 42", got)
	}
}

func TestSmootherWrapsCircularly(t *testing.T) {
	var s smoother
	s.Reset(2)

	s.Push(1)
	s.Push(2)
	s.Push(3)        // replaces 1
	got := s.Push(4) // replaces 2

	if want := (3.0 + 4) / 2; math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}
