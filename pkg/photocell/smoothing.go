package photocell

// MaxSmoothingWindow bounds the smoothing history ring. Window sizes
// above this are clamped.
const MaxSmoothingWindow = 100

// unfilledSentinel marks ring slots that have not received a reading
// yet. Lux can never be negative, so any value below unfilledThreshold
// identifies an empty slot.
const (
	unfilledSentinel  = -1.0
	unfilledThreshold = -0.1
)

// smoother is a fixed-capacity ring of historical lux values with a
// running sum. While the ring is warming up it averages over the
// samples collected so far; once full it produces a true windowed
// moving average.
type smoother struct {
	values [MaxSmoothingWindow]float64
	sum    float64
	size   uint
	next   uint
}

// Reset clamps the window size to MaxSmoothingWindow, marks every slot
// unfilled and restarts the warm-up phase.
func (s *smoother) Reset(window uint) {
	if window > MaxSmoothingWindow {
		window = MaxSmoothingWindow
	}
	s.size = window
	s.next = 0
	s.sum = 0
	for i := uint(0); i < s.size; i++ {
		s.values[i] = unfilledSentinel
	}
}

// Push records a new lux reading and returns the smoothed value.
// With a zero window size smoothing is disabled and the input passes
// through untouched.
func (s *smoother) Push(lux float64) float64 {
	if s.size == 0 {
		return lux
	}

	if s.values[s.next] < unfilledThreshold {
		// Warming up: fill one more slot and average over the
		// samples collected so far rather than the full window,
		// so the sentinel never biases early readings.
		s.values[s.next] = lux
		s.sum += lux

		if s.next < s.size-1 {
			s.next++
			return s.sum / float64(s.next)
		}

		// Ring is full now, steady state starts with the next push.
		s.next = 0
		return s.sum / float64(s.size)
	}

	// Steady state: replace the oldest value in ring and sum.
	s.sum -= s.values[s.next]
	s.values[s.next] = lux
	s.sum += lux

	if s.next < s.size-1 {
		s.next++
	} else {
		s.next = 0
	}

	return s.sum / float64(s.size)
}
