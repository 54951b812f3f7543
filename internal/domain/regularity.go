package domain

import (
	"math"
	"time"
)

// RegularityTracker keeps a bounded window of recent speeds and turns their
// steadiness into a fitness rate.
type RegularityTracker struct {
	buf   [SpeedHistoryCapacity]float64
	head  int // index of the oldest sample
	count int
}

// Record appends a speed, evicting the oldest sample when full.
func (r *RegularityTracker) Record(speed float64) {
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = speed
		r.count++
		return
	}
	r.buf[r.head] = speed
	r.head = (r.head + 1) % len(r.buf)
}

// Len returns the number of samples held.
func (r *RegularityTracker) Len() int { return r.count }

// Samples returns the window oldest first.
func (r *RegularityTracker) Samples() []float64 {
	out := make([]float64, r.count)
	for i := range out {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Reset drops all samples.
func (r *RegularityTracker) Reset() {
	r.head, r.count = 0, 0
}

// MeanAbsDeviation returns the mean absolute deviation of the window and
// whether enough samples exist for it to count.
func (r *RegularityTracker) MeanAbsDeviation() (float64, bool) {
	if r.count < RegularityMinSamples {
		return 0, false
	}
	var sum float64
	for i := 0; i < r.count; i++ {
		sum += r.buf[(r.head+i)%len(r.buf)]
	}
	mean := sum / float64(r.count)

	var dev float64
	for i := 0; i < r.count; i++ {
		dev += math.Abs(r.buf[(r.head+i)%len(r.buf)] - mean)
	}
	return dev / float64(r.count), true
}

// FitnessDelta returns the fitness change for a step of length delta.
func (r *RegularityTracker) FitnessDelta(delta time.Duration) float64 {
	mad, ok := r.MeanAbsDeviation()
	if !ok {
		return 0
	}
	bonus := Clamp((RegularityBaseline-mad)/RegularityBaseline, -1, 1)
	return bonus * millis(delta) * RegularityRate
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
