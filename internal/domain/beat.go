package domain

import "time"

// Quality classifies how close a timed action landed to the beat.
type Quality string

const (
	QualityPerfect  Quality = "perfect"
	QualityGood     Quality = "good"
	QualityMiss     Quality = "miss"
	QualityCooldown Quality = "cooldown"
)

// BeatClock generates the shared periodic phase that every timed action is
// judged against.
type BeatClock struct {
	period    time.Duration
	start     time.Duration
	started   bool
	dissonant bool
}

// NewBeatClock returns a clock with the fixed beat period.
func NewBeatClock() *BeatClock {
	return &BeatClock{period: BeatPeriod}
}

// Start anchors phase 0 at now.
func (c *BeatClock) Start(now time.Duration) {
	c.start = now
	c.started = true
}

// Period returns the beat period.
func (c *BeatClock) Period() time.Duration { return c.period }

// Phase returns the position within the current period in [0,1).
// An unstarted clock reports 0.
func (c *BeatClock) Phase(now time.Duration) float64 {
	if !c.started {
		return 0
	}
	off := (now - c.start) % c.period
	if off < 0 {
		off += c.period
	}
	return float64(off) / float64(c.period)
}

// Proximity is a triangular wave: 1 on the beat, 0 half a period away.
func (c *BeatClock) Proximity(now time.Duration) float64 {
	phase := c.Phase(now)
	return 1 - 2*min(phase, 1-phase)
}

// IsOnBeat reports whether now falls inside the good window.
func (c *BeatClock) IsOnBeat(now time.Duration) bool {
	return c.Proximity(now) > OnBeatThreshold
}

// IsPerfectBeat reports whether now falls inside the perfect window.
func (c *BeatClock) IsPerfectBeat(now time.Duration) bool {
	return c.Proximity(now) > PerfectBeatThreshold
}

// Classify maps now to perfect, good or miss.
func (c *BeatClock) Classify(now time.Duration) Quality {
	switch p := c.Proximity(now); {
	case p > PerfectBeatThreshold:
		return QualityPerfect
	case p > OnBeatThreshold:
		return QualityGood
	default:
		return QualityMiss
	}
}

// BeatIndex returns the number of whole periods elapsed since Start.
func (c *BeatClock) BeatIndex(now time.Duration) int64 {
	if !c.started || now < c.start {
		return 0
	}
	return int64((now - c.start) / c.period)
}

// ToggleDissonance flips the dissonance flag. Phase math ignores it.
func (c *BeatClock) ToggleDissonance() { c.dissonant = !c.dissonant }

// Dissonant reports the dissonance flag.
func (c *BeatClock) Dissonant() bool { return c.dissonant }
