package domain

import "time"

// Beat window shape. These are shared by every player and every mode so that
// timing quality is judged identically on both sides.
const (
	BeatPeriod           = 2000 * time.Millisecond
	OnBeatThreshold      = 0.85
	PerfectBeatThreshold = 0.95
)

// Action cooldowns and dash tuning.
const (
	ResonanceCooldown     = 200 * time.Millisecond
	DashCooldown          = 500 * time.Millisecond
	DashVelocityThreshold = 10.0
	DashForce             = 500.0
)

// Fitness (echo meter) bounds and adjustments.
const (
	FitnessMin     = 0.0
	FitnessMax     = 100.0
	FitnessInitial = 50.0
	FitnessGate    = 50.0

	ResonanceMissPenalty = 5.0
	DashPerfectBonus     = 20.0
	DashGoodBonus        = 5.0
	DashMissPenalty      = 10.0
)

// Regularity tracking.
const (
	SpeedHistoryCapacity = 10
	RegularityMinSamples = 3
	RegularityBaseline   = 50.0
	RegularityRate       = 0.02 // fitness per millisecond at full bonus
)

// Points awarded by the standard ledger rule.
const (
	PointsPerfect   = 3
	PointsGood      = 1
	PointsKnockback = 1
)

// Field geometry and movement.
const (
	FieldWidth   = 800.0
	FieldHeight  = 600.0
	PlayerRadius = 20.0

	Acceleration = 1200.0 // units/s^2
	Drag         = 400.0  // units/s^2, per axis, applied while the axis is idle
	MaxSpeed     = 280.0  // units/s, per axis
	WallBounce   = 0.3
)

// RoundDuration is the fixed length of every round.
const RoundDuration = 90000 * time.Millisecond

// BeatCueSpacing is the minimum gap between two metronome cues.
const BeatCueSpacing = 500 * time.Millisecond
