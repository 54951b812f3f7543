package bot

import (
	"math"

	"echoes/internal/domain"
)

const (
	// arriveRadius is how close a bot needs to be before it stops steering.
	arriveRadius = 6.0
	// chaseRange is kept under the steal distance so a hit always lands.
	chaseRange = 70.0
	// missFitnessFloor leaves room for the miss penalty before the gate.
	missFitnessFloor = domain.FitnessGate + domain.ResonanceMissPenalty + 5
	// offBeat is a proximity that is always judged a miss.
	offBeat = domain.OnBeatThreshold - 0.2
)

func inPerfectWindow(v View) bool { return v.Proximity > domain.PerfectBeatThreshold }
func inGoodWindow(v View) bool    { return v.Proximity > domain.OnBeatThreshold }

// steerTo returns a direction toward target that lets drag bring the body to
// rest on it: each axis stops accelerating once its stopping distance covers
// the remaining gap.
func steerTo(self domain.Vec2, vel domain.Vec2, target domain.Vec2) domain.Vec2 {
	return domain.NormaliseDir(
		approachAxis(self.X, vel.X, target.X),
		approachAxis(self.Y, vel.Y, target.Y),
	)
}

func approachAxis(pos, vel, target float64) float64 {
	d := target - pos
	if math.Abs(d) < arriveRadius {
		return 0
	}
	stopping := vel * vel / (2 * domain.Drag)
	if vel*d > 0 && stopping >= math.Abs(d) {
		return 0
	}
	if d > 0 {
		return 1
	}
	return -1
}

// afterShiftResonance handles Dissonance once the field has flipped: only an
// off-beat press by a fit player pays.
func afterShiftResonance(v View) bool {
	return v.Proximity < offBeat && v.Self.Fitness >= missFitnessFloor
}
