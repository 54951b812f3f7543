package domain

import (
	"math"
	"time"
)

// ResolveResonance judges a resonance attempt. Attempts inside the cooldown
// return QualityCooldown and change nothing, including the cooldown stamp.
func ResolveResonance(p *Player, clock *BeatClock, now time.Duration) Quality {
	if now-p.lastResonance < ResonanceCooldown {
		return QualityCooldown
	}
	p.lastResonance = now

	q := clock.Classify(now)
	if q == QualityMiss {
		p.AddFitness(-ResonanceMissPenalty)
	}
	return q
}

// ResolveDash judges a dash attempt and reports whether the dash fired.
//
// The cooldown stamp is taken before the velocity check, so a dash refused for
// lack of movement still starts the cooldown.
func ResolveDash(p *Player, clock *BeatClock, now time.Duration) (Quality, bool) {
	if now-p.lastDash < DashCooldown {
		return "", false
	}
	p.lastDash = now

	if math.Abs(p.Vel.X) < DashVelocityThreshold && math.Abs(p.Vel.Y) < DashVelocityThreshold {
		return "", false
	}

	heading := math.Atan2(p.Vel.Y, p.Vel.X)
	p.Vel = Vec2{X: math.Cos(heading) * DashForce, Y: math.Sin(heading) * DashForce}

	q := clock.Classify(now)
	switch q {
	case QualityPerfect:
		p.AddFitness(DashPerfectBonus)
	case QualityGood:
		p.AddFitness(DashGoodBonus)
	default:
		p.AddFitness(-DashMissPenalty)
	}
	return q, true
}
