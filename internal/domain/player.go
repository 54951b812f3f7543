package domain

import "time"

// Player is the per-round state of one participant.
type Player struct {
	ID    PlayerID
	Pos   Vec2
	Vel   Vec2
	Accel Vec2

	// IsCarrier is only meaningful in EchoChase.
	IsCarrier bool

	fitness       float64
	speeds        RegularityTracker
	lastResonance time.Duration
	lastDash      time.Duration
}

// NewPlayer creates a player at pos with the initial fitness. Cooldown stamps
// start one full cooldown in the past so the first action is never rejected.
func NewPlayer(id PlayerID, pos Vec2) *Player {
	return &Player{
		ID:            id,
		Pos:           pos,
		fitness:       FitnessInitial,
		lastResonance: -ResonanceCooldown,
		lastDash:      -DashCooldown,
	}
}

// StartPosition returns the spawn point for id.
func StartPosition(id PlayerID) Vec2 {
	if id == P2 {
		return Vec2{X: 550, Y: FieldHeight / 2}
	}
	return Vec2{X: 250, Y: FieldHeight / 2}
}

// Fitness returns the echo meter value.
func (p *Player) Fitness() float64 { return p.fitness }

// SetFitness is the only write path for fitness; it clamps to [0,100].
func (p *Player) SetFitness(v float64) {
	p.fitness = Clamp(v, FitnessMin, FitnessMax)
}

// AddFitness adjusts fitness by delta through SetFitness.
func (p *Player) AddFitness(delta float64) {
	p.SetFitness(p.fitness + delta)
}

// FitnessAtLeastGate reports whether fitness meets the scoring gate.
func (p *Player) FitnessAtLeastGate() bool { return p.fitness >= FitnessGate }

// RecordSpeed feeds the current speed into the regularity window and applies
// the resulting fitness change for a step of length delta.
func (p *Player) RecordSpeed(speed float64, delta time.Duration) {
	p.speeds.Record(speed)
	p.AddFitness(p.speeds.FitnessDelta(delta))
}

// Regularity exposes the speed window.
func (p *Player) Regularity() *RegularityTracker { return &p.speeds }

// LastResonance returns the timestamp of the last accepted resonance.
func (p *Player) LastResonance() time.Duration { return p.lastResonance }

// LastDash returns the timestamp of the last dash attempt that passed the cooldown.
func (p *Player) LastDash() time.Duration { return p.lastDash }
