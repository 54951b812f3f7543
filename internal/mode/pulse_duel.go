package mode

import (
	"time"

	"echoes/internal/domain"
)

// FieldCentre is where the PulseDuel zone sits.
var FieldCentre = domain.Vec2{X: domain.FieldWidth / 2, Y: domain.FieldHeight / 2}

const (
	zoneInitialRadius = 100.0
	zoneMinRadius     = 60.0
	zoneMaxRadius     = 140.0
	zoneGrowthRate    = 0.02  // units per millisecond
	zoneSpinRate      = 0.001 // radians per millisecond
	zoneReverseEvery  = 15000 * time.Millisecond
)

type pulseDuel struct {
	radius      float64
	angle       float64
	growing     bool
	lastReverse time.Duration
}

func (z *pulseDuel) setup(now time.Duration) {
	z.radius = zoneInitialRadius
	z.angle = 0
	z.growing = true
	z.lastReverse = now
}

func (z *pulseDuel) update(m *Mode, now, delta time.Duration) {
	ms := float64(delta) / float64(time.Millisecond)
	z.angle += zoneSpinRate * ms

	if now-z.lastReverse > zoneReverseEvery {
		z.growing = !z.growing
		z.lastReverse = now
		m.emit(Event{Kind: EventZoneReversed})
	}

	rate := zoneGrowthRate
	if !z.growing {
		rate = -rate
	}
	z.radius = domain.Clamp(z.radius+rate*ms, zoneMinRadius, zoneMaxRadius)
}

func (z *pulseDuel) contains(pos domain.Vec2) bool {
	return domain.Dist(pos, FieldCentre) <= z.radius
}

func (z *pulseDuel) processResonance(m *Mode, p *domain.Player, q domain.Quality) int {
	return m.arena.Ledger.ProcessResonance(p.ID, q, z.contains(p.Pos), p.FitnessAtLeastGate())
}
