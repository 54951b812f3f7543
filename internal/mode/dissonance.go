package mode

import (
	"time"

	"echoes/internal/domain"
)

const (
	dissonanceShiftAfter = 45000 * time.Millisecond
	dissonanceMissPoints = 2
)

type dissonance struct {
	shifted bool
	shiftAt time.Duration
}

func (d *dissonance) setup(now time.Duration) {
	d.shifted = false
	d.shiftAt = now + dissonanceShiftAfter
}

// advance latches the shift once its due time has passed.
func (d *dissonance) advance(m *Mode, now time.Duration) {
	if d.shifted || now < d.shiftAt {
		return
	}
	d.shifted = true
	m.arena.Clock.ToggleDissonance()
	m.emit(Event{Kind: EventDissonanceShift})
}

// processResonance applies the standard rule with no spatial gate until the
// shift; afterwards only a miss by a fit player scores.
func (d *dissonance) processResonance(m *Mode, p *domain.Player, q domain.Quality, now time.Duration) int {
	d.advance(m, now)
	if !d.shifted {
		return m.arena.Ledger.ProcessResonance(p.ID, q, true, p.FitnessAtLeastGate())
	}
	if q != domain.QualityMiss || !p.FitnessAtLeastGate() {
		return 0
	}
	m.arena.Ledger.AddPoints(p.ID, dissonanceMissPoints)
	return dissonanceMissPoints
}
