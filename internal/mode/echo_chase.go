package mode

import (
	"time"

	"echoes/internal/domain"
)

const (
	autoScoreInterval = 2000 * time.Millisecond
	autoScorePoints   = 1
	stealRadius       = 80.0
	stealPoints       = 2
)

type echoChase struct {
	carrier       domain.PlayerID
	nextAutoScore time.Duration
}

func (c *echoChase) setup(m *Mode, now time.Duration) {
	c.carrier = ""
	c.assignCarrier(m)
	c.nextAutoScore = now + autoScoreInterval
}

// assignCarrier gives the pulse to the fitter player. A tie keeps the current
// carrier, and the very first tie goes to p1.
func (c *echoChase) assignCarrier(m *Mode) {
	p1, p2 := m.arena.Players[domain.P1], m.arena.Players[domain.P2]
	p1.IsCarrier, p2.IsCarrier = false, false

	switch {
	case p1.Fitness() > p2.Fitness():
		c.carrier = domain.P1
	case p2.Fitness() > p1.Fitness():
		c.carrier = domain.P2
	case c.carrier == "":
		c.carrier = domain.P1
	}
	m.arena.Players[c.carrier].IsCarrier = true
}

func (c *echoChase) update(m *Mode, now time.Duration) {
	prev := c.carrier
	c.assignCarrier(m)
	if c.carrier != prev {
		m.emit(Event{Kind: EventCarrierChanged, Player: c.carrier})
	}

	if now >= c.nextAutoScore {
		m.arena.Ledger.AddPoints(c.carrier, autoScorePoints)
		m.emit(Event{Kind: EventAutoScore, Player: c.carrier, Points: autoScorePoints})
		c.nextAutoScore = now + autoScoreInterval
	}
}

// processResonance only rewards a perfect hit close to the carrier, which
// steals the pulse. Points go straight to the ledger.
func (c *echoChase) processResonance(m *Mode, p *domain.Player, q domain.Quality) int {
	if q != domain.QualityPerfect || p.ID == c.carrier {
		return 0
	}
	carrier := m.arena.Players[c.carrier]
	if domain.Dist(p.Pos, carrier.Pos) >= stealRadius {
		return 0
	}

	carrier.IsCarrier = false
	c.carrier = p.ID
	p.IsCarrier = true
	m.arena.Ledger.AddPoints(p.ID, stealPoints)
	m.emit(Event{Kind: EventPulseStolen, Player: p.ID, Points: stealPoints})
	return stealPoints
}

func (c *echoChase) cleanup(m *Mode) {
	for _, p := range m.arena.Players {
		p.IsCarrier = false
	}
}
