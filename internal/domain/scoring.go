package domain

// Ledger tracks the round score pair.
type Ledger struct {
	scores ScorePair
}

// NewLedger returns a zeroed ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Reset zeroes both scores.
func (l *Ledger) Reset() { l.scores = ScorePair{} }

// Scores returns a copy of the current scores.
func (l *Ledger) Scores() ScorePair { return l.scores }

// Winner compares the current scores.
func (l *Ledger) Winner() Winner { return l.scores.Winner() }

// ProcessResonance applies the standard scoring rule. Nothing is awarded
// unless the player is in the zone and meets the fitness gate.
func (l *Ledger) ProcessResonance(id PlayerID, q Quality, inZone, fitnessAtLeastGate bool) int {
	if !inZone || !fitnessAtLeastGate {
		return 0
	}
	var points int
	switch q {
	case QualityPerfect:
		points = PointsPerfect
	case QualityGood:
		points = PointsGood
	}
	l.AddPoints(id, points)
	return points
}

// ProcessKnockback awards the attacker a point for an on-beat hit.
func (l *Ledger) ProcessKnockback(attacker PlayerID, onBeat bool) int {
	if !onBeat {
		return 0
	}
	l.AddPoints(attacker, PointsKnockback)
	return PointsKnockback
}

// AddPoints adds n to id's score. Non-positive amounts are ignored so scores
// never decrease.
func (l *Ledger) AddPoints(id PlayerID, n int) {
	if n <= 0 {
		return
	}
	switch id {
	case P1:
		l.scores.P1 += n
	case P2:
		l.scores.P2 += n
	}
}
