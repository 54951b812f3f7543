package domain

// DefaultModeOrder is the fixed round order of a session.
var DefaultModeOrder = [3]ModeKind{ModePulseDuel, ModeEchoChase, ModeDissonance}

// RoundSequencer walks the fixed mode list and accumulates the global score.
type RoundSequencer struct {
	modes   [3]ModeKind
	cursor  int
	totals  ScorePair
	results []ModeResult
}

// NewRoundSequencer returns a sequencer over DefaultModeOrder.
func NewRoundSequencer() *RoundSequencer {
	return &RoundSequencer{modes: DefaultModeOrder}
}

// NextMode returns the mode at the cursor and advances. ok is false once the
// list is exhausted.
func (s *RoundSequencer) NextMode() (kind ModeKind, ok bool) {
	if s.cursor >= len(s.modes) {
		return "", false
	}
	kind = s.modes[s.cursor]
	s.cursor++
	return kind, true
}

// Remaining returns how many modes NextMode will still hand out.
func (s *RoundSequencer) Remaining() int { return len(s.modes) - s.cursor }

// RecordRoundResult archives a round and adds its scores to the total.
func (s *RoundSequencer) RecordRoundResult(r ModeResult) {
	s.totals = s.totals.Plus(r.Scores)
	s.results = append(s.results, r)
}

// Totals returns the running global score.
func (s *RoundSequencer) Totals() ScorePair { return s.totals }

// FinalWinner compares the global totals.
func (s *RoundSequencer) FinalWinner() Winner { return s.totals.Winner() }

// Final builds the aggregate result from everything recorded so far.
func (s *RoundSequencer) Final() FinalResult {
	rounds := make([]ModeResult, len(s.results))
	copy(rounds, s.results)
	return FinalResult{Winner: s.FinalWinner(), Totals: s.totals, Rounds: rounds}
}

// Reset rewinds the cursor and zeroes the totals for a new session.
func (s *RoundSequencer) Reset() {
	s.cursor = 0
	s.totals = ScorePair{}
	s.results = nil
}
