package app

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"echoes/internal/domain"
)

// Stats is the session summary document. It is kept as raw JSON so hosts can
// forward it without another encoding pass.
type Stats struct {
	doc []byte
}

func NewStats() *Stats {
	return &Stats{doc: []byte(`{}`)}
}

// RecordOutcome tallies one judged action under players.<id>.<action>.
func (s *Stats) RecordOutcome(o OutcomePayload) error {
	base := fmt.Sprintf("players.%s.%s", o.Player, o.Action)
	if o.Action == ActionDash {
		key := "refused"
		if o.Accepted {
			key = "fired"
		}
		if err := s.incr(base+"."+key, 1); err != nil {
			return err
		}
		if !o.Accepted {
			return nil
		}
	}
	if err := s.incr(base+"."+string(o.Quality), 1); err != nil {
		return err
	}
	return s.incr(fmt.Sprintf("players.%s.points", o.Player), int64(o.Points))
}

// RecordPoints adds mode-awarded points that did not come from an action.
func (s *Stats) RecordPoints(id domain.PlayerID, n int) error {
	if n <= 0 {
		return nil
	}
	return s.incr(fmt.Sprintf("players.%s.bonus", id), int64(n))
}

// RecordRound appends a round result and refreshes the totals.
func (s *Stats) RecordRound(r domain.ModeResult, totals domain.ScorePair) error {
	doc, err := sjson.SetBytes(s.doc, "rounds.-1", map[string]any{
		"mode":   r.Mode,
		"winner": r.Winner,
		"scores": map[string]int{"p1": r.Scores.P1, "p2": r.Scores.P2},
	})
	if err != nil {
		return fmt.Errorf("stats: record round: %w", err)
	}
	s.doc = doc
	return s.SetTotals(totals, totals.Winner())
}

// SetTotals writes the running totals and the current leader.
func (s *Stats) SetTotals(totals domain.ScorePair, winner domain.Winner) error {
	doc, err := sjson.SetBytes(s.doc, "totals", map[string]int{"p1": totals.P1, "p2": totals.P2})
	if err != nil {
		return fmt.Errorf("stats: set totals: %w", err)
	}
	if doc, err = sjson.SetBytes(doc, "winner", winner); err != nil {
		return fmt.Errorf("stats: set winner: %w", err)
	}
	s.doc = doc
	return nil
}

// Count reads an integer at a gjson path, zero when absent.
func (s *Stats) Count(path string) int64 {
	return gjson.GetBytes(s.doc, path).Int()
}

// Rounds returns how many rounds have been recorded.
func (s *Stats) Rounds() int {
	return int(gjson.GetBytes(s.doc, "rounds.#").Int())
}

// JSON returns a copy of the document.
func (s *Stats) JSON() string {
	return string(s.doc)
}

func (s *Stats) incr(path string, n int64) error {
	doc, err := sjson.SetBytes(s.doc, path, gjson.GetBytes(s.doc, path).Int()+n)
	if err != nil {
		return fmt.Errorf("stats: %s: %w", path, err)
	}
	s.doc = doc
	return nil
}
