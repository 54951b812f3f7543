package mode

import (
	"testing"
	"time"

	"echoes/internal/domain"
)

func newArena() Arena {
	clock := domain.NewBeatClock()
	clock.Start(0)
	return Arena{
		Clock:  clock,
		Ledger: domain.NewLedger(),
		Players: map[domain.PlayerID]*domain.Player{
			domain.P1: domain.NewPlayer(domain.P1, domain.StartPosition(domain.P1)),
			domain.P2: domain.NewPlayer(domain.P2, domain.StartPosition(domain.P2)),
		},
	}
}

func TestCheckEndFiresExactlyOnce(t *testing.T) {
	kinds := []domain.ModeKind{domain.ModePulseDuel, domain.ModeEchoChase, domain.ModeDissonance}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			arena := newArena()
			m := New(kind, arena)
			start := 5 * time.Second
			m.Setup(start)
			arena.Ledger.AddPoints(domain.P2, 4)

			if _, ok := m.CheckEnd(start + domain.RoundDuration - time.Millisecond); ok {
				t.Fatalf("round ended early")
			}
			res, ok := m.CheckEnd(start + domain.RoundDuration)
			if !ok {
				t.Fatalf("expected round to end at the duration")
			}
			if res.Mode != kind || res.Winner != domain.WinnerP2 || res.Scores.P2 < 4 {
				t.Fatalf("unexpected result %+v", res)
			}
			for i := 0; i < 3; i++ {
				if _, ok := m.CheckEnd(start + domain.RoundDuration + time.Duration(i)*time.Second); ok {
					t.Fatalf("CheckEnd fired again on call %d", i+2)
				}
			}
			if !m.Ended() {
				t.Fatalf("expected Ended after CheckEnd")
			}
			if m.Remaining(start+domain.RoundDuration+time.Second) != 0 {
				t.Fatalf("remaining should not go negative")
			}
		})
	}
}

func TestSetupZeroesRoundScore(t *testing.T) {
	arena := newArena()
	arena.Ledger.AddPoints(domain.P1, 10)
	m := New(domain.ModeDissonance, arena)
	m.Setup(0)
	if arena.Ledger.Scores() != (domain.ScorePair{}) {
		t.Fatalf("setup left scores %+v", arena.Ledger.Scores())
	}
}

func TestUnknownKindFallsBackToPulseDuel(t *testing.T) {
	m := New(domain.ModeKind("Bogus"), newArena())
	if m.Kind() != domain.ModePulseDuel {
		t.Fatalf("kind = %s, want PulseDuel", m.Kind())
	}
	if IntroFor("Bogus").Title != "PULSE DUEL" {
		t.Fatalf("unexpected intro %+v", IntroFor("Bogus"))
	}
	if m.Intro().Title != "PULSE DUEL" {
		t.Fatalf("unexpected intro %+v", m.Intro())
	}
}

func TestProcessResonanceIgnoresCooldown(t *testing.T) {
	arena := newArena()
	m := New(domain.ModeDissonance, arena)
	m.Setup(0)
	if got := m.ProcessResonance(arena.Players[domain.P1], domain.QualityCooldown, 0); got != 0 {
		t.Fatalf("cooldown scored %d", got)
	}
}
