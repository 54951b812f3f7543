// Package mode implements the round rule variants. A Mode is a tagged
// variant: it carries its kind and one state block per kind, and every
// operation dispatches on the kind.
package mode

import (
	"time"

	"echoes/internal/domain"
)

// Arena is the shared round state a mode reads and mutates.
type Arena struct {
	Clock   *domain.BeatClock
	Ledger  *domain.Ledger
	Players map[domain.PlayerID]*domain.Player
}

// EventKind identifies a mode-local occurrence worth presenting.
type EventKind string

const (
	EventAutoScore       EventKind = "auto_score"
	EventCarrierChanged  EventKind = "carrier_changed"
	EventPulseStolen     EventKind = "pulse_stolen"
	EventDissonanceShift EventKind = "dissonance_shift"
	EventZoneReversed    EventKind = "zone_reversed"
)

// Event is emitted by Update or ProcessResonance and drained with Events.
type Event struct {
	Kind   EventKind
	Player domain.PlayerID
	Points int
}

// Intro is the title card shown before a round.
type Intro struct {
	Title string
	Line1 string
	Line2 string
}

// Mode is one round of a given rule variant.
type Mode struct {
	kind      domain.ModeKind
	arena     Arena
	startedAt time.Duration
	ended     bool
	events    []Event

	pulse      pulseDuel
	chase      echoChase
	dissonance dissonance
}

// New builds a mode of the given kind over arena. Unknown kinds become
// PulseDuel.
func New(kind domain.ModeKind, arena Arena) *Mode {
	return &Mode{kind: domain.ParseModeKind(string(kind)), arena: arena}
}

// Kind returns the rule variant.
func (m *Mode) Kind() domain.ModeKind { return m.kind }

// Setup captures the round start and zeroes the round score.
func (m *Mode) Setup(now time.Duration) {
	m.startedAt = now
	m.ended = false
	m.events = nil
	m.arena.Ledger.Reset()

	switch m.kind {
	case domain.ModePulseDuel:
		m.pulse.setup(now)
	case domain.ModeEchoChase:
		m.chase.setup(m, now)
	case domain.ModeDissonance:
		m.dissonance.setup(now)
	}
}

// Update advances the mode-local rules. Auxiliary points may be awarded here.
func (m *Mode) Update(now, delta time.Duration) {
	if m.ended {
		return
	}
	switch m.kind {
	case domain.ModePulseDuel:
		m.pulse.update(m, now, delta)
	case domain.ModeEchoChase:
		m.chase.update(m, now)
	case domain.ModeDissonance:
		m.dissonance.advance(m, now)
	}
}

// ProcessResonance scores a resonance attempt classified at now under this
// mode's rules and returns the points awarded. Transitions due by now are
// applied first.
func (m *Mode) ProcessResonance(p *domain.Player, q domain.Quality, now time.Duration) int {
	if m.ended || q == domain.QualityCooldown {
		return 0
	}
	switch m.kind {
	case domain.ModeEchoChase:
		return m.chase.processResonance(m, p, q)
	case domain.ModeDissonance:
		return m.dissonance.processResonance(m, p, q, now)
	default:
		return m.pulse.processResonance(m, p, q)
	}
}

// CheckEnd returns the round result exactly once, on the first call at or
// after the round duration.
func (m *Mode) CheckEnd(now time.Duration) (domain.ModeResult, bool) {
	if m.ended || m.Elapsed(now) < domain.RoundDuration {
		return domain.ModeResult{}, false
	}
	m.ended = true
	return domain.ModeResult{
		Mode:   m.kind,
		Winner: m.arena.Ledger.Winner(),
		Scores: m.arena.Ledger.Scores(),
	}, true
}

// Ended reports whether CheckEnd has fired.
func (m *Mode) Ended() bool { return m.ended }

// Cleanup clears mode-local per-player flags.
func (m *Mode) Cleanup() {
	if m.kind == domain.ModeEchoChase {
		m.chase.cleanup(m)
	}
}

// Elapsed returns the time since Setup.
func (m *Mode) Elapsed(now time.Duration) time.Duration { return now - m.startedAt }

// Remaining returns the time left in the round, never negative.
func (m *Mode) Remaining(now time.Duration) time.Duration {
	return max(0, domain.RoundDuration-m.Elapsed(now))
}

// Events drains the events emitted since the last call.
func (m *Mode) Events() []Event {
	out := m.events
	m.events = nil
	return out
}

func (m *Mode) emit(ev Event) {
	m.events = append(m.events, ev)
}

// Intro returns the title card for the mode.
func (m *Mode) Intro() Intro { return IntroFor(m.kind) }

// IntroFor returns the title card for kind; unknown kinds get PulseDuel's.
func IntroFor(kind domain.ModeKind) Intro {
	switch kind {
	case domain.ModeEchoChase:
		return Intro{
			Title: "ECHO CHASE",
			Line1: "Whoever has the highest pulse gains points each second.",
			Line2: "Steal the pulse from your rival by hitting them on beat.",
		}
	case domain.ModeDissonance:
		return Intro{
			Title: "DISSONANCE",
			Line1: "The field has two states. The rules change.",
			Line2: "Learn to read the field before your rival.",
		}
	default:
		return Intro{
			Title: "PULSE DUEL",
			Line1: "Resonate with the field at the exact moment to score.",
			Line2: "Disrupt your rival's rhythm. Don't lose yours.",
		}
	}
}

// Zone returns the PulseDuel scoring zone as (centre, radius, angle). Other
// modes report a zero radius.
func (m *Mode) Zone() (domain.Vec2, float64, float64) {
	if m.kind != domain.ModePulseDuel {
		return FieldCentre, 0, 0
	}
	return FieldCentre, m.pulse.radius, m.pulse.angle
}

// Carrier returns the current EchoChase carrier, or "" in other modes.
func (m *Mode) Carrier() domain.PlayerID {
	if m.kind != domain.ModeEchoChase {
		return ""
	}
	return m.chase.carrier
}

// Shifted reports whether the Dissonance transition has happened.
func (m *Mode) Shifted() bool {
	return m.kind == domain.ModeDissonance && m.dissonance.shifted
}
