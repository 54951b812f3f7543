package app

import (
	"errors"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"echoes/internal/domain"
	"echoes/internal/log"
	"echoes/internal/mode"
)

var (
	ErrNoSession         = errors.New("session not started")
	ErrRoundActive       = errors.New("a round is still running")
	ErrNoRound           = errors.New("no round has been played")
	ErrRoundInProgress   = errors.New("round has not ended yet")
	ErrSessionComplete   = errors.New("session is complete")
	ErrSessionIncomplete = errors.New("session has rounds left")
)

// Phase is the coarse lifecycle position of a session.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRound    Phase = "round"
	PhaseBetween  Phase = "between"
	PhaseComplete Phase = "complete"
)

// Session owns every piece of mutable game state: the sequencer, the round
// ledger, the players and the running mode. Nothing is shared between
// sessions.
type Session struct {
	logger runtime.Logger
	seq    *domain.RoundSequencer
	ledger *domain.Ledger
	stats  *Stats

	clock   *domain.BeatClock
	players map[domain.PlayerID]*domain.Player
	mode    *mode.Mode
	round   int
	last    domain.ModeResult

	started  bool
	complete bool
	now      time.Duration
	lastCue  time.Duration
	cued     bool
}

// NewSession returns an idle session. A nil logger discards output.
func NewSession(logger runtime.Logger) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	return &Session{
		logger: logger,
		seq:    domain.NewRoundSequencer(),
		ledger: domain.NewLedger(),
		stats:  NewStats(),
	}
}

// StartSession resets totals and rewinds the round order. It may be called at
// any time to abandon the current session.
func (s *Session) StartSession() []Event {
	s.seq.Reset()
	s.ledger.Reset()
	s.stats = NewStats()
	s.clock = nil
	s.players = nil
	s.mode = nil
	s.round = 0
	s.last = domain.ModeResult{}
	s.started = true
	s.complete = false

	s.logger.Info("Session: started")
	return []Event{{
		Kind:    EventSessionStarted,
		Payload: SessionStartedPayload{Rounds: append([]domain.ModeKind(nil), domain.DefaultModeOrder[:]...)},
	}}
}

// NextRound starts the next mode in the fixed order at now.
func (s *Session) NextRound(now time.Duration) ([]Event, error) {
	if err := s.canStartRound(); err != nil {
		return nil, err
	}
	kind, ok := s.seq.NextMode()
	if !ok {
		return nil, ErrSessionComplete
	}
	return s.beginRound(kind, now), nil
}

// StartRound plays a single round of kind outside the fixed order. Its
// result still counts toward the totals. Unknown kinds play as PulseDuel.
func (s *Session) StartRound(kind domain.ModeKind, now time.Duration) ([]Event, error) {
	if err := s.canStartRound(); err != nil {
		return nil, err
	}
	return s.beginRound(kind, now), nil
}

func (s *Session) canStartRound() error {
	switch {
	case !s.started:
		return ErrNoSession
	case s.complete:
		return ErrSessionComplete
	case s.mode != nil && !s.mode.Ended():
		return ErrRoundActive
	}
	return nil
}

// beginRound builds fresh round state. Players and the beat clock do not
// carry over between rounds.
func (s *Session) beginRound(kind domain.ModeKind, now time.Duration) []Event {
	s.clock = domain.NewBeatClock()
	s.clock.Start(now)
	s.players = make(map[domain.PlayerID]*domain.Player, len(domain.PlayerIDs))
	for _, id := range domain.PlayerIDs {
		s.players[id] = domain.NewPlayer(id, domain.StartPosition(id))
	}
	s.mode = mode.New(kind, mode.Arena{Clock: s.clock, Ledger: s.ledger, Players: s.players})
	s.mode.Setup(now)
	s.round++
	s.now = now
	s.cued = false

	s.logger.WithFields(map[string]interface{}{
		"round": s.round,
		"mode":  s.mode.Kind(),
	}).Info("Session: round started")

	events := []Event{{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			Round: s.round,
			Mode:  s.mode.Kind(),
			Intro: s.mode.Intro(),
		},
	}}
	return append(events, s.modeEvents()...)
}

// Step advances the running round to now. delta is the time since the last
// step. Inputs for absent players count as idle. Without a running round Step
// does nothing.
func (s *Session) Step(now, delta time.Duration, inputs map[domain.PlayerID]domain.Input) []Event {
	if s.mode == nil || s.mode.Ended() {
		return nil
	}
	s.now = now

	for _, id := range domain.PlayerIDs {
		s.players[id].Steer(inputs[id].Dir)
	}

	var events []Event
	for _, id := range domain.PlayerIDs {
		in := inputs[id]
		if in.Resonance {
			events = append(events, s.resonate(s.players[id], now))
		}
		if in.Dash {
			events = append(events, s.dash(s.players[id], now))
		}
	}

	for _, id := range domain.PlayerIDs {
		p := s.players[id]
		p.RecordSpeed(p.Integrate(delta), delta)
	}

	s.mode.Update(now, delta)
	events = append(events, s.modeEvents()...)

	if s.clock.IsPerfectBeat(now) && (!s.cued || now-s.lastCue > domain.BeatCueSpacing) {
		s.cued = true
		s.lastCue = now
		events = append(events, Event{Kind: EventBeat, Payload: BeatPayload{Index: s.clock.BeatIndex(now)}})
	}

	if res, ok := s.mode.CheckEnd(now); ok {
		events = append(events, s.finishRound(res)...)
	}
	return events
}

func (s *Session) resonate(p *domain.Player, now time.Duration) Event {
	q := domain.ResolveResonance(p, s.clock, now)
	out := OutcomePayload{
		Player:   p.ID,
		Action:   ActionResonance,
		Quality:  q,
		Points:   s.mode.ProcessResonance(p, q, now),
		Accepted: q != domain.QualityCooldown,
	}
	s.record(out)
	return Event{Kind: EventOutcome, Payload: out}
}

func (s *Session) dash(p *domain.Player, now time.Duration) Event {
	q, fired := domain.ResolveDash(p, s.clock, now)
	out := OutcomePayload{Player: p.ID, Action: ActionDash, Quality: q, Accepted: fired}
	s.record(out)
	return Event{Kind: EventOutcome, Payload: out}
}

func (s *Session) record(o OutcomePayload) {
	if err := s.stats.RecordOutcome(o); err != nil {
		s.logger.Warn("Session: stats update failed: %v", err)
	}
}

func (s *Session) modeEvents() []Event {
	raw := s.mode.Events()
	if len(raw) == 0 {
		return nil
	}
	events := make([]Event, 0, len(raw))
	for _, ev := range raw {
		if ev.Kind == mode.EventAutoScore {
			if err := s.stats.RecordPoints(ev.Player, ev.Points); err != nil {
				s.logger.Warn("Session: stats update failed: %v", err)
			}
		}
		events = append(events, Event{
			Kind:    EventKind(ev.Kind),
			Payload: ModeEventPayload{Player: ev.Player, Points: ev.Points},
		})
	}
	return events
}

func (s *Session) finishRound(res domain.ModeResult) []Event {
	s.seq.RecordRoundResult(res)
	s.mode.Cleanup()
	s.last = res

	totals := s.seq.Totals()
	if err := s.stats.RecordRound(res, totals); err != nil {
		s.logger.Warn("Session: stats update failed: %v", err)
	}
	s.logger.WithFields(map[string]interface{}{
		"round":  s.round,
		"mode":   res.Mode,
		"winner": res.Winner,
	}).Info("Session: round ended %d-%d", res.Scores.P1, res.Scores.P2)

	events := []Event{{
		Kind:    EventRoundEnded,
		Payload: RoundEndedPayload{Result: res, Totals: totals},
	}}
	if s.seq.Remaining() > 0 {
		return events
	}

	s.complete = true
	final := s.seq.Final()
	s.logger.Info("Session: complete, winner %s (%d-%d)", final.Winner, final.Totals.P1, final.Totals.P2)
	return append(events, Event{
		Kind:    EventSessionEnded,
		Payload: SessionEndedPayload{Result: final, Summary: s.stats.JSON()},
	})
}

// EndRound returns the result of the most recent round once it has ended.
func (s *Session) EndRound() (domain.ModeResult, error) {
	switch {
	case !s.started:
		return domain.ModeResult{}, ErrNoSession
	case s.mode == nil:
		return domain.ModeResult{}, ErrNoRound
	case !s.mode.Ended():
		return domain.ModeResult{}, ErrRoundInProgress
	}
	return s.last, nil
}

// IsSessionComplete reports whether the last round of the fixed order ended.
func (s *Session) IsSessionComplete() bool { return s.complete }

// FinalResult returns the aggregate result of a complete session.
func (s *Session) FinalResult() (domain.FinalResult, error) {
	if !s.started {
		return domain.FinalResult{}, ErrNoSession
	}
	if !s.complete {
		return domain.FinalResult{}, ErrSessionIncomplete
	}
	return s.seq.Final(), nil
}

// Phase returns the lifecycle position.
func (s *Session) Phase() Phase {
	switch {
	case !s.started:
		return PhaseIdle
	case s.complete:
		return PhaseComplete
	case s.mode != nil && !s.mode.Ended():
		return PhaseRound
	default:
		return PhaseBetween
	}
}

// RoundsLeft returns how many rounds of the fixed order have not started.
func (s *Session) RoundsLeft() int { return s.seq.Remaining() }

// BeatProximity returns the beat proximity at now, or 0 outside a round.
func (s *Session) BeatProximity(now time.Duration) float64 {
	if s.clock == nil {
		return 0
	}
	return s.clock.Proximity(now)
}

// Summary returns the JSON session summary.
func (s *Session) Summary() string { return s.stats.JSON() }

// Stats exposes the summary document for reads.
func (s *Session) Stats() *Stats { return s.stats }

// PlayerSnapshot is a read-only copy of one player's state.
type PlayerSnapshot struct {
	ID        domain.PlayerID
	Pos       domain.Vec2
	Vel       domain.Vec2
	Fitness   float64
	IsCarrier bool
}

// Snapshot is a read-only view of the session at the last step.
type Snapshot struct {
	Phase     Phase
	Round     int
	Mode      domain.ModeKind
	Now       time.Duration
	Remaining time.Duration
	Scores    domain.ScorePair
	Totals    domain.ScorePair
	Players   []PlayerSnapshot

	ZoneCentre domain.Vec2
	ZoneRadius float64
	ZoneAngle  float64
	Carrier    domain.PlayerID
	Dissonant  bool
	Proximity  float64
}

// Snapshot copies the observable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:  s.Phase(),
		Round:  s.round,
		Now:    s.now,
		Scores: s.ledger.Scores(),
		Totals: s.seq.Totals(),
	}
	if s.mode == nil {
		return snap
	}

	snap.Mode = s.mode.Kind()
	snap.Remaining = s.mode.Remaining(s.now)
	snap.ZoneCentre, snap.ZoneRadius, snap.ZoneAngle = s.mode.Zone()
	snap.Carrier = s.mode.Carrier()
	snap.Dissonant = s.clock.Dissonant()
	snap.Proximity = s.clock.Proximity(s.now)
	for _, id := range domain.PlayerIDs {
		p := s.players[id]
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:        p.ID,
			Pos:       p.Pos,
			Vel:       p.Vel,
			Fitness:   p.Fitness(),
			IsCarrier: p.IsCarrier,
		})
	}
	return snap
}
