package app

import (
	"echoes/internal/domain"
	"echoes/internal/mode"
)

// EventKind identifies emitted session events for host dispatch.
type EventKind string

const (
	EventSessionStarted  EventKind = "session_started"
	EventRoundStarted    EventKind = "round_started"
	EventOutcome         EventKind = "outcome"
	EventBeat            EventKind = "beat"
	EventAutoScore       EventKind = EventKind(mode.EventAutoScore)
	EventCarrierChanged  EventKind = EventKind(mode.EventCarrierChanged)
	EventPulseStolen     EventKind = EventKind(mode.EventPulseStolen)
	EventDissonanceShift EventKind = EventKind(mode.EventDissonanceShift)
	EventZoneReversed    EventKind = EventKind(mode.EventZoneReversed)
	EventRoundEnded      EventKind = "round_ended"
	EventSessionEnded    EventKind = "session_ended"
)

// Event is a session event with a kind-specific payload.
type Event struct {
	Kind    EventKind
	Payload any
}

// Action names the player action an outcome refers to.
type Action string

const (
	ActionResonance Action = "resonance"
	ActionDash      Action = "dash"
)

type SessionStartedPayload struct {
	Rounds []domain.ModeKind
}

type RoundStartedPayload struct {
	Round int // 1-based
	Mode  domain.ModeKind
	Intro mode.Intro
}

// OutcomePayload reports a judged action. Accepted is false for a dash that
// did not fire; Quality is empty in that case.
type OutcomePayload struct {
	Player   domain.PlayerID
	Action   Action
	Quality  domain.Quality
	Points   int
	Accepted bool
}

type BeatPayload struct {
	Index int64
}

// ModeEventPayload carries the mode-local events (auto score, carrier
// change, steal, dissonance shift, zone reversal).
type ModeEventPayload struct {
	Player domain.PlayerID
	Points int
}

type RoundEndedPayload struct {
	Result domain.ModeResult
	Totals domain.ScorePair
}

type SessionEndedPayload struct {
	Result  domain.FinalResult
	Summary string
}
