package bot

import (
	"time"

	"echoes/internal/app"
	"echoes/internal/domain"
)

// View is what a bot sees before deciding a step. Proximity is the beat
// proximity at the time the input will be applied.
type View struct {
	Self      app.PlayerSnapshot
	Rival     app.PlayerSnapshot
	Mode      domain.ModeKind
	Now       time.Duration
	Proximity float64

	ZoneCentre domain.Vec2
	ZoneRadius float64
	Carrier    domain.PlayerID
	Dissonant  bool
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	Decide(v View) domain.Input
}

// ViewFor builds the view of self from a session snapshot.
func ViewFor(snap app.Snapshot, self domain.PlayerID, now time.Duration, proximity float64) View {
	v := View{
		Mode:       snap.Mode,
		Now:        now,
		Proximity:  proximity,
		ZoneCentre: snap.ZoneCentre,
		ZoneRadius: snap.ZoneRadius,
		Carrier:    snap.Carrier,
		Dissonant:  snap.Dissonant,
	}
	for _, p := range snap.Players {
		if p.ID == self {
			v.Self = p
		} else {
			v.Rival = p
		}
	}
	return v
}
