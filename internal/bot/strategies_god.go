package bot

import "echoes/internal/domain"

// dashMinDistance keeps a dash from overshooting a target that is already
// close.
const dashMinDistance = 120.0

// GodBot plays like SmartBot but also positions itself: the zone centre in
// PulseDuel and the carrier in EchoChase. It dashes on perfect beats while
// closing a long gap for the fitness bonus.
type GodBot struct {
	SmartBot
}

func (b *GodBot) Decide(v View) domain.Input {
	in := b.SmartBot.Decide(v)

	var target domain.Vec2
	switch v.Mode {
	case domain.ModePulseDuel:
		target = v.ZoneCentre
	case domain.ModeEchoChase:
		if v.Carrier == v.Self.ID {
			in.Resonance = false
			return in
		}
		target = v.Rival.Pos
		in.Resonance = inPerfectWindow(v) && domain.Dist(v.Self.Pos, target) < chaseRange
	default:
		return in
	}

	in.Dir = steerTo(v.Self.Pos, v.Self.Vel, target)
	moving := v.Self.Vel.Len() > 2*domain.DashVelocityThreshold
	in.Dash = moving && inPerfectWindow(v) && domain.Dist(v.Self.Pos, target) > dashMinDistance
	return in
}
