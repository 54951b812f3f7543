package nakama

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"echoes/internal/app"
	"echoes/internal/domain"
)

// eventToStruct maps a session event onto its op code and wire payload.
func eventToStruct(ev app.Event) (int64, *structpb.Struct, error) {
	fields := map[string]interface{}{"kind": string(ev.Kind)}
	var opCode int64

	switch p := ev.Payload.(type) {
	case app.SessionStartedPayload:
		opCode = OpSessionStarted
		rounds := make([]interface{}, 0, len(p.Rounds))
		for _, m := range p.Rounds {
			rounds = append(rounds, string(m))
		}
		fields["rounds"] = rounds
	case app.RoundStartedPayload:
		opCode = OpRoundStarted
		fields["round"] = p.Round
		fields["mode"] = string(p.Mode)
		fields["title"] = p.Intro.Title
		fields["line1"] = p.Intro.Line1
		fields["line2"] = p.Intro.Line2
	case app.OutcomePayload:
		opCode = OpOutcome
		fields["player"] = string(p.Player)
		fields["action"] = string(p.Action)
		fields["quality"] = string(p.Quality)
		fields["points"] = p.Points
		fields["accepted"] = p.Accepted
	case app.BeatPayload:
		opCode = OpBeat
		fields["index"] = p.Index
	case app.ModeEventPayload:
		opCode = OpModeEvent
		fields["player"] = string(p.Player)
		fields["points"] = p.Points
	case app.RoundEndedPayload:
		opCode = OpRoundEnded
		fields["result"] = resultFields(p.Result)
		fields["totals"] = scoreFields(p.Totals)
	case app.SessionEndedPayload:
		opCode = OpSessionEnded
		rounds := make([]interface{}, 0, len(p.Result.Rounds))
		for _, r := range p.Result.Rounds {
			rounds = append(rounds, resultFields(r))
		}
		fields["winner"] = string(p.Result.Winner)
		fields["totals"] = scoreFields(p.Result.Totals)
		fields["rounds"] = rounds
		fields["summary"] = p.Summary
	default:
		return 0, nil, fmt.Errorf("unknown event payload %T for %s", ev.Payload, ev.Kind)
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return 0, nil, fmt.Errorf("convert %s: %w", ev.Kind, err)
	}
	return opCode, s, nil
}

func resultFields(r domain.ModeResult) map[string]interface{} {
	return map[string]interface{}{
		"mode":   string(r.Mode),
		"winner": string(r.Winner),
		"scores": scoreFields(r.Scores),
	}
}

func scoreFields(s domain.ScorePair) map[string]interface{} {
	return map[string]interface{}{"p1": s.P1, "p2": s.P2}
}

func vecFields(v domain.Vec2) map[string]interface{} {
	return map[string]interface{}{"x": v.X, "y": v.Y}
}

// snapshotToStruct renders the observable session state.
func snapshotToStruct(snap app.Snapshot) (*structpb.Struct, error) {
	players := make([]interface{}, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, map[string]interface{}{
			"id":         string(p.ID),
			"pos":        vecFields(p.Pos),
			"vel":        vecFields(p.Vel),
			"fitness":    p.Fitness,
			"is_carrier": p.IsCarrier,
		})
	}
	return structpb.NewStruct(map[string]interface{}{
		"phase":        string(snap.Phase),
		"round":        snap.Round,
		"mode":         string(snap.Mode),
		"remaining_ms": snap.Remaining.Milliseconds(),
		"scores":       scoreFields(snap.Scores),
		"totals":       scoreFields(snap.Totals),
		"players":      players,
		"zone": map[string]interface{}{
			"centre": vecFields(snap.ZoneCentre),
			"radius": snap.ZoneRadius,
			"angle":  snap.ZoneAngle,
		},
		"carrier":   string(snap.Carrier),
		"dissonant": snap.Dissonant,
		"proximity": snap.Proximity,
	})
}

// inputsFromStruct decodes an OpInput payload. Unknown player keys are
// rejected.
func inputsFromStruct(s *structpb.Struct) (map[domain.PlayerID]domain.Input, error) {
	out := make(map[domain.PlayerID]domain.Input, len(s.GetFields()))
	for key, v := range s.GetFields() {
		id, err := domain.ParsePlayerID(key)
		if err != nil {
			return nil, err
		}
		f := v.GetStructValue().GetFields()
		out[id] = domain.Input{
			Dir:       domain.NormaliseDir(f["x"].GetNumberValue(), f["y"].GetNumberValue()),
			Resonance: f["resonance"].GetBoolValue(),
			Dash:      f["dash"].GetBoolValue(),
		}
	}
	return out, nil
}

// errorStruct builds an OpError payload.
func errorStruct(code int, message string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

// labelJSON renders the match label.
func labelJSON(phase app.Phase, open bool) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_Game:  matchLabelGame,
		MatchLabelKey_Phase: string(phase),
		MatchLabelKey_Open:  open,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}
