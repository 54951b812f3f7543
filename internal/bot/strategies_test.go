package bot

import (
	"math/rand"
	"testing"

	"echoes/internal/app"
	"echoes/internal/domain"
)

func baseView(mode domain.ModeKind, proximity float64) View {
	return View{
		Self:       app.PlayerSnapshot{ID: domain.P1, Pos: domain.StartPosition(domain.P1), Fitness: 50},
		Rival:      app.PlayerSnapshot{ID: domain.P2, Pos: domain.StartPosition(domain.P2), Fitness: 50},
		Mode:       mode,
		Proximity:  proximity,
		ZoneCentre: domain.Vec2{X: 400, Y: 300},
		ZoneRadius: 100,
	}
}

func TestGoodBotPressesOnlyOnBeat(t *testing.T) {
	b := &GoodBot{rng: rand.New(rand.NewSource(7))}

	presses := 0
	for i := 0; i < 200; i++ {
		if b.Decide(baseView(domain.ModePulseDuel, 0.5)).Resonance {
			t.Fatal("good bot pressed off-beat")
		}
		if b.Decide(baseView(domain.ModePulseDuel, 0.9)).Resonance {
			presses++
		}
	}
	if presses == 0 || presses == 200 {
		t.Fatalf("expected jittered presses on beat, got %d/200", presses)
	}
}

func TestSmartBotDecide(t *testing.T) {
	tests := []struct {
		name      string
		mode      domain.ModeKind
		dissonant bool
		proximity float64
		fitness   float64
		want      bool
	}{
		{name: "Perfect", mode: domain.ModePulseDuel, proximity: 0.97, fitness: 50, want: true},
		{name: "GoodOnly", mode: domain.ModePulseDuel, proximity: 0.9, fitness: 50},
		{name: "BeforeShift", mode: domain.ModeDissonance, proximity: 0.99, fitness: 50, want: true},
		{name: "AfterShiftPerfect", mode: domain.ModeDissonance, dissonant: true, proximity: 0.99, fitness: 90},
		{name: "AfterShiftOffBeat", mode: domain.ModeDissonance, dissonant: true, proximity: 0.2, fitness: 90, want: true},
		{name: "AfterShiftTooWeak", mode: domain.ModeDissonance, dissonant: true, proximity: 0.2, fitness: 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := baseView(tt.mode, tt.proximity)
			v.Dissonant = tt.dissonant
			v.Self.Fitness = tt.fitness
			in := (&SmartBot{}).Decide(v)
			if in.Resonance != tt.want {
				t.Fatalf("Resonance = %t, want %t", in.Resonance, tt.want)
			}
			if in.Dir != (domain.Vec2{}) || in.Dash {
				t.Fatalf("smart bot should stay still, got %+v", in)
			}
		})
	}
}

func TestGodBotSeeksZone(t *testing.T) {
	in := (&GodBot{}).Decide(baseView(domain.ModePulseDuel, 0.3))
	if in.Dir.X <= 0 || in.Dir.Y != 0 {
		t.Fatalf("expected to steer right toward the zone, got %+v", in.Dir)
	}

	v := baseView(domain.ModePulseDuel, 0.3)
	v.Self.Pos = v.ZoneCentre
	if in := (&GodBot{}).Decide(v); in.Dir != (domain.Vec2{}) {
		t.Fatalf("expected to hold at the centre, got %+v", in.Dir)
	}

	v = baseView(domain.ModePulseDuel, 0.3)
	v.Self.Pos = domain.Vec2{X: 380, Y: 300}
	v.Self.Vel = domain.Vec2{X: 280}
	if in := (&GodBot{}).Decide(v); in.Dir.X != 0 {
		t.Fatalf("expected to coast when braking distance covers the gap, got %+v", in.Dir)
	}
}

func TestGodBotChasesCarrier(t *testing.T) {
	v := baseView(domain.ModeEchoChase, 0.99)
	v.Carrier = domain.P2
	in := (&GodBot{}).Decide(v)
	if in.Dir.X <= 0 {
		t.Fatalf("expected to chase the carrier, got %+v", in.Dir)
	}
	if in.Resonance {
		t.Fatal("pressed while out of steal range")
	}

	v.Self.Pos = domain.Vec2{X: 500, Y: 300}
	if in := (&GodBot{}).Decide(v); !in.Resonance {
		t.Fatal("expected a steal attempt in range on a perfect beat")
	}

	v.Carrier = domain.P1
	if in := (&GodBot{}).Decide(v); in.Resonance || in.Dir != (domain.Vec2{}) {
		t.Fatalf("carrier should hold still, got %+v", in)
	}
}

func TestGodBotDashesWhileMoving(t *testing.T) {
	v := baseView(domain.ModePulseDuel, 0.99)
	v.Self.Vel = domain.Vec2{X: 100}
	if in := (&GodBot{}).Decide(v); !in.Dash {
		t.Fatalf("expected dash on a perfect beat while moving, got %+v", in)
	}

	v.Self.Vel = domain.Vec2{}
	if in := (&GodBot{}).Decide(v); in.Dash {
		t.Fatal("dash while stationary is always refused")
	}
}

func TestAgentPlay(t *testing.T) {
	var idle *Agent
	if in := idle.Play(baseView(domain.ModePulseDuel, 1)); in != (domain.Input{}) {
		t.Fatalf("nil agent should be idle, got %+v", in)
	}

	a := NewAgent(domain.P1, &SmartBot{}, BotLevelSmart)
	if a.Name != "p1 bot (smart)" {
		t.Fatalf("name = %q", a.Name)
	}
	if !a.Play(baseView(domain.ModePulseDuel, 0.99)).Resonance {
		t.Fatal("expected smart agent to press on a perfect beat")
	}
}
