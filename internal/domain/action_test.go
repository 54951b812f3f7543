package domain

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func newStartedClock() *BeatClock {
	c := NewBeatClock()
	c.Start(0)
	return c
}

func TestResolveResonanceCooldown(t *testing.T) {
	clock := newStartedClock()
	p := NewPlayer(P1, StartPosition(P1))

	if got := ResolveResonance(p, clock, 0); got != QualityPerfect {
		t.Fatalf("first attempt = %s, want perfect", got)
	}

	fitness := p.Fitness()
	if got := ResolveResonance(p, clock, 150*time.Millisecond); got != QualityCooldown {
		t.Fatalf("attempt inside cooldown = %s, want cooldown", got)
	}
	if p.Fitness() != fitness {
		t.Fatalf("cooldown changed fitness: %f -> %f", fitness, p.Fitness())
	}
	if p.LastResonance() != 0 {
		t.Fatalf("cooldown moved the stamp to %v", p.LastResonance())
	}

	// 199ms after the accepted attempt is still inside the window even though
	// the rejected attempt happened in between.
	if got := ResolveResonance(p, clock, 199*time.Millisecond); got != QualityCooldown {
		t.Fatalf("attempt at 199ms = %s, want cooldown", got)
	}
	if got := ResolveResonance(p, clock, 200*time.Millisecond); got != QualityMiss {
		t.Fatalf("attempt at 200ms = %s, want miss", got)
	}
	if p.Fitness() != FitnessInitial-ResonanceMissPenalty {
		t.Fatalf("fitness after miss = %f, want %f", p.Fitness(), FitnessInitial-ResonanceMissPenalty)
	}
}

func TestResolveResonanceAnyPairInsideCooldown(t *testing.T) {
	clock := newStartedClock()
	for first := time.Duration(0); first < 3*BeatPeriod; first += 97 * time.Millisecond {
		for gap := time.Duration(0); gap < ResonanceCooldown; gap += 41 * time.Millisecond {
			p := NewPlayer(P2, StartPosition(P2))
			ResolveResonance(p, clock, first)
			before := p.Fitness()
			if got := ResolveResonance(p, clock, first+gap); got != QualityCooldown {
				t.Fatalf("second attempt %v after %v = %s, want cooldown", gap, first, got)
			}
			if p.Fitness() != before {
				t.Fatalf("cooldown changed fitness")
			}
		}
	}
}

func TestResolveResonanceMissClampsAtZero(t *testing.T) {
	clock := newStartedClock()
	p := NewPlayer(P1, StartPosition(P1))
	p.SetFitness(3)
	if got := ResolveResonance(p, clock, time.Second); got != QualityMiss {
		t.Fatalf("got %s, want miss", got)
	}
	if p.Fitness() != 0 {
		t.Fatalf("fitness = %f, want 0", p.Fitness())
	}
}

func TestResolveDashStationaryConsumesCooldown(t *testing.T) {
	clock := newStartedClock()
	p := NewPlayer(P1, StartPosition(P1))
	p.Vel = Vec2{X: 5, Y: -9}

	if q, ok := ResolveDash(p, clock, time.Second); ok || q != "" {
		t.Fatalf("stationary dash = (%q, %t), want refused", q, ok)
	}
	if p.LastDash() != time.Second {
		t.Fatalf("refused dash did not consume the cooldown: last dash %v", p.LastDash())
	}
	if p.Fitness() != FitnessInitial {
		t.Fatalf("refused dash changed fitness to %f", p.Fitness())
	}

	p.Vel = Vec2{X: 100}
	if _, ok := ResolveDash(p, clock, 1200*time.Millisecond); ok {
		t.Fatalf("dash inside the cooldown left by a refused dash should not fire")
	}
	if p.Vel != (Vec2{X: 100}) {
		t.Fatalf("rejected dash changed velocity to %+v", p.Vel)
	}

	q, ok := ResolveDash(p, clock, 1500*time.Millisecond)
	if !ok || q != QualityMiss {
		t.Fatalf("dash at 1500ms = (%q, %t), want (miss, true)", q, ok)
	}
	if math.Abs(p.Vel.X-DashForce) > 1e-9 || math.Abs(p.Vel.Y) > 1e-9 {
		t.Fatalf("velocity = %+v, want %f along +x", p.Vel, DashForce)
	}
	if p.Fitness() != FitnessInitial-DashMissPenalty {
		t.Fatalf("fitness = %f, want %f", p.Fitness(), FitnessInitial-DashMissPenalty)
	}
}

func TestResolveDashQuality(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Duration
		vel         Vec2
		fitness     float64
		wantQuality Quality
		wantFitness float64
	}{
		{name: "Perfect", now: 2 * BeatPeriod, vel: Vec2{X: 30, Y: 40}, fitness: 50, wantQuality: QualityPerfect, wantFitness: 70},
		{name: "PerfectClamped", now: 2 * BeatPeriod, vel: Vec2{X: -30}, fitness: 95, wantQuality: QualityPerfect, wantFitness: 100},
		{name: "Good", now: 2*BeatPeriod + 100*time.Millisecond, vel: Vec2{Y: -12}, fitness: 50, wantQuality: QualityGood, wantFitness: 55},
		{name: "Miss", now: 2*BeatPeriod + BeatPeriod/2, vel: Vec2{X: 12, Y: 0}, fitness: 4, wantQuality: QualityMiss, wantFitness: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newStartedClock()
			p := NewPlayer(P1, StartPosition(P1))
			p.SetFitness(tt.fitness)
			p.Vel = tt.vel
			heading := math.Atan2(tt.vel.Y, tt.vel.X)

			q, ok := ResolveDash(p, clock, tt.now)
			if !ok || q != tt.wantQuality {
				t.Fatalf("ResolveDash = (%q, %t), want (%q, true)", q, ok, tt.wantQuality)
			}
			if p.Fitness() != tt.wantFitness {
				t.Fatalf("fitness = %f, want %f", p.Fitness(), tt.wantFitness)
			}
			if math.Abs(p.Vel.Len()-DashForce) > 1e-9 {
				t.Fatalf("speed = %f, want %f", p.Vel.Len(), DashForce)
			}
			if got := math.Atan2(p.Vel.Y, p.Vel.X); math.Abs(got-heading) > 1e-9 {
				t.Fatalf("heading = %f, want %f", got, heading)
			}
		})
	}
}

func TestFitnessStaysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	clock := newStartedClock()
	p := NewPlayer(P1, StartPosition(P1))

	now := time.Duration(0)
	for i := 0; i < 5000; i++ {
		now += time.Duration(rng.Intn(120)+1) * time.Millisecond
		switch rng.Intn(4) {
		case 0:
			ResolveResonance(p, clock, now)
		case 1:
			p.Vel = Vec2{X: rng.Float64()*600 - 300, Y: rng.Float64()*600 - 300}
			ResolveDash(p, clock, now)
		default:
			p.RecordSpeed(rng.Float64()*300, time.Duration(rng.Intn(50))*time.Millisecond)
		}
		if f := p.Fitness(); f < FitnessMin || f > FitnessMax {
			t.Fatalf("step %d: fitness %f out of bounds", i, f)
		}
	}
}
