package domain

import "math"

// PlayerID identifies one of the two local players.
type PlayerID string

const (
	P1 PlayerID = "p1"
	P2 PlayerID = "p2"
)

// PlayerIDs lists both players in seat order.
var PlayerIDs = [2]PlayerID{P1, P2}

// Other returns the opposing player.
func (id PlayerID) Other() PlayerID {
	if id == P1 {
		return P2
	}
	return P1
}

// Winner is the outcome of comparing two scores.
type Winner string

const (
	WinnerP1  Winner = "p1"
	WinnerP2  Winner = "p2"
	WinnerTie Winner = "tie"
)

// ModeKind identifies a round rule variant.
type ModeKind string

const (
	ModePulseDuel  ModeKind = "PulseDuel"
	ModeEchoChase  ModeKind = "EchoChase"
	ModeDissonance ModeKind = "Dissonance"
)

// Vec2 is a 2D vector in field units.
type Vec2 struct {
	X, Y float64
}

// Len returns the magnitude of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Dist returns the distance between two points.
func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

// ScorePair holds one score per player. Scores only ever grow.
type ScorePair struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// Get returns the score for id.
func (s ScorePair) Get(id PlayerID) int {
	if id == P2 {
		return s.P2
	}
	return s.P1
}

// Plus returns the field-wise sum of s and o.
func (s ScorePair) Plus(o ScorePair) ScorePair {
	return ScorePair{P1: s.P1 + o.P1, P2: s.P2 + o.P2}
}

// Winner applies the strict comparison rule; equal totals are a tie.
func (s ScorePair) Winner() Winner {
	switch {
	case s.P1 > s.P2:
		return WinnerP1
	case s.P2 > s.P1:
		return WinnerP2
	default:
		return WinnerTie
	}
}

// ModeResult is the terminal outcome of one round.
type ModeResult struct {
	Mode   ModeKind  `json:"mode"`
	Winner Winner    `json:"winner"`
	Scores ScorePair `json:"scores"`
}

// FinalResult aggregates a completed session.
type FinalResult struct {
	Winner Winner       `json:"winner"`
	Totals ScorePair    `json:"totals"`
	Rounds []ModeResult `json:"rounds"`
}

// Input is one player's intent for a single step. Dir is the movement
// direction with diagonals already normalised; the action flags are
// edge-triggered presses.
type Input struct {
	Dir       Vec2 `json:"dir"`
	Resonance bool `json:"resonance"`
	Dash      bool `json:"dash"`
}

// NormaliseDir turns raw axis presses (-1, 0, 1) into a direction with unit
// length on diagonals.
func NormaliseDir(x, y float64) Vec2 {
	x, y = Clamp(x, -1, 1), Clamp(y, -1, 1)
	if x != 0 && y != 0 {
		x *= math.Sqrt2 / 2
		y *= math.Sqrt2 / 2
	}
	return Vec2{X: x, Y: y}
}
