package domain

import (
	"errors"
	"strings"

	"golang.org/x/exp/constraints"
)

// ErrUnknownPlayer is returned for player ids other than p1/p2.
var ErrUnknownPlayer = errors.New("unknown player id")

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParsePlayerID validates an external player id. Adapters call this before
// handing input to the core.
func ParsePlayerID(s string) (PlayerID, error) {
	switch PlayerID(strings.ToLower(strings.TrimSpace(s))) {
	case P1:
		return P1, nil
	case P2:
		return P2, nil
	default:
		return "", ErrUnknownPlayer
	}
}

// ParseModeKind maps an identifier to a mode. Unknown identifiers fall back to
// PulseDuel.
func ParseModeKind(s string) ModeKind {
	switch ModeKind(s) {
	case ModeEchoChase:
		return ModeEchoChase
	case ModeDissonance:
		return ModeDissonance
	default:
		return ModePulseDuel
	}
}
