package bot

import (
	"math/rand"

	"echoes/internal/domain"
)

// GoodBot stands still and presses on most good windows, with some jitter.
type GoodBot struct {
	rng *rand.Rand
}

const goodPressChance = 0.35

func (b *GoodBot) Decide(v View) domain.Input {
	return domain.Input{
		Resonance: inGoodWindow(v) && b.rng.Float64() < goodPressChance,
	}
}
