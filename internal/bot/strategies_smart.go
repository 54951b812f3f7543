package bot

import "echoes/internal/domain"

// SmartBot keeps a steady (zero) speed for regularity and only presses in the
// perfect window. It knows the Dissonance flip.
type SmartBot struct{}

func (b *SmartBot) Decide(v View) domain.Input {
	if v.Mode == domain.ModeDissonance && v.Dissonant {
		return domain.Input{Resonance: afterShiftResonance(v)}
	}
	return domain.Input{Resonance: inPerfectWindow(v)}
}
