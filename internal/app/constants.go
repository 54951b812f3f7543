package app

import "time"

// DefaultStepRate is the number of steps per second hosts drive a session at
// when nothing else is configured.
const DefaultStepRate = 60

// StepInterval converts a step rate into the per-step delta. Non-positive
// rates fall back to DefaultStepRate.
func StepInterval(rate int) time.Duration {
	if rate <= 0 {
		rate = DefaultStepRate
	}
	return time.Second / time.Duration(rate)
}
