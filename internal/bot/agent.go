package bot

import (
	"fmt"

	"echoes/internal/domain"
)

// Agent represents an autonomous bot player bound to one seat.
type Agent struct {
	ID       domain.PlayerID
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for seat id with a brain of the given level.
func NewAgent(id domain.PlayerID, brain Brain, level BotLevel) *Agent {
	return &Agent{
		ID:       id,
		Name:     fmt.Sprintf("%s bot (%s)", id, level),
		Strategy: brain,
	}
}

// Play asks the agent for its input this step. An agent without a strategy
// stays idle.
func (a *Agent) Play(v View) domain.Input {
	if a == nil || a.Strategy == nil {
		return domain.Input{}
	}
	return a.Strategy.Decide(v)
}
