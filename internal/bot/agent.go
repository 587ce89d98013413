package bot

import "coalition/internal/domain"

// Agent represents an autonomous stand-in delegate occupying a seat.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for a provisioned bot identity, using the
// identity's configured strategy level (shrewd when unspecified).
func NewAgent(userID string) (*Agent, error) {
	level := BotLevelShrewd
	name := GetBotDisplayName(userID)
	if identity, ok := GetBotConfig(userID); ok && identity.Level != "" {
		level = BotLevel(identity.Level)
	}

	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: userID, Name: name, Strategy: brain}, nil
}

// NextAction asks the agent what it wants to do against the current
// state. Returns ActionNone when the agent has nothing pending.
func (a *Agent) NextAction(game *domain.Game) Action {
	player, ok := game.Players[a.ID]
	if !ok {
		return Action{}
	}
	return a.Strategy.Decide(game, player)
}
