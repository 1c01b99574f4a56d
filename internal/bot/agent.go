package bot

import (
	"ludo/internal/domain"
)

// Agent represents an autonomous bot player occupying a seat.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent for its action at the given seat color.
func (a *Agent) Play(game *domain.Game, c domain.Color) (domain.Action, error) {
	action, err := a.Strategy.ChooseAction(game, c)
	if err != nil {
		// Fall back to a pass-equivalent submission so the turn still
		// advances.
		return domain.EnterAction(), err
	}
	return action, nil
}
