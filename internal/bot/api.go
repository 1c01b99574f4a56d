package bot

import "ludo/internal/domain"

// Brain is the interface all bot decision policies implement.
type Brain interface {
	// ChooseAction picks the action the bot submits for its turn. The
	// dice roll has already been recorded on the game, so the legality
	// mask is current.
	ChooseAction(game *domain.Game, c domain.Color) (domain.Action, error)
}
