package bot

import (
	"math/rand"

	"ludo/internal/domain"
)

// RandomBrain samples uniformly from the legal-action mask. It is the only
// policy: bot seats exist to keep four-player games running, not to play
// well.
type RandomBrain struct {
	rng *rand.Rand
}

// NewRandomBrain constructs a RandomBrain drawing from rng.
func NewRandomBrain(rng *rand.Rand) *RandomBrain {
	return &RandomBrain{rng: rng}
}

// ChooseAction picks one of the currently legal actions at random. When no
// action is legal the enter action is returned; the engine consumes it as a
// no-op turn.
func (b *RandomBrain) ChooseAction(game *domain.Game, c domain.Color) (domain.Action, error) {
	legal := game.LegalActions(c)
	if len(legal) == 0 {
		return domain.EnterAction(), nil
	}
	return legal[b.rng.Intn(len(legal))], nil
}
