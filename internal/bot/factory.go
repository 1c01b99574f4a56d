package bot

import (
	"math/rand"
	"time"
)

// NewAgent creates a bot agent for the given bot user ID, resolving its
// display name from the identity pool when loaded. A nil rng falls back to
// a time-seeded source.
func NewAgent(userID string, rng *rand.Rand) *Agent {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{
		ID:       userID,
		Name:     GetBotDisplayName(userID),
		Strategy: NewRandomBrain(rng),
	}
}
