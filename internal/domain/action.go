package domain

import "fmt"

// ActionKind tags the two kinds of turn actions.
type ActionKind int

const (
	// ActionEnter moves the player's first bench token onto its start square.
	ActionEnter ActionKind = iota
	// ActionMove advances one specific on-board token by the dice roll.
	ActionMove
)

// NumActions is the size of the discrete action space exposed to agents:
// enter-from-bench plus one move action per token.
const NumActions = NumTokens + 1

// Action is a single turn choice: enter from the bench, or move token Token.
type Action struct {
	Kind  ActionKind
	Token int // token index 0..3, meaningful for ActionMove only
}

// EnterAction returns the enter-from-bench action.
func EnterAction() Action { return Action{Kind: ActionEnter} }

// MoveAction returns the action that advances the token with the given index.
func MoveAction(token int) Action { return Action{Kind: ActionMove, Token: token} }

// ActionFromIndex decodes the flat agent-facing action index:
// 0 = enter, 1..4 = move token index-1.
func ActionFromIndex(index int) (Action, error) {
	switch {
	case index == 0:
		return EnterAction(), nil
	case index >= 1 && index < NumActions:
		return MoveAction(index - 1), nil
	default:
		return Action{}, fmt.Errorf("action index %d out of range [0,%d]", index, NumActions-1)
	}
}

// Index encodes the action as its flat agent-facing index.
func (a Action) Index() int {
	if a.Kind == ActionEnter {
		return 0
	}
	return a.Token + 1
}

func (a Action) String() string {
	if a.Kind == ActionEnter {
		return "enter"
	}
	return fmt.Sprintf("move-token-%d", a.Token)
}
