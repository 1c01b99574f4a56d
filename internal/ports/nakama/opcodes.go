package nakama

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame          int64 = 1
	OpTakeTurn           int64 = 2
	OpRequestObservation int64 = 3

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpGameStarted   int64 = 103
	OpDiceRolled    int64 = 104
	OpTokenEntered  int64 = 105
	OpTokenMoved    int64 = 106
	OpTokenCaptured int64 = 107
	OpTokenFinished int64 = 108
	OpTurnPassed    int64 = 109
	OpGameEnded     int64 = 110
	OpObservation   int64 = 111 // sent privately, per agent
	OpGameError     int64 = 120
)
