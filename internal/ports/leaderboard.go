package ports

import "context"

// WinRecord captures one finished game for the leaderboard.
type WinRecord struct {
	UserID   string
	Score    int64
	Metadata map[string]interface{}
}

// LeaderboardPort defines the interface for recording game outcomes.
type LeaderboardPort interface {
	// RecordWin writes a winner's result to the persistent leaderboard.
	RecordWin(ctx context.Context, record WinRecord) error
}
