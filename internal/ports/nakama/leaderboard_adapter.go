package nakama

import (
	"context"
	"fmt"

	"ludo/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// LeaderboardAdapter implements ports.LeaderboardPort on Nakama's
// leaderboard API.
type LeaderboardAdapter struct {
	nk runtime.NakamaModule
	id string
}

// NewLeaderboardAdapter creates a leaderboard adapter writing to the
// leaderboard with the given id.
func NewLeaderboardAdapter(nk runtime.NakamaModule, id string) *LeaderboardAdapter {
	return &LeaderboardAdapter{nk: nk, id: id}
}

// RecordWin writes a winner's score to the leaderboard.
func (a *LeaderboardAdapter) RecordWin(ctx context.Context, record ports.WinRecord) error {
	_, err := a.nk.LeaderboardRecordWrite(ctx, a.id, record.UserID, "", record.Score, 0, record.Metadata, nil)
	if err != nil {
		return fmt.Errorf("failed to write leaderboard record: %w", err)
	}
	return nil
}
