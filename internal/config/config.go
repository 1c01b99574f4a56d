package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds tunables for match pacing and surrounding services.
type GameConfig struct {
	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotMinDelaySeconds and BotMaxDelaySeconds bound how long a bot waits
	// before taking its turn, so games stay watchable.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds a solo human lobby
	// waits before the empty seats fill with bots.
	BotAutoFillDelaySeconds int    `json:"bot_auto_fill_delay_seconds"`
	LeaderboardID           string `json:"leaderboard_id"`
	SessionTokenIssuer      string `json:"session_token_issuer"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBotDelays returns the bot think-time bounds in seconds, with safe
// defaults when the config is absent or incoherent.
func GetBotDelays() (min, max int) {
	min, max = 1, 3
	if cfg == nil {
		return min, max
	}
	if cfg.BotMinDelaySeconds > 0 {
		min = cfg.BotMinDelaySeconds
	}
	if cfg.BotMaxDelaySeconds >= min {
		max = cfg.BotMaxDelaySeconds
	} else {
		max = min
	}
	return min, max
}

// GetBotAutoFillDelay returns how long a solo lobby waits before bots fill
// the remaining seats, in seconds.
func GetBotAutoFillDelay() int {
	if cfg == nil || cfg.BotAutoFillDelaySeconds <= 0 {
		return 15
	}
	return cfg.BotAutoFillDelaySeconds
}

// GetLeaderboardID returns the leaderboard used for win tallies.
func GetLeaderboardID() string {
	if cfg == nil || cfg.LeaderboardID == "" {
		return "ludo_wins"
	}
	return cfg.LeaderboardID
}

// GetSessionTokenIssuer returns the issuer claim for agent session tokens.
func GetSessionTokenIssuer() string {
	if cfg == nil || cfg.SessionTokenIssuer == "" {
		return "ludo-server"
	}
	return cfg.SessionTokenIssuer
}
