package nakama

// RpcQuickMatch is the Nakama RPC id clients call to find or create a
// lobby-capable match.
const RpcQuickMatch = "quick_match"

// RpcSessionToken is the Nakama RPC id agent processes call to obtain a
// signed session token for a match.
const RpcSessionToken = "agent_session_token"

// MatchNameLudo is the authoritative match handler name registered with
// Nakama.
const MatchNameLudo = "ludo_match"

// tickRate is the match loop frequency registered with Nakama, in ticks per
// second. Delays configured in seconds are converted with it.
const tickRate = 10

// Default data file locations inside the Nakama runtime container.
const (
	gameConfigPath    = "data/ludo_config.json"
	botIdentitiesPath = "data/bot_identities.json"
)
