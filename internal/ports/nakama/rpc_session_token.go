package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"

	"ludo/internal/app"
	"ludo/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// SessionTokenRequest is the client payload for the session token RPC.
type SessionTokenRequest struct {
	MatchID string `json:"match_id"`
	Role    string `json:"role"`
}

// SessionTokenResponse carries the signed token back to the caller.
type SessionTokenResponse struct {
	Token string `json:"token"`
}

// sessionSecretEnv names the environment variable holding the HS256 signing
// secret for agent session tokens.
const sessionSecretEnv = "LUDO_SESSION_SECRET"

func rpcSessionToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("unauthenticated", 16)
	}

	var req SessionTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid request payload", 3)
	}
	if req.Role == "" {
		req.Role = app.SessionRolePlayer
	}

	svc := app.NewSessionTokenService(os.Getenv(sessionSecretEnv), config.GetSessionTokenIssuer(), 0)
	token, err := svc.GenerateToken(userID, req.MatchID, req.Role)
	if err != nil {
		logger.Warn("rpcSessionToken: token generation failed for %s: %v", userID, err)
		return "", runtime.NewError(err.Error(), 3)
	}

	b, _ := json.Marshal(SessionTokenResponse{Token: token})
	return string(b), nil
}
