package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// SessionTokenService issues short-lived signed tokens that external agent
// processes present when attaching to a match as a player or spectator.
type SessionTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

const (
	SessionRolePlayer    = "player"
	SessionRoleSpectator = "spectator"
)

// NewSessionTokenService constructs the token service. A zero ttl defaults
// to one hour.
func NewSessionTokenService(secret, issuer string, ttl time.Duration) *SessionTokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionTokenService{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken signs an HS256 session token for the given user, match and
// role.
func (s *SessionTokenService) GenerateToken(userID, matchID, role string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("session token service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if matchID == "" {
		return "", fmt.Errorf("match is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("session token config is incomplete")
	}
	if role != SessionRolePlayer && role != SessionRoleSpectator {
		return "", fmt.Errorf("unsupported session role: %s", role)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  userID,
		"exp":  now.Add(s.ttl).Unix(),
		"mid":  matchID,
		"role": role,
		"jti":  fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
