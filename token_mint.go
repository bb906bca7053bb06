package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeBearer is the declared type of every issued token
const TokenTypeBearer = "bearer"

// Token is the result of a successful issuance
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int64     `json:"expires_in"`
}

// resolveTTL maps a requested lifetime onto the allowed window. Zero means
// the configured lifetime and longer requests are clamped to it.
func (ts *TokenService) resolveTTL(ttl time.Duration) (time.Duration, error) {
	if ttl < 0 {
		return 0, ErrInvalidTTL
	}
	if ttl == 0 || ttl > ts.lifetime {
		return ts.lifetime, nil
	}
	return ttl, nil
}

// expiryFor returns now+lifetime rounded up to the next whole second. exp
// is encoded in seconds, so rounding down would cut the token short.
func expiryFor(now time.Time, lifetime time.Duration) time.Time {
	exp := now.Add(lifetime)
	if rounded := exp.Truncate(jwt.TimePrecision); rounded.Before(exp) {
		return rounded.Add(jwt.TimePrecision)
	}
	return exp
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
