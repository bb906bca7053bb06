package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultKeyID names the signing key when none is configured
const DefaultKeyID = "default"

// TokenService mints and verifies signed, expiring tokens tied to a username.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	method       jwt.SigningMethod
	keyID        string
	signingKey   []byte
	previousKeys map[string][]byte
	keyfunc      jwt.Keyfunc
	lifetime     time.Duration
	issuer       string
	identities   IdentityLookup
	logger       Logger
	now          func() time.Time
}

// TokenServiceOption configures a TokenService
type TokenServiceOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks
func WithClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithIssuer sets the iss claim and requires it on verification
func WithIssuer(issuer string) TokenServiceOption {
	return func(ts *TokenService) {
		ts.issuer = issuer
	}
}

// WithSigningMethod selects the HMAC algorithm by name, e.g. HS256
func WithSigningMethod(alg string) TokenServiceOption {
	return func(ts *TokenService) {
		if alg == "" {
			return
		}
		ts.method = jwt.GetSigningMethod(alg)
	}
}

// WithPreviousKeys accepts tokens signed with retired keys, keyed by kid.
// New tokens are always signed with the active key.
func WithPreviousKeys(keys map[string][]byte) TokenServiceOption {
	return func(ts *TokenService) {
		for kid, key := range keys {
			ts.previousKeys[kid] = key
		}
	}
}

// WithTokenLogger sets the service logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		ts.logger = normalizeLogger(logger)
	}
}

// NewTokenService creates a TokenService that signs with signingKey under keyID
// and resolves subjects through identities.
func NewTokenService(signingKey []byte, keyID string, lifetime time.Duration, identities IdentityLookup, opts ...TokenServiceOption) (*TokenService, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("token service: signing key is required")
	}

	if identities == nil {
		return nil, errors.New("token service: identity lookup is required")
	}

	if lifetime <= 0 {
		return nil, fmt.Errorf("token service: lifetime must be positive, got %s", lifetime)
	}

	if keyID == "" {
		keyID = DefaultKeyID
	}

	ts := &TokenService{
		method:       jwt.SigningMethodHS256,
		keyID:        keyID,
		signingKey:   signingKey,
		previousKeys: map[string][]byte{},
		lifetime:     lifetime,
		identities:   identities,
		logger:       defLogger{},
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(ts)
	}

	if _, ok := ts.method.(*jwt.SigningMethodHMAC); !ok || ts.method == nil {
		return nil, errors.New("token service: signing method must be one of HS256, HS384, HS512")
	}

	givenKeys := make(map[string]keyfunc.GivenKey, len(ts.previousKeys)+1)
	for kid, key := range ts.previousKeys {
		if len(key) == 0 {
			continue
		}
		givenKeys[kid] = keyfunc.NewGivenCustom(key, keyfunc.GivenKeyOptions{
			Algorithm: ts.method.Alg(),
		})
	}
	givenKeys[ts.keyID] = keyfunc.NewGivenCustom(ts.signingKey, keyfunc.GivenKeyOptions{
		Algorithm: ts.method.Alg(),
	})
	ts.keyfunc = keyfunc.NewGiven(givenKeys).Keyfunc

	return ts, nil
}

// NewTokenServiceFromConfig builds a TokenService from a Config
func NewTokenServiceFromConfig(cfg Config, identities IdentityLookup, logger Logger, opts ...TokenServiceOption) (*TokenService, error) {
	previous := make(map[string][]byte, len(cfg.GetPreviousSigningKeys()))
	for kid, key := range cfg.GetPreviousSigningKeys() {
		previous[kid] = []byte(key)
	}

	base := []TokenServiceOption{
		WithSigningMethod(cfg.GetSigningMethod()),
		WithIssuer(cfg.GetIssuer()),
		WithPreviousKeys(previous),
		WithTokenLogger(logger),
	}

	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetSigningKeyID(),
		cfg.GetTokenExpiration(),
		identities,
		append(base, opts...)...,
	)
}

// Lifetime returns the configured maximum token lifetime
func (ts *TokenService) Lifetime() time.Duration {
	return ts.lifetime
}

// Issue mints a token for identity that expires after ttl. A zero ttl uses
// the configured lifetime; longer requests are clamped to it.
func (ts *TokenService) Issue(identity Identity, ttl time.Duration) (Token, error) {
	if identity.IsZero() {
		return Token{}, errors.New("token service: identity is required")
	}

	lifetime, err := ts.resolveTTL(ttl)
	if err != nil {
		return Token{}, err
	}

	now := ts.now()
	expiresAt := expiryFor(now, lifetime)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	ensureTokenID(&claims.RegisteredClaims)

	signed, err := ts.SignClaims(claims)
	if err != nil {
		return Token{}, err
	}

	return Token{
		AccessToken: signed,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(expiresAt.Sub(now) / time.Second),
	}, nil
}

// SignClaims signs claims with the active key and stamps its kid header
func (ts *TokenService) SignClaims(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("token service: claims must not be nil")
	}

	token := jwt.NewWithClaims(ts.method, claims)
	token.Header["kid"] = ts.keyID

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Validate checks signature and expiry and returns the claims. It does not
// consult the identity store.
func (ts *TokenService) Validate(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMalformedToken
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{ts.method.Alg()}),
		jwt.WithTimeFunc(ts.now),
		jwt.WithExpirationRequired(),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, ts.keyfunc, parserOptions...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		ts.logger.Debug("token validation failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject() == "" {
		return nil, ErrMalformedToken
	}

	// exp is exclusive: a token presented at its expiry instant is expired
	if !ts.now().Before(claims.Expires()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// Verify validates raw and resolves its subject to an active identity
func (ts *TokenService) Verify(ctx context.Context, raw string) (Identity, error) {
	claims, err := ts.Validate(raw)
	if err != nil {
		return Identity{}, err
	}

	identity, ok := ts.identities.Get(ctx, claims.Subject())
	if !ok {
		return Identity{}, ErrUnknownUser
	}

	if !identity.Active {
		return Identity{}, ErrInactiveIdentity
	}

	return identity, nil
}
