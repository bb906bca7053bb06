package jwtware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-hr-auth"
)

// DefaultContextKey is the locals key holding the RequestAuth value
const DefaultContextKey = "auth"

// UnauthorizedDetail is the only message clients see for auth failures
const UnauthorizedDetail = "Could not validate credentials"

// RequestAuth is the immutable result of authenticating a request: the token
// as presented, where it was found and the identity it resolved to.
type RequestAuth struct {
	Token    string
	Source   Lookup
	Identity auth.Identity
}

var requestAuthCtxKey = &struct{ name string }{"request_auth"}

type Config struct {
	// Filter skips the middleware when it returns true
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	ErrorHandler   fiber.ErrorHandler
	// Verifier is required for token verification
	Verifier    auth.Verifier
	ContextKey  string
	TokenLookup string
	AuthScheme  string
	Logger      auth.Logger
}

// New returns a handler that authenticates the request or rejects it with 401
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	lookups := ParseTokenLookup(cfg.TokenLookup)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, source, err := ResolveToken(lookups, cfg.AuthScheme, CredentialsFromFiber(c, lookups))
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("no token presented", "path", c.Path())
			}
			return cfg.ErrorHandler(c, err)
		}

		identity, err := cfg.Verifier.Verify(c.UserContext(), raw)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Info("token verification failed",
					"path", c.Path(),
					"source", source.String(),
					"kind", auth.FailureKind(err),
				)
			}
			return cfg.ErrorHandler(c, err)
		}

		ra := RequestAuth{
			Token:    raw,
			Source:   source,
			Identity: identity,
		}

		c.Locals(cfg.ContextKey, ra)

		ctx := auth.WithIdentity(c.UserContext(), identity)
		c.SetUserContext(context.WithValue(ctx, requestAuthCtxKey, ra))

		return cfg.SuccessHandler(c)
	}
}

// GetDefaultConfig fills unset fields of the first config
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Verifier == nil {
		panic("AUTH: JWT middleware configuration: Verifier is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = UnauthorizedHandler
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = DefaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// UnauthorizedHandler answers every failure with the same 401 body so the
// reason never leaks to the client.
func UnauthorizedHandler(c *fiber.Ctx, _ error) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"detail": UnauthorizedDetail,
	})
}

// FromLocals returns the RequestAuth stored by the middleware under key
func FromLocals(c *fiber.Ctx, key ...string) (RequestAuth, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	ra, ok := c.Locals(k).(RequestAuth)
	return ra, ok
}

// FromContext returns the RequestAuth carried by a request context
func FromContext(ctx context.Context) (RequestAuth, bool) {
	if ctx == nil {
		return RequestAuth{}, false
	}
	ra, ok := ctx.Value(requestAuthCtxKey).(RequestAuth)
	return ra, ok
}
