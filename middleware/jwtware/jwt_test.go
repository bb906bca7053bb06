package jwtware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-hr-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVerifier = auth.VerifierFunc(func(_ context.Context, token string) (auth.Identity, error) {
	switch token {
	case "good":
		return auth.Identity{Username: "admin", Active: true}, nil
	case "expired":
		return auth.Identity{}, auth.ErrTokenExpired
	default:
		return auth.Identity{}, auth.ErrMalformedToken
	}
})

func newTestApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/me", func(c *fiber.Ctx) error {
		ra, ok := FromLocals(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		fromCtx, ok := FromContext(c.UserContext())
		if !ok || fromCtx != ra {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		identity, ok := auth.IdentityFromContext(c.UserContext())
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{
			"username": identity.Username,
			"source":   ra.Source.String(),
		})
	})
	return app
}

func TestMiddlewareAcceptsHeaderAndCookie(t *testing.T) {
	app := newTestApp(Config{Verifier: testVerifier})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "admin", out["username"])
	assert.Equal(t, "header:Authorization", out["source"])

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "good"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "cookie:access_token", out["source"])
}

func TestMiddlewareRejectsUniformly(t *testing.T) {
	app := newTestApp(Config{Verifier: testVerifier})

	for name, header := range map[string]string{
		"missing": "",
		"expired": "Bearer expired",
		"bad":     "Bearer nope",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

			body, _ := io.ReadAll(resp.Body)
			assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, string(body))
		})
	}
}

func TestMiddlewareFilterAndCustomKey(t *testing.T) {
	app := fiber.New()
	app.Use(New(Config{
		Verifier:   testVerifier,
		ContextKey: "who",
		Filter: func(c *fiber.Ctx) bool {
			return c.Path() == "/public"
		},
	}))
	app.Get("/public", func(c *fiber.Ctx) error {
		return c.SendString("open")
	})
	app.Get("/private", func(c *fiber.Ctx) error {
		ra, ok := FromLocals(c, "who")
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(ra.Identity.Username)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "admin", string(body))
}

func TestGetDefaultConfigRequiresVerifier(t *testing.T) {
	assert.Panics(t, func() { GetDefaultConfig() })

	cfg := GetDefaultConfig(Config{Verifier: testVerifier})
	assert.Equal(t, DefaultContextKey, cfg.ContextKey)
	assert.Equal(t, DefaultTokenLookup, cfg.TokenLookup)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
}
