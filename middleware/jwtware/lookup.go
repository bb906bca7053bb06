package jwtware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName is the cookie the login handler sets
const DefaultCookieName = "access_token"

var (
	// DefaultTokenLookup is the single precedence order used to find a token:
	// the Authorization header first, then the access_token cookie.
	DefaultTokenLookup = "header:" + fiber.HeaderAuthorization + ",cookie:" + DefaultCookieName

	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// Lookup names one place a token may be presented
type Lookup struct {
	Source string // header, cookie or query
	Name   string
}

func (l Lookup) String() string {
	return l.Source + ":" + l.Name
}

// Credentials is a snapshot of the credential bearing fields of a request.
// Keys are the names used in the lookup list.
type Credentials struct {
	Headers map[string]string
	Cookies map[string]string
	Query   map[string]string
}

// ParseTokenLookup parses "header:Authorization,cookie:jwt,query:auth_token"
// into an ordered lookup list. Unknown sources are ignored.
func ParseTokenLookup(tokenLookup string) []Lookup {
	lookups := make([]Lookup, 0)

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}

		switch source {
		case "header", "cookie", "query":
			lookups = append(lookups, Lookup{Source: source, Name: name})
		}
	}

	return lookups
}

// ResolveToken walks lookups in order and returns the first token found.
// Header values must carry authScheme as prefix. It has no side effects.
func ResolveToken(lookups []Lookup, authScheme string, creds Credentials) (string, Lookup, error) {
	authScheme = strings.TrimSpace(authScheme)

	for _, l := range lookups {
		var token string
		switch l.Source {
		case "header":
			token = tokenFromHeader(creds.Headers[l.Name], authScheme)
		case "cookie":
			token = strings.TrimSpace(creds.Cookies[l.Name])
		case "query":
			token = strings.TrimSpace(creds.Query[l.Name])
		}

		if token != "" {
			return token, l, nil
		}
	}

	return "", Lookup{}, ErrJWTMissingOrMalformed
}

func tokenFromHeader(value, authScheme string) string {
	l := len(authScheme)
	if l == 0 {
		return ""
	}
	if len(value) > l+1 && strings.EqualFold(value[:l], authScheme) && value[l] == ' ' {
		return strings.TrimSpace(value[l:])
	}
	return ""
}

// CredentialsFromFiber copies only the fields named by lookups out of c
func CredentialsFromFiber(c *fiber.Ctx, lookups []Lookup) Credentials {
	creds := Credentials{
		Headers: map[string]string{},
		Cookies: map[string]string{},
		Query:   map[string]string{},
	}

	for _, l := range lookups {
		switch l.Source {
		case "header":
			creds.Headers[l.Name] = c.Get(l.Name)
		case "cookie":
			creds.Cookies[l.Name] = c.Cookies(l.Name)
		case "query":
			creds.Query[l.Name] = c.Query(l.Name)
		}
	}

	return creds
}
