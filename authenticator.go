package auth

import (
	"context"
	"time"
)

// Authenticator ties the credential store and the token service together:
// it turns credentials into tokens and tokens back into identities.
type Authenticator struct {
	provider IdentityProvider
	tokens   *TokenService
	logger   Logger
	sink     EventSink
	now      func() time.Time
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokens *TokenService) *Authenticator {
	return &Authenticator{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
		sink:     noopEventSink{},
		now:      time.Now,
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	a.logger = normalizeLogger(logger)
	return a
}

// WithEventSink configures an EventSink for emitting auth events.
func (a *Authenticator) WithEventSink(sink EventSink) *Authenticator {
	a.sink = normalizeEventSink(sink)
	return a
}

// TokenService returns the TokenService used by this Authenticator
func (a *Authenticator) TokenService() *TokenService {
	return a.tokens
}

// Login authenticates username and password and issues a token with the
// default lifetime. Disabled identities are rejected with ErrInactiveIdentity.
func (a *Authenticator) Login(ctx context.Context, username, password string) (Token, error) {
	identity, err := a.provider.Authenticate(ctx, username, password)
	if err != nil {
		a.logger.Warn("login rejected", "username", username, "kind", FailureKind(err))
		a.emit(ctx, EventLoginFailure, username, err)
		return Token{}, err
	}

	if !identity.Active {
		a.logger.Warn("login blocked for inactive identity", "username", username)
		a.emit(ctx, EventLoginFailure, username, ErrInactiveIdentity)
		return Token{}, ErrInactiveIdentity
	}

	token, err := a.tokens.Issue(identity, 0)
	if err != nil {
		a.logger.Error("login failed to issue token", "username", username, "error", err)
		a.emit(ctx, EventLoginFailure, username, err)
		return Token{}, err
	}

	a.logger.Info("login succeeded", "username", username)
	a.emit(ctx, EventLoginSuccess, username, nil)

	return token, nil
}

// Verify resolves a presented token to an identity
func (a *Authenticator) Verify(ctx context.Context, token string) (Identity, error) {
	identity, err := a.tokens.Verify(ctx, token)
	if err != nil {
		a.logger.Info("token rejected", "kind", FailureKind(err))
		a.emit(ctx, EventVerifyFailure, "", err)
		return Identity{}, err
	}

	a.emit(ctx, EventVerifySuccess, identity.Username, nil)
	return identity, nil
}

// Register creates a new identity
func (a *Authenticator) Register(ctx context.Context, msg RegisterUserMessage) (Identity, error) {
	identity, err := a.provider.Register(ctx, msg)
	if err != nil {
		a.logger.Warn("registration rejected", "username", msg.Username, "kind", FailureKind(err))
		a.emit(ctx, EventRegisterFailure, msg.Username, err)
		return Identity{}, err
	}

	a.logger.Info("identity registered", "username", identity.Username)
	a.emit(ctx, EventRegisterSuccess, identity.Username, nil)

	return identity, nil
}

func (a *Authenticator) emit(ctx context.Context, eventType EventType, username string, err error) {
	event := Event{
		Type:       eventType,
		Username:   username,
		OccurredAt: a.now(),
	}
	if err != nil {
		event.Kind = FailureKind(err)
	}

	if recErr := normalizeEventSink(a.sink).Record(ctx, event); recErr != nil {
		a.logger.Warn("event sink record error", "error", recErr)
	}
}
