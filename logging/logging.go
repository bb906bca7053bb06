// Package logging builds the zap logger used by the server and adapts it to
// the auth.Logger interface.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger at level. Development switches to the
// console encoder.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// Adapter writes auth.Logger calls to a zap logger. Arguments are key/value
// pairs.
type Adapter struct {
	s *zap.SugaredLogger
}

// NewAdapter wraps l. A nil logger discards everything.
func NewAdapter(l *zap.Logger) *Adapter {
	if l == nil {
		l = zap.NewNop()
	}
	return &Adapter{s: l.Sugar()}
}

func (a *Adapter) Debug(msg string, args ...any) {
	a.s.Debugw(msg, args...)
}

func (a *Adapter) Info(msg string, args ...any) {
	a.s.Infow(msg, args...)
}

func (a *Adapter) Warn(msg string, args ...any) {
	a.s.Warnw(msg, args...)
}

func (a *Adapter) Error(msg string, args ...any) {
	a.s.Errorw(msg, args...)
}
