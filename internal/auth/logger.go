package auth

import (
	"log"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// Logger is the logging interface the auth and jwks packages write to.
// Adapters below cover the common structured loggers; anything else can
// satisfy the interface directly.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// DefaultLogger writes through the standard library log package.
type DefaultLogger struct{}

func (DefaultLogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (DefaultLogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (DefaultLogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (DefaultLogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

// NewZapLogger adapts a zap.SugaredLogger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &zapAdapter{l}
}

type zapAdapter struct{ l *zap.SugaredLogger }

func (a *zapAdapter) Debugf(format string, args ...any) { a.l.Debugf(format, args...) }
func (a *zapAdapter) Infof(format string, args ...any)  { a.l.Infof(format, args...) }
func (a *zapAdapter) Warnf(format string, args ...any)  { a.l.Warnf(format, args...) }
func (a *zapAdapter) Errorf(format string, args ...any) { a.l.Errorf(format, args...) }

// NewLogrusLogger adapts a logrus.FieldLogger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusAdapter{l}
}

type logrusAdapter struct{ l logrus.FieldLogger }

func (a *logrusAdapter) Debugf(format string, args ...any) { a.l.Debugf(format, args...) }
func (a *logrusAdapter) Infof(format string, args ...any)  { a.l.Infof(format, args...) }
func (a *logrusAdapter) Warnf(format string, args ...any)  { a.l.Warnf(format, args...) }
func (a *logrusAdapter) Errorf(format string, args ...any) { a.l.Errorf(format, args...) }

// NewZerologLogger adapts a zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologAdapter{l}
}

type zerologAdapter struct{ l zerolog.Logger }

func (a *zerologAdapter) Debugf(format string, args ...any) { a.l.Debug().Msgf(format, args...) }
func (a *zerologAdapter) Infof(format string, args ...any)  { a.l.Info().Msgf(format, args...) }
func (a *zerologAdapter) Warnf(format string, args ...any)  { a.l.Warn().Msgf(format, args...) }
func (a *zerologAdapter) Errorf(format string, args ...any) { a.l.Error().Msgf(format, args...) }
