// Package stdlogger adapts the global zerolog logger to printf style
// logger interfaces such as gorm's logger.Writer.
package stdlogger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes printf style messages to zerolog.
type Logger struct {
	logger zerolog.Logger
}

// New captures the current global logger, so call it after logger.Init.
func New() *Logger {
	return &Logger{logger: log.Logger.With().Str("component", "db").Logger()}
}

// Printf logs at info level. It implements gorm's logger.Writer.
func (l *Logger) Printf(format string, v ...any) {
	l.logger.Info().Msgf(format, v...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...any) {
	l.logger.Info().Msgf(format, v...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...any) {
	l.logger.Warn().Msgf(format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...any) {
	l.logger.Error().Msgf(format, v...)
}
