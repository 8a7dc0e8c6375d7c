// Package logging configures the structured logger shared by the commands.
package logging

import (
	"os"

	"github.com/google/uuid"
	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// New creates a console logger on stderr for the named program.
// Standard library log output is redirected to it, so device lifecycle
// messages show up alongside everything else. The level is read from
// SVM_LOG_LEVEL and defaults to info.
//
// Every logger carries a fresh run id.
func New(app string) *zap.Logger {
	return newLogger(app, zapcore.Lock(os.Stderr), term.IsTerminal(int(os.Stderr.Fd())))
}

func newLogger(app string, ws zapcore.WriteSyncer, color bool) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		ws,
		Level(enve.StringOr("SVM_LOG_LEVEL", "info")),
	)).Named(app).With(zap.String("run", uuid.NewString()))

	zap.RedirectStdLog(logger)
	return logger
}

// Level parses a level name. Unknown names yield zapcore.InfoLevel.
func Level(name string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
