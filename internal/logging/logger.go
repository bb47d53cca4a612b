// Package logging builds the crmdesk file logger. The interactive console
// owns stdout, so logs go to a file under the configured directory; when
// debug_mode is off nothing is written at all.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"crmdesk/internal/config"
)

// New returns a zap logger writing to <dir>/crmdesk.log. With DebugMode
// disabled it returns a no-op logger.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	if !cfg.DebugMode {
		return zap.NewNop(), nil
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("logging: dir must be set when debug_mode is on")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(cfg.Dir, "crmdesk.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(file),
		parseLevel(cfg.Level),
	)
	return zap.New(core), nil
}

// Console returns a logger suitable for one-shot commands where stdout is
// plain text: errors and above to stderr, everything else dropped unless
// verbose is set.
func Console(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build console logger: %w", err)
	}
	return logger, nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
