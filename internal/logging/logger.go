package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions adds a rotated JSON log file next to stdout. An empty Path
// logs to stdout only.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var globalLogger *zap.SugaredLogger

// Init builds the global JSON logger. "production" gets info level and
// sampling; anything else logs at debug.
func Init(appEnv string, file FileOptions) error {
	cfg := zap.NewDevelopmentConfig()
	if appEnv == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]interface{}{"service": "flightnoise"}

	var opts []zap.Option
	if file.Path != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   file.Compress,
		})
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), sink, cfg.Level)
		opts = append(opts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}

	logger, err := cfg.Build(opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	globalLogger = logger.Sugar()
	return nil
}

// GetLogger returns the global logger, falling back to a production logger
// when Init was not called (tests, tools).
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		logger, _ := zap.NewProduction()
		globalLogger = logger.Sugar()
	}
	return globalLogger
}

// Close flushes buffered entries.
func Close() error {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Sync()
}

func Debug(message string, fields ...interface{}) { GetLogger().Debugw(message, fields...) }
func Info(message string, fields ...interface{})  { GetLogger().Infow(message, fields...) }
func Warn(message string, fields ...interface{})  { GetLogger().Warnw(message, fields...) }
func Error(message string, fields ...interface{}) { GetLogger().Errorw(message, fields...) }

// Fatal logs and exits with status 1.
func Fatal(message string, fields ...interface{}) {
	GetLogger().Errorw(message, fields...)
	Close()
	os.Exit(1)
}

// WithRequest tags entries with the request ID and matched route.
func WithRequest(requestID, endpoint string) *zap.SugaredLogger {
	return GetLogger().With("request_id", requestID, "endpoint", endpoint)
}

// WithJob tags entries with an import job name and its run ID.
func WithJob(job, runID string) *zap.SugaredLogger {
	return GetLogger().With("job", job, "run_id", runID)
}
