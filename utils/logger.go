package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// InitLogger initializes the loggers. Info, error and debug entries go to
// separate daily files under dir; warnings and above are mirrored to stderr.
func InitLogger(dir, level string) error {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	minLevel := zapcore.InfoLevel
	if level != "" {
		if err := minLevel.Set(level); err != nil {
			return fmt.Errorf("invalid log level %q: %v", level, err)
		}
	}

	timestamp := time.Now().Format("2006-01-02")
	openFile := func(prefix string) (zapcore.WriteSyncer, error) {
		f, err := os.OpenFile(
			filepath.Join(dir, fmt.Sprintf("%s-%s.log", prefix, timestamp)),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s log file: %v", prefix, err)
		}
		return zapcore.AddSync(f), nil
	}

	infoFile, err := openFile("info")
	if err != nil {
		return err
	}
	errorFile, err := openFile("error")
	if err != nil {
		return err
	}
	debugFile, err := openFile("debug")
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileEncoder := zapcore.NewJSONEncoder(encCfg)
	consoleEncoder := zapcore.NewConsoleEncoder(encCfg)

	only := func(lvl zapcore.Level) zap.LevelEnablerFunc {
		return func(l zapcore.Level) bool { return l == lvl && l >= minLevel }
	}

	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, debugFile, only(zapcore.DebugLevel)),
		zapcore.NewCore(fileEncoder, infoFile, zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= minLevel && l >= zapcore.InfoLevel && l < zapcore.ErrorLevel
		})),
		zapcore.NewCore(fileEncoder, errorFile, zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapcore.ErrorLevel
		})),
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapcore.WarnLevel
		})),
	)

	SetLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
	return nil
}

// SetLogger replaces the process logger. Passing nil installs a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Logger returns the process logger for structured fields.
func Logger() *zap.Logger {
	return logger.Load()
}

// SyncLogger flushes buffered entries
func SyncLogger() {
	_ = Logger().Sync()
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	Logger().Info(fmt.Sprintf(format, v...))
}

// LogWarn logs a warning
func LogWarn(format string, v ...interface{}) {
	Logger().Warn(fmt.Sprintf(format, v...))
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	Logger().Error(fmt.Sprintf(format, v...))
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	Logger().Debug(fmt.Sprintf(format, v...))
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip, requestID string, status int, duration time.Duration) {
	Logger().Info("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("ip", ip),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	Logger().Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
}
